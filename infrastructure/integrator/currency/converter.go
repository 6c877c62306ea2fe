package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/config"
	"github.com/vfg2006/profit-engine/pkg/log"
)

const rateTTL = 24 * time.Hour

var ErrUnknownCurrency = errors.New("unknown currency")

// Converter converte valores usando cotações fixas relativas a uma moeda base.
// Cotações cruzadas resolvidas ficam no cache por par e dia.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
	cache RateCache
}

func NewConverter(cfg config.Currency, cache RateCache) (*Converter, error) {
	rates, err := ParseStaticRates(cfg.StaticRates)
	if err != nil {
		return nil, err
	}

	base := strings.ToUpper(cfg.Base)
	if base == "" {
		base = "USD"
	}
	rates[base] = decimal.NewFromInt(1)

	if cache == nil {
		cache = NoopRateCache{}
	}

	return &Converter{base: base, rates: rates, cache: cache}, nil
}

// ParseStaticRates interpreta entradas "BRL=5.10"
func ParseStaticRates(entries []string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("cotação inválida %q", entry)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("cotação inválida %q", entry)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

// Rate retorna quantas unidades de to valem uma unidade de from
func (c *Converter) Rate(ctx context.Context, from, to string, at time.Time) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to || from == "" || to == "" {
		return decimal.NewFromInt(1), nil
	}

	key := fmt.Sprintf("fx:%s:%s:%s", from, to, at.UTC().Format("2006-01-02"))
	if rate, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return rate, nil
	} else if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Falha ao ler cotação do cache")
	}

	fromRate, ok := c.rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := c.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}

	rate := toRate.Div(fromRate)
	if err := c.cache.Set(ctx, key, rate, rateTTL); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Falha ao gravar cotação no cache")
	}

	return rate, nil
}

func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error) {
	rate, err := c.Rate(ctx, from, to, at)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
