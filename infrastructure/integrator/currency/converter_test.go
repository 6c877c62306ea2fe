package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/config"
)

type mapCache struct {
	values map[string]decimal.Decimal
	sets   int
}

func (m *mapCache) Get(_ context.Context, key string) (decimal.Decimal, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapCache) Set(_ context.Context, key string, rate decimal.Decimal, _ time.Duration) error {
	m.values[key] = rate
	m.sets++
	return nil
}

func TestParseStaticRates(t *testing.T) {
	rates, err := ParseStaticRates([]string{"usd=1", " BRL = 5.00 ", ""})
	require.NoError(t, err)
	assert.True(t, rates["BRL"].Equal(decimal.NewFromInt(5)))
	assert.True(t, rates["USD"].Equal(decimal.NewFromInt(1)))

	_, err = ParseStaticRates([]string{"EUR"})
	assert.Error(t, err)

	_, err = ParseStaticRates([]string{"EUR=-1"})
	assert.Error(t, err)
}

func TestConverter_Convert(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	cache := &mapCache{values: map[string]decimal.Decimal{}}

	converter, err := NewConverter(config.Currency{
		Base:        "USD",
		StaticRates: []string{"BRL=5", "EUR=0.5"},
	}, cache)
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   string
		from     string
		to       string
		expected string
		err      error
	}{
		{name: "Mesma moeda", amount: "10", from: "USD", to: "usd", expected: "10"},
		{name: "Base para BRL", amount: "10", from: "USD", to: "BRL", expected: "50"},
		{name: "Cruzada BRL para EUR", amount: "50", from: "BRL", to: "EUR", expected: "5"},
		{name: "Moeda desconhecida", amount: "1", from: "JPY", to: "USD", err: ErrUnknownCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := converter.Convert(ctx, decimal.RequireFromString(tt.amount), tt.from, tt.to, at)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.True(t, result.Equal(decimal.RequireFromString(tt.expected)), "got %s", result)
		})
	}

	_, err = converter.Convert(ctx, decimal.NewFromInt(1), "USD", "BRL", at)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets, "cotação já resolvida vem do cache")
	_, ok := cache.values["fx:USD:BRL:2024-05-02"]
	assert.True(t, ok)
}
