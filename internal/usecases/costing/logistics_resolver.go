package costing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

const (
	scoreProvider = 4
	scoreRegion   = 2
	scoreCountry  = 1
)

type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error)
}

type LogisticsQuery struct {
	StoreID  string
	OrderID  string
	Provider string
	Country  string
	Region   string
	WeightKg decimal.Decimal
	At       time.Time
	Currency string
}

type LogisticsResolver struct {
	converter CurrencyConverter
}

func NewLogisticsResolver(converter CurrencyConverter) *LogisticsResolver {
	return &LogisticsResolver{converter: converter}
}

// Select escolhe a regra mais específica aplicável: provedor e região valem mais
// que só país, que vale mais que nenhuma geografia. Empate favorece a vigência mais recente.
func (r *LogisticsResolver) Select(rules []domain.LogisticsRule, query LogisticsQuery) *domain.LogisticsRule {
	type candidate struct {
		rule  domain.LogisticsRule
		score int
	}

	candidates := make([]candidate, 0, len(rules))
	for _, rule := range rules {
		if !rule.ActiveAt(query.At) || !rule.CoversWeight(query.WeightKg) {
			continue
		}

		score := 0
		if rule.Provider != "" {
			if !strings.EqualFold(rule.Provider, query.Provider) {
				continue
			}
			score += scoreProvider
		}
		if rule.Country != "" {
			if !strings.EqualFold(rule.Country, query.Country) {
				continue
			}
			score += scoreCountry
		}
		if rule.Region != "" {
			if !strings.EqualFold(rule.Region, query.Region) {
				continue
			}
			score += scoreRegion
		}

		candidates = append(candidates, candidate{rule: rule, score: score})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].rule.EffectiveFrom.Equal(candidates[j].rule.EffectiveFrom) {
			return candidates[i].rule.EffectiveFrom.After(candidates[j].rule.EffectiveFrom)
		}
		return candidates[i].rule.ID < candidates[j].rule.ID
	})

	selected := candidates[0].rule
	return &selected
}

// Resolve calcula flatFee + perKg × peso na moeda do pedido. Sem regra aplicável o custo é zero.
func (r *LogisticsResolver) Resolve(ctx context.Context, rules []domain.LogisticsRule, query LogisticsQuery) (decimal.Decimal, *domain.LogisticsRule) {
	rule := r.Select(rules, query)
	if rule == nil {
		return decimal.Zero, nil
	}

	cost := rule.FlatFee.Add(rule.PerKg.Mul(query.WeightKg))

	if rule.Currency != "" && query.Currency != "" && !strings.EqualFold(rule.Currency, query.Currency) && r.converter != nil {
		converted, err := r.converter.Convert(ctx, cost, rule.Currency, query.Currency, query.At)
		if err != nil {
			log.ForContext(ctx).WithFields(log.Fields{
				"store_id": query.StoreID,
				"order_id": query.OrderID,
				"rule_id":  rule.ID,
				"from":     rule.Currency,
				"to":       query.Currency,
			}).WithError(err).Warn("Falha na conversão de moeda do frete, usando taxa 1")
		} else {
			cost = converted
		}
	}

	if cost.IsNegative() {
		cost = decimal.Zero
	}

	return utils.RoundMoney(cost), rule
}
