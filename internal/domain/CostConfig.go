package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SkuCost struct {
	StoreID       string          `json:"store_id"`
	SKU           string          `json:"sku"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Currency      string          `json:"currency"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
}

type AppliesTo string

const (
	AppliesToOrderTotal      AppliesTo = "ORDER_TOTAL"
	AppliesToSubtotal        AppliesTo = "SUBTOTAL"
	AppliesToShippingRevenue AppliesTo = "SHIPPING_REVENUE"
)

// CostTemplateLine aceita uma Formula CEL opcional que substitui flat + taxa
type CostTemplateLine struct {
	Label          string          `json:"label"`
	FlatAmount     decimal.Decimal `json:"flat_amount"`
	PercentageRate decimal.Decimal `json:"percentage_rate"`
	AppliesTo      AppliesTo       `json:"applies_to"`
	Formula        string          `json:"formula,omitempty"`
}

type CostTemplate struct {
	ID            string             `json:"id"`
	StoreID       string             `json:"store_id"`
	Name          string             `json:"name"`
	Type          CostType           `json:"type"`
	GatewayFilter []string           `json:"gateway_filter,omitempty"`
	ChannelFilter []Channel          `json:"channel_filter,omitempty"`
	Lines         []CostTemplateLine `json:"lines"`
}

type LogisticsRule struct {
	ID            string           `json:"id"`
	StoreID       string           `json:"store_id"`
	Provider      string           `json:"provider,omitempty"`
	Country       string           `json:"country,omitempty"`
	Region        string           `json:"region,omitempty"`
	MinWeightKg   decimal.Decimal  `json:"min_weight_kg"`
	MaxWeightKg   *decimal.Decimal `json:"max_weight_kg,omitempty"`
	FlatFee       decimal.Decimal  `json:"flat_fee"`
	PerKg         decimal.Decimal  `json:"per_kg"`
	Currency      string           `json:"currency"`
	EffectiveFrom time.Time        `json:"effective_from"`
	EffectiveTo   *time.Time       `json:"effective_to,omitempty"`
}

// ActiveAt indica se a regra está vigente no instante informado
func (r LogisticsRule) ActiveAt(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || t.Before(*r.EffectiveTo)
}

// CoversWeight indica se o peso está dentro da janela [min, max)
func (r LogisticsRule) CoversWeight(weightKg decimal.Decimal) bool {
	if weightKg.LessThan(r.MinWeightKg) {
		return false
	}
	return r.MaxWeightKg == nil || weightKg.LessThan(*r.MaxWeightKg)
}
