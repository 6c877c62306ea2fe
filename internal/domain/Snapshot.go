package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SnapshotLine struct {
	SKU      string          `json:"sku"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cogs     decimal.Decimal `json:"cogs"`
}

// Snapshot é a contribuição completa de uma versão de pedido ao ledger.
// Aplicar com direção +1 e depois -1 deixa todas as células inalteradas.
type Snapshot struct {
	StoreID          string                     `json:"store_id"`
	Date             time.Time                  `json:"date"`
	Channel          Channel                    `json:"channel"`
	Currency         string                     `json:"currency"`
	Revenue          decimal.Decimal            `json:"revenue"`
	Units            int64                      `json:"units"`
	Cogs             decimal.Decimal            `json:"cogs"`
	ShippingCost     decimal.Decimal            `json:"shipping_cost"`
	PaymentFees      decimal.Decimal            `json:"payment_fees"`
	OtherCosts       decimal.Decimal            `json:"other_costs"`
	RefundAmount     decimal.Decimal            `json:"refund_amount"`
	RefundCount      int64                      `json:"refund_count"`
	Lines            []SnapshotLine             `json:"lines"`
	RefundBySku      map[string]decimal.Decimal `json:"refund_by_sku,omitempty"`
	RefundCountBySku map[string]int64           `json:"refund_count_by_sku,omitempty"`
}

func (s Snapshot) GrossProfit() decimal.Decimal {
	return s.Revenue.Sub(s.Cogs)
}

// VariableCosts soma os custos variáveis que não são COGS
func (s Snapshot) VariableCosts() decimal.Decimal {
	return s.ShippingCost.Add(s.PaymentFees).Add(s.OtherCosts)
}

func (s Snapshot) NetProfit() decimal.Decimal {
	return s.GrossProfit().Sub(s.VariableCosts()).Sub(s.RefundAmount)
}
