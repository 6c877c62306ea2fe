package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundRecord struct {
	ID              int64            `json:"id"`
	StoreID         string           `json:"store_id"`
	OrderExternalID string           `json:"order_external_id"`
	ExternalID      string           `json:"external_id"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	Note            string           `json:"note,omitempty"`
	Restock         bool             `json:"restock"`
	ProcessedAt     time.Time        `json:"processed_at"`
	LineItems       []RefundLineItem `json:"line_items,omitempty"`
	RawPayload      map[string]any   `json:"raw_payload,omitempty"`
}

type RefundLineItem struct {
	SKU       string          `json:"sku,omitempty"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  int64           `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProductKey segue a mesma regra de LineItem.ProductKey
func (r RefundLineItem) ProductKey() string {
	if r.SKU != "" {
		return r.SKU
	}
	return r.VariantID
}

// NormalizedRefunds é o resultado consolidado dos reembolsos de um pedido
type NormalizedRefunds struct {
	Records    []RefundRecord
	Total      decimal.Decimal
	Count      int64
	BySku      map[string]decimal.Decimal
	CountBySku map[string]int64
}
