package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttributionTouch struct {
	RuleType string          `json:"rule_type"`
	Weight   decimal.Decimal `json:"weight"`
}

type AttributionRule struct {
	MerchantID string             `json:"merchant_id"`
	Provider   string             `json:"provider"`
	Touches    []AttributionTouch `json:"touches"`
}

type OrderAttribution struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	StoreID   string          `json:"store_id"`
	Provider  string          `json:"provider"`
	RuleType  string          `json:"rule_type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"created_at"`
}
