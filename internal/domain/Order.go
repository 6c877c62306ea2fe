package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                  string          `json:"id"`
	StoreID             string          `json:"store_id"`
	ExternalID          string          `json:"external_id"`
	Name                string          `json:"name"`
	Channel             Channel         `json:"channel"`
	SourceName          string          `json:"source_name"`
	Currency            string          `json:"currency"`
	FinancialStatus     string          `json:"financial_status"`
	Gateway             string          `json:"gateway"`
	CustomerID          string          `json:"customer_id,omitempty"`
	CustomerEmail       string          `json:"customer_email,omitempty"`
	ShippingCountry     string          `json:"shipping_country"`
	ShippingRegion      string          `json:"shipping_region"`
	ShippingCarrier     string          `json:"shipping_carrier"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Discount            decimal.Decimal `json:"discount"`
	ShippingRevenue     decimal.Decimal `json:"shipping_revenue"`
	Tax                 decimal.Decimal `json:"tax"`
	Revenue             decimal.Decimal `json:"revenue"`
	Total               decimal.Decimal `json:"total"`
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	TotalWeightKg       decimal.Decimal `json:"total_weight_kg"`
	MissingSkuCostCount int             `json:"missing_sku_cost_count"`
	ProcessedAt         time.Time       `json:"processed_at"`
	LedgerDate          time.Time       `json:"ledger_date"`
	LedgerSnapshot      *Snapshot       `json:"-"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type LineItem struct {
	ID          int64           `json:"id"`
	OrderID     string          `json:"order_id"`
	SKU         string          `json:"sku"`
	VariantID   string          `json:"variant_id"`
	Title       string          `json:"title"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cogs        decimal.Decimal `json:"cogs"`
	WeightGrams int64           `json:"weight_grams"`
}

// ProductKey identifica o produto para as células PRODUCT: SKU, ou o variant id quando não há SKU
func (l LineItem) ProductKey() string {
	if l.SKU != "" {
		return l.SKU
	}
	return l.VariantID
}

// ParsedOrder é a saída normalizada do parser, ainda sem custos resolvidos
type ParsedOrder struct {
	Order      Order
	LineItems  []LineItem
	RawRefunds []map[string]any
	GatewayFee decimal.Decimal
}

// PersistedOrder agrega o pedido gravado e seus filhos, usado para reverter o snapshot anterior
type PersistedOrder struct {
	Order     Order
	LineItems []LineItem
	Costs     []OrderCost
	Refunds   []RefundRecord
}
