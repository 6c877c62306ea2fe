package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CellKey identifica uma célula do ledger: loja, canal, SKU (nil fora das células PRODUCT) e dia
type CellKey struct {
	StoreID    string    `json:"store_id"`
	Channel    Channel   `json:"channel"`
	ProductSKU *string   `json:"product_sku,omitempty"`
	Date       time.Time `json:"date"`
}

func TotalCellKey(storeID string, date time.Time) CellKey {
	return CellKey{StoreID: storeID, Channel: ChannelTotal, Date: date}
}

func ChannelCellKey(storeID string, channel Channel, date time.Time) CellKey {
	return CellKey{StoreID: storeID, Channel: channel, Date: date}
}

func ProductCellKey(storeID, sku string, date time.Time) CellKey {
	return CellKey{StoreID: storeID, Channel: ChannelProduct, ProductSKU: &sku, Date: date}
}

// SKU devolve o SKU da célula ou vazio
func (k CellKey) SKU() string {
	if k.ProductSKU == nil {
		return ""
	}
	return *k.ProductSKU
}

func (k CellKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.StoreID, k.Channel, k.SKU(), k.Date.Format("2006-01-02"))
}

type MetricValues struct {
	Orders       int64           `json:"orders"`
	Units        int64           `json:"units"`
	Revenue      decimal.Decimal `json:"revenue"`
	AdSpend      decimal.Decimal `json:"ad_spend"`
	Cogs         decimal.Decimal `json:"cogs"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	PaymentFees  decimal.Decimal `json:"payment_fees"`
	OtherCosts   decimal.Decimal `json:"other_costs"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundCount  int64           `json:"refund_count"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	NetProfit    decimal.Decimal `json:"net_profit"`
}

// Scale multiplica todos os campos pela direção (+1 aplica, -1 reverte)
func (v MetricValues) Scale(direction int) MetricValues {
	d := decimal.NewFromInt(int64(direction))
	n := int64(direction)
	return MetricValues{
		Orders:       v.Orders * n,
		Units:        v.Units * n,
		Revenue:      v.Revenue.Mul(d),
		AdSpend:      v.AdSpend.Mul(d),
		Cogs:         v.Cogs.Mul(d),
		ShippingCost: v.ShippingCost.Mul(d),
		PaymentFees:  v.PaymentFees.Mul(d),
		OtherCosts:   v.OtherCosts.Mul(d),
		RefundAmount: v.RefundAmount.Mul(d),
		RefundCount:  v.RefundCount * n,
		GrossProfit:  v.GrossProfit.Mul(d),
		NetProfit:    v.NetProfit.Mul(d),
	}
}

func (v MetricValues) Add(o MetricValues) MetricValues {
	return MetricValues{
		Orders:       v.Orders + o.Orders,
		Units:        v.Units + o.Units,
		Revenue:      v.Revenue.Add(o.Revenue),
		AdSpend:      v.AdSpend.Add(o.AdSpend),
		Cogs:         v.Cogs.Add(o.Cogs),
		ShippingCost: v.ShippingCost.Add(o.ShippingCost),
		PaymentFees:  v.PaymentFees.Add(o.PaymentFees),
		OtherCosts:   v.OtherCosts.Add(o.OtherCosts),
		RefundAmount: v.RefundAmount.Add(o.RefundAmount),
		RefundCount:  v.RefundCount + o.RefundCount,
		GrossProfit:  v.GrossProfit.Add(o.GrossProfit),
		NetProfit:    v.NetProfit.Add(o.NetProfit),
	}
}

func (v MetricValues) IsZero() bool {
	return v.Orders == 0 && v.Units == 0 && v.RefundCount == 0 &&
		v.Revenue.IsZero() && v.AdSpend.IsZero() && v.Cogs.IsZero() &&
		v.ShippingCost.IsZero() && v.PaymentFees.IsZero() && v.OtherCosts.IsZero() && v.RefundAmount.IsZero() &&
		v.GrossProfit.IsZero() && v.NetProfit.IsZero()
}

// Equal compara valores numericamente, ignorando a escala dos decimais
func (v MetricValues) Equal(o MetricValues) bool {
	return v.Orders == o.Orders && v.Units == o.Units && v.RefundCount == o.RefundCount &&
		v.Revenue.Equal(o.Revenue) && v.AdSpend.Equal(o.AdSpend) && v.Cogs.Equal(o.Cogs) &&
		v.ShippingCost.Equal(o.ShippingCost) && v.PaymentFees.Equal(o.PaymentFees) && v.OtherCosts.Equal(o.OtherCosts) &&
		v.RefundAmount.Equal(o.RefundAmount) && v.GrossProfit.Equal(o.GrossProfit) &&
		v.NetProfit.Equal(o.NetProfit)
}

// DailyMetric é uma célula persistida do ledger
type DailyMetric struct {
	ID int64 `json:"id"`
	CellKey
	Currency string `json:"currency"`
	MetricValues
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CellDelta é uma variação assinada a ser aplicada em uma célula
type CellDelta struct {
	Key      CellKey
	Currency string
	Values   MetricValues
}
