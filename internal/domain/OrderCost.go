package domain

import "github.com/shopspring/decimal"

type CostType string

const (
	CostTypeCOGS        CostType = "COGS"
	CostTypeShipping    CostType = "SHIPPING"
	CostTypePaymentFee  CostType = "PAYMENT_FEE"
	CostTypePlatformFee CostType = "PLATFORM_FEE"
	CostTypeCustom      CostType = "CUSTOM"
)

type CostSource string

const (
	CostSourceSkuCost       CostSource = "SKU_COST"
	CostSourceTemplate      CostSource = "TEMPLATE"
	CostSourceLogisticsRule CostSource = "LOGISTICS_RULE"
	CostSourceGateway       CostSource = "GATEWAY"
)

type OrderCost struct {
	ID       int64           `json:"id"`
	OrderID  string          `json:"order_id"`
	Type     CostType        `json:"type"`
	Source   CostSource      `json:"source"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// SumCosts soma os valores de um tipo de custo
func SumCosts(costs []OrderCost, costType CostType) decimal.Decimal {
	total := decimal.Zero
	for _, c := range costs {
		if c.Type == costType {
			total = total.Add(c.Amount)
		}
	}
	return total
}
