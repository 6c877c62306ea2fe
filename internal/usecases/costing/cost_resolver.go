package costing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

// CostResolution traz os custos do pedido e os itens com COGS preenchido
type CostResolution struct {
	Costs               []domain.OrderCost
	LineItems           []domain.LineItem
	MissingSkuCostCount int
}

type CostResolver struct {
	formulas *FormulaEvaluator
}

func NewCostResolver(formulas *FormulaEvaluator) *CostResolver {
	return &CostResolver{formulas: formulas}
}

// Resolve nunca falha: template ou fórmula com problema contribui zero e é registrado no log
func (r *CostResolver) Resolve(
	order domain.Order,
	items []domain.LineItem,
	skuCosts map[string]decimal.Decimal,
	templates []domain.CostTemplate,
	gatewayFee decimal.Decimal,
) CostResolution {
	resolution := CostResolution{
		Costs:     make([]domain.OrderCost, 0),
		LineItems: make([]domain.LineItem, 0, len(items)),
	}

	var units int64
	for _, item := range items {
		units += item.Quantity
		item.Cogs = decimal.Zero

		// itens sem SKU (gorjeta, taxa avulsa) não têm custo e não contam como ausentes
		if item.SKU == "" {
			resolution.LineItems = append(resolution.LineItems, item)
			continue
		}

		unitCost, ok := skuCosts[item.SKU]
		if !ok {
			if item.Quantity > 0 {
				resolution.MissingSkuCostCount++
			}
			resolution.LineItems = append(resolution.LineItems, item)
			continue
		}

		item.Cogs = unitCost.Mul(decimal.NewFromInt(item.Quantity))
		resolution.LineItems = append(resolution.LineItems, item)

		if item.Cogs.IsPositive() {
			resolution.Costs = append(resolution.Costs, domain.OrderCost{
				Type:     domain.CostTypeCOGS,
				Source:   domain.CostSourceSkuCost,
				Label:    item.SKU,
				Amount:   item.Cogs,
				Currency: order.Currency,
			})
		}
	}

	if gatewayFee.IsPositive() {
		resolution.Costs = append(resolution.Costs, domain.OrderCost{
			Type:     domain.CostTypePaymentFee,
			Source:   domain.CostSourceGateway,
			Label:    order.Gateway,
			Amount:   utils.RoundMoney(gatewayFee),
			Currency: order.Currency,
		})
	}

	for _, template := range templates {
		if !templateApplies(template, order) {
			continue
		}

		for _, line := range template.Lines {
			amount := r.evaluateLine(template, line, order, units)
			if !amount.IsPositive() {
				continue
			}

			label := template.Name
			if line.Label != "" {
				label = template.Name + ": " + line.Label
			}

			resolution.Costs = append(resolution.Costs, domain.OrderCost{
				Type:     template.Type,
				Source:   domain.CostSourceTemplate,
				Label:    label,
				Amount:   amount,
				Currency: order.Currency,
			})
		}
	}

	return resolution
}

func templateApplies(template domain.CostTemplate, order domain.Order) bool {
	if len(template.GatewayFilter) > 0 {
		matched := false
		for _, gateway := range template.GatewayFilter {
			if strings.EqualFold(strings.TrimSpace(gateway), order.Gateway) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(template.ChannelFilter) > 0 {
		for _, channel := range template.ChannelFilter {
			if channel == order.Channel {
				return true
			}
		}
		return false
	}

	return true
}

func baseFor(appliesTo domain.AppliesTo, order domain.Order) decimal.Decimal {
	switch appliesTo {
	case domain.AppliesToSubtotal:
		return order.Subtotal
	case domain.AppliesToShippingRevenue:
		return order.ShippingRevenue
	default:
		return order.Revenue
	}
}

func (r *CostResolver) evaluateLine(template domain.CostTemplate, line domain.CostTemplateLine, order domain.Order, units int64) decimal.Decimal {
	base := baseFor(line.AppliesTo, order)

	if line.Formula != "" && r.formulas != nil {
		amount, err := r.formulas.Evaluate(line.Formula, FormulaVars{
			OrderTotal:      order.Revenue,
			Subtotal:        order.Subtotal,
			ShippingRevenue: order.ShippingRevenue,
			Tax:             order.Tax,
			Discount:        order.Discount,
			Units:           units,
			Base:            base,
		})
		if err != nil {
			log.L.WithFields(log.Fields{
				"store_id":    order.StoreID,
				"order_id":    order.ExternalID,
				"template_id": template.ID,
				"formula":     line.Formula,
			}).WithError(err).Warn("Fórmula de custo inválida, linha ignorada")
			return decimal.Zero
		}
		return utils.RoundMoney(amount)
	}

	amount := line.FlatAmount.Add(base.Mul(line.PercentageRate).Div(hundred))
	return utils.RoundMoney(amount)
}
