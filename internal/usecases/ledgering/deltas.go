package ledgering

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

// Deltas expande o snapshot nas variações das células TOTAL, do canal e de cada produto.
// Valores do pedido são repartidos entre os produtos pela participação na receita dos itens;
// o COGS é exato por item e o reembolso é exato quando o payload informa os itens reembolsados.
func Deltas(snap domain.Snapshot, direction int) []domain.CellDelta {
	order := orderValues(snap)

	deltas := []domain.CellDelta{
		{Key: domain.TotalCellKey(snap.StoreID, snap.Date), Currency: snap.Currency, Values: order.Scale(direction)},
	}
	if snap.Channel != "" && !snap.Channel.IsReserved() {
		deltas = append(deltas, domain.CellDelta{
			Key:      domain.ChannelCellKey(snap.StoreID, snap.Channel, snap.Date),
			Currency: snap.Currency,
			Values:   order.Scale(direction),
		})
	}

	for _, product := range productValues(snap) {
		deltas = append(deltas, domain.CellDelta{
			Key:      domain.ProductCellKey(snap.StoreID, product.sku, snap.Date),
			Currency: snap.Currency,
			Values:   product.values.Scale(direction),
		})
	}

	return deltas
}

func orderValues(snap domain.Snapshot) domain.MetricValues {
	values := domain.MetricValues{
		Orders:       1,
		Units:        snap.Units,
		Revenue:      snap.Revenue,
		AdSpend:      decimal.Zero,
		Cogs:         snap.Cogs,
		ShippingCost: snap.ShippingCost,
		PaymentFees:  snap.PaymentFees,
		OtherCosts:   snap.OtherCosts,
		RefundAmount: snap.RefundAmount,
		RefundCount:  snap.RefundCount,
	}
	return withProfit(values)
}

func withProfit(v domain.MetricValues) domain.MetricValues {
	v.GrossProfit = v.Revenue.Sub(v.Cogs)
	v.NetProfit = v.GrossProfit.Sub(v.ShippingCost).Sub(v.PaymentFees).Sub(v.OtherCosts).Sub(v.RefundAmount)
	return v
}

type productDelta struct {
	sku    string
	values domain.MetricValues
}

func productValues(snap domain.Snapshot) []productDelta {
	if len(snap.Lines) == 0 {
		return nil
	}

	weights := make([]decimal.Decimal, len(snap.Lines))
	for i, line := range snap.Lines {
		weights[i] = line.Revenue
	}
	if sumOf(weights).IsZero() {
		for i, line := range snap.Lines {
			weights[i] = decimal.NewFromInt(line.Quantity)
		}
	}
	if sumOf(weights).IsZero() {
		for i := range weights {
			weights[i] = decimal.NewFromInt(1)
		}
	}

	revenue := Allocate(snap.Revenue, weights)
	shipping := Allocate(snap.ShippingCost, weights)
	fees := Allocate(snap.PaymentFees, weights)
	other := Allocate(snap.OtherCosts, weights)

	exactRefunds := len(snap.RefundBySku) > 0
	var refunds []decimal.Decimal
	if !exactRefunds {
		refunds = Allocate(snap.RefundAmount, weights)
	}

	products := make([]productDelta, 0, len(snap.Lines))
	for i, line := range snap.Lines {
		values := domain.MetricValues{
			Orders:       1,
			Units:        line.Quantity,
			Revenue:      revenue[i],
			AdSpend:      decimal.Zero,
			Cogs:         line.Cogs,
			ShippingCost: shipping[i],
			PaymentFees:  fees[i],
			OtherCosts:   other[i],
		}

		if exactRefunds {
			values.RefundAmount = snap.RefundBySku[line.SKU]
			values.RefundCount = snap.RefundCountBySku[line.SKU]
		} else {
			values.RefundAmount = refunds[i]
			if refunds[i].IsPositive() {
				values.RefundCount = snap.RefundCount
			}
		}

		products = append(products, productDelta{sku: line.SKU, values: withProfit(values)})
	}

	return products
}

// Allocate reparte o valor proporcionalmente aos pesos, em centavos, e entrega o resíduo
// de arredondamento ao maior peso. A soma das partes é sempre igual ao valor arredondado.
func Allocate(amount decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	parts := make([]decimal.Decimal, len(weights))
	for i := range parts {
		parts[i] = decimal.Zero
	}

	total := sumOf(weights)
	if len(weights) == 0 || total.IsZero() || amount.IsZero() {
		return parts
	}

	target := utils.RoundMoney(amount)
	allocated := decimal.Zero
	largest := 0
	for i, weight := range weights {
		parts[i] = utils.RoundMoney(target.Mul(weight).Div(total))
		allocated = allocated.Add(parts[i])
		if weight.GreaterThan(weights[largest]) {
			largest = i
		}
	}

	parts[largest] = parts[largest].Add(target.Sub(allocated))
	return parts
}

func sumOf(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// sortDeltas ordena pela chave para que transações concorrentes travem as células na mesma ordem
func sortDeltas(deltas []domain.CellDelta) {
	sort.SliceStable(deltas, func(i, j int) bool {
		return deltas[i].Key.String() < deltas[j].Key.String()
	})
}
