package ledgering

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
)

// BuildSnapshot monta a contribuição de uma versão do pedido ao ledger no dia informado
func BuildSnapshot(date time.Time, order domain.Order, items []domain.LineItem, costs []domain.OrderCost, refunds domain.NormalizedRefunds) domain.Snapshot {
	snap := domain.Snapshot{
		StoreID:          order.StoreID,
		Date:             date,
		Channel:          order.Channel,
		Currency:         order.Currency,
		Revenue:          order.Revenue,
		Cogs:             domain.SumCosts(costs, domain.CostTypeCOGS),
		ShippingCost:     domain.SumCosts(costs, domain.CostTypeShipping),
		PaymentFees:      domain.SumCosts(costs, domain.CostTypePaymentFee),
		OtherCosts:       domain.SumCosts(costs, domain.CostTypePlatformFee).Add(domain.SumCosts(costs, domain.CostTypeCustom)),
		RefundAmount:     refunds.Total,
		RefundCount:      refunds.Count,
		Lines:            make([]domain.SnapshotLine, 0, len(items)),
		RefundBySku:      make(map[string]decimal.Decimal, len(refunds.BySku)),
		RefundCountBySku: make(map[string]int64, len(refunds.CountBySku)),
	}

	index := make(map[string]int, len(items))
	for _, item := range items {
		snap.Units += item.Quantity

		key := item.ProductKey()
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			snap.Lines[i].Quantity += item.Quantity
			snap.Lines[i].Revenue = snap.Lines[i].Revenue.Add(item.Revenue)
			snap.Lines[i].Cogs = snap.Lines[i].Cogs.Add(item.Cogs)
			continue
		}
		index[key] = len(snap.Lines)
		snap.Lines = append(snap.Lines, domain.SnapshotLine{
			SKU:      key,
			Quantity: item.Quantity,
			Revenue:  item.Revenue,
			Cogs:     item.Cogs,
		})
	}

	sort.SliceStable(snap.Lines, func(i, j int) bool { return snap.Lines[i].SKU < snap.Lines[j].SKU })

	for sku, amount := range refunds.BySku {
		snap.RefundBySku[sku] = amount
	}
	for sku, count := range refunds.CountBySku {
		snap.RefundCountBySku[sku] = count
	}

	return snap
}

// ConvertSnapshot aplica a cotação a todos os valores monetários do snapshot
func ConvertSnapshot(snap domain.Snapshot, rate decimal.Decimal, currency string) domain.Snapshot {
	if rate.Equal(decimal.NewFromInt(1)) && currency == snap.Currency {
		return snap
	}

	converted := snap
	converted.Currency = currency
	converted.Revenue = snap.Revenue.Mul(rate)
	converted.Cogs = snap.Cogs.Mul(rate)
	converted.ShippingCost = snap.ShippingCost.Mul(rate)
	converted.PaymentFees = snap.PaymentFees.Mul(rate)
	converted.OtherCosts = snap.OtherCosts.Mul(rate)
	converted.RefundAmount = snap.RefundAmount.Mul(rate)

	converted.Lines = make([]domain.SnapshotLine, len(snap.Lines))
	for i, line := range snap.Lines {
		line.Revenue = line.Revenue.Mul(rate)
		line.Cogs = line.Cogs.Mul(rate)
		converted.Lines[i] = line
	}

	converted.RefundBySku = make(map[string]decimal.Decimal, len(snap.RefundBySku))
	for sku, amount := range snap.RefundBySku {
		converted.RefundBySku[sku] = amount.Mul(rate)
	}

	return converted
}
