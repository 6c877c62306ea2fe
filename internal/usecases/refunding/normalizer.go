package refunding

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize consolida os reembolsos brutos do payload. O valor de cada reembolso é a soma
// absoluta das transações de estorno; sem transações usa o total informado e, por último,
// a soma dos itens. Reembolsos sem valor positivo são descartados.
func (n *Normalizer) Normalize(storeID, orderExternalID, currency string, raw []map[string]any, fallbackTime time.Time) domain.NormalizedRefunds {
	result := newConsolidated(make([]domain.RefundRecord, 0, len(raw)))

	for i, refund := range raw {
		lines := parseRefundLines(refund)

		amount := transactionsAmount(refund)
		if amount.IsZero() {
			amount = utils.ToDecimal(utils.First(refund,
				"total_refunded", "amount",
			)).Abs()
		}
		if amount.IsZero() {
			amount = utils.ToDecimal(utils.Dig(refund, "total_refunded_set", "shop_money", "amount")).Abs()
		}
		if amount.IsZero() {
			for _, line := range lines {
				amount = amount.Add(line.Amount)
			}
		}
		if !amount.IsPositive() {
			continue
		}

		externalID := utils.ToString(refund["id"])
		if externalID == "" {
			externalID = fmt.Sprintf("%s-refund-%d", orderExternalID, i)
		}

		processedAt, ok := utils.ToTime(utils.First(refund, "processed_at", "created_at"))
		if !ok {
			processedAt = fallbackTime
		}

		refundCurrency := strings.ToUpper(utils.ToString(refund["currency"]))
		if refundCurrency == "" {
			refundCurrency = currency
		}

		record := domain.RefundRecord{
			StoreID:         storeID,
			OrderExternalID: orderExternalID,
			ExternalID:      externalID,
			Amount:          utils.RoundMoney(amount),
			Currency:        refundCurrency,
			Note:            utils.ToString(utils.First(refund, "note", "reason")),
			Restock:         isRestock(refund),
			ProcessedAt:     processedAt,
			LineItems:       lines,
			RawPayload:      refund,
		}

		result.Records = append(result.Records, record)
		result.Total = result.Total.Add(record.Amount)
		result.Count++

		addLines(&result, lines)
	}

	return result
}

// FromRecords reconstrói o consolidado a partir dos reembolsos persistidos
func (n *Normalizer) FromRecords(records []domain.RefundRecord) domain.NormalizedRefunds {
	result := newConsolidated(records)

	for _, record := range records {
		result.Total = result.Total.Add(record.Amount)
		result.Count++

		addLines(&result, record.LineItems)
	}

	return result
}

func newConsolidated(records []domain.RefundRecord) domain.NormalizedRefunds {
	return domain.NormalizedRefunds{
		Records:    records,
		Total:      decimal.Zero,
		BySku:      make(map[string]decimal.Decimal),
		CountBySku: make(map[string]int64),
	}
}

// addLines acumula só linhas com valor positivo; o contador conta um por reembolso
func addLines(c *domain.NormalizedRefunds, lines []domain.RefundLineItem) {
	touched := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		key := line.ProductKey()
		if key == "" || !line.Amount.IsPositive() {
			continue
		}
		c.BySku[key] = c.BySku[key].Add(line.Amount)
		if _, seen := touched[key]; !seen {
			touched[key] = struct{}{}
			c.CountBySku[key]++
		}
	}
}

func isRestock(refund map[string]any) bool {
	if utils.ToBool(refund["restock"]) {
		return true
	}
	for _, raw := range utils.ToSlice(refund["refund_line_items"]) {
		restockType := strings.ToLower(utils.ToString(utils.ToMap(raw)["restock_type"]))
		if restockType != "" && restockType != "no_restock" {
			return true
		}
	}
	return false
}

func transactionsAmount(refund map[string]any) decimal.Decimal {
	total := decimal.Zero
	for _, raw := range utils.ToSlice(refund["transactions"]) {
		tx := utils.ToMap(raw)
		if tx == nil {
			continue
		}
		kind := strings.ToLower(utils.ToString(tx["kind"]))
		status := strings.ToLower(utils.ToString(tx["status"]))
		if kind != "" && kind != "refund" {
			continue
		}
		if status != "" && status != "success" {
			continue
		}
		total = total.Add(utils.ToDecimal(tx["amount"]).Abs())
	}
	return total
}

func parseRefundLines(refund map[string]any) []domain.RefundLineItem {
	lines := make([]domain.RefundLineItem, 0)
	for _, raw := range utils.ToSlice(refund["refund_line_items"]) {
		entry := utils.ToMap(raw)
		if entry == nil {
			continue
		}
		item := utils.ToMap(entry["line_item"])
		if item == nil {
			item = entry
		}

		quantity := utils.ToInt64(entry["quantity"])
		if quantity < 0 {
			quantity = 0
		}

		// valor com sinal: linhas negativas ou zeradas não são devolução de produto
		amount := utils.ToDecimal(utils.First(entry, "subtotal", "amount"))
		if amount.IsZero() {
			amount = utils.ToDecimal(item["price"]).Mul(decimal.NewFromInt(quantity))
		}
		if !amount.IsPositive() {
			continue
		}

		lines = append(lines, domain.RefundLineItem{
			SKU:       utils.ToString(utils.First(item, "sku")),
			VariantID: utils.ToString(utils.First(item, "variant_id")),
			Quantity:  quantity,
			Amount:    utils.RoundMoney(amount),
		})
	}
	return lines
}
