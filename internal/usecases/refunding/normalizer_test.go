package refunding

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/domain"
)

func TestNormalizer_Normalize(t *testing.T) {
	fallback := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      []map[string]any
		validate func(t *testing.T, r domain.NormalizedRefunds)
	}{
		{
			name: "Sem reembolsos",
			raw:  nil,
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				assert.Empty(t, r.Records)
				assert.True(t, r.Total.IsZero())
				assert.Zero(t, r.Count)
			},
		},
		{
			name: "Soma absoluta das transações de estorno",
			raw: []map[string]any{
				{
					"id":           "r1",
					"processed_at": "2024-05-03T12:00:00Z",
					"transactions": []any{
						map[string]any{"kind": "refund", "status": "success", "amount": "-12.50"},
						map[string]any{"kind": "refund", "status": "success", "amount": "7.50"},
						map[string]any{"kind": "refund", "status": "failure", "amount": "100"},
						map[string]any{"kind": "sale", "amount": "300"},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				assert.True(t, r.Total.Equal(decimal.NewFromInt(20)))
				assert.Equal(t, "r1", r.Records[0].ExternalID)
				assert.Equal(t, 2024, r.Records[0].ProcessedAt.Year())
				assert.Equal(t, time.May, r.Records[0].ProcessedAt.Month())
				assert.Equal(t, 3, r.Records[0].ProcessedAt.Day())
			},
		},
		{
			name: "Sem transações usa o total informado",
			raw: []map[string]any{
				{
					"id": "r2",
					"total_refunded_set": map[string]any{
						"shop_money": map[string]any{"amount": "15.00"},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				assert.True(t, r.Total.Equal(decimal.NewFromInt(15)))
				assert.Equal(t, fallback, r.Records[0].ProcessedAt)
				assert.Equal(t, "USD", r.Records[0].Currency)
			},
		},
		{
			name: "Reembolso zerado é descartado",
			raw: []map[string]any{
				{"id": "r3", "transactions": []any{}},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				assert.Empty(t, r.Records)
				assert.Zero(t, r.Count)
			},
		},
		{
			name: "Reembolso de 20 em um único item alimenta só aquele SKU",
			raw: []map[string]any{
				{
					"id": "r4",
					"transactions": []any{
						map[string]any{"kind": "refund", "amount": "20"},
					},
					"refund_line_items": []any{
						map[string]any{
							"quantity": 1,
							"subtotal": "20",
							"line_item": map[string]any{"sku": "SKU-A", "variant_id": 11, "price": "120"},
						},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				assert.True(t, r.BySku["SKU-A"].Equal(decimal.NewFromInt(20)))
				_, ok := r.BySku["SKU-B"]
				assert.False(t, ok)
				assert.Equal(t, int64(1), r.CountBySku["SKU-A"])
			},
		},
		{
			name: "Item sem SKU usa o variant id e valor pelo preço",
			raw: []map[string]any{
				{
					"refund_line_items": []any{
						map[string]any{
							"quantity":  2,
							"line_item": map[string]any{"variant_id": "v-9", "price": "5.25"},
						},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				assert.Equal(t, "1001-refund-0", r.Records[0].ExternalID)
				assert.True(t, r.Total.Equal(decimal.RequireFromString("10.5")))
				assert.True(t, r.BySku["v-9"].Equal(decimal.RequireFromString("10.5")))
			},
		},
		{
			name: "Linha com valor negativo ou zerado não alimenta o SKU",
			raw: []map[string]any{
				{
					"id":     "r5",
					"amount": "30",
					"refund_line_items": []any{
						map[string]any{
							"quantity":  1,
							"subtotal":  "-10",
							"line_item": map[string]any{"sku": "SKU-A", "price": "120"},
						},
						map[string]any{
							"quantity":  1,
							"subtotal":  "0",
							"line_item": map[string]any{"sku": "SKU-B", "price": "0"},
						},
						map[string]any{
							"quantity":  1,
							"line_item": map[string]any{"sku": "SKU-C", "price": "-5"},
						},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				assert.True(t, r.Total.Equal(decimal.NewFromInt(30)))
				assert.Empty(t, r.Records[0].LineItems)
				assert.Empty(t, r.BySku)
				assert.Empty(t, r.CountBySku)
			},
		},
		{
			name: "Reembolso com devolução ao estoque guarda o payload bruto",
			raw: []map[string]any{
				{
					"id":     "r6",
					"amount": "8",
					"reason": "produto avariado",
					"refund_line_items": []any{
						map[string]any{
							"quantity":     1,
							"subtotal":     "8",
							"restock_type": "return",
							"line_item":    map[string]any{"sku": "SKU-A"},
						},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				record := r.Records[0]
				assert.True(t, record.Restock)
				assert.Equal(t, "produto avariado", record.Note)
				assert.Equal(t, "r6", record.RawPayload["id"])
			},
		},
		{
			name: "Sem reposição de estoque",
			raw: []map[string]any{
				{
					"id":     "r7",
					"amount": "8",
					"refund_line_items": []any{
						map[string]any{"quantity": 1, "subtotal": "8", "restock_type": "no_restock", "line_item": map[string]any{"sku": "SKU-A"}},
					},
				},
			},
			validate: func(t *testing.T, r domain.NormalizedRefunds) {
				require.Len(t, r.Records, 1)
				assert.False(t, r.Records[0].Restock)
			},
		},
	}

	normalizer := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, normalizer.Normalize("store-1", "1001", "USD", tt.raw, fallback))
		})
	}
}

func TestNormalizer_FromRecords(t *testing.T) {
	records := []domain.RefundRecord{
		{ExternalID: "a", Amount: decimal.NewFromInt(10), LineItems: []domain.RefundLineItem{
			{SKU: "SKU-A", Quantity: 1, Amount: decimal.NewFromInt(6)},
			{SKU: "SKU-A", Quantity: 1, Amount: decimal.NewFromInt(4)},
		}},
		{ExternalID: "b", Amount: decimal.NewFromInt(5)},
	}

	result := NewNormalizer().FromRecords(records)

	assert.True(t, result.Total.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, int64(2), result.Count)
	assert.True(t, result.BySku["SKU-A"].Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), result.CountBySku["SKU-A"])
}

func TestNormalizer_FromRecords_IgnoraLinhasNaoPositivas(t *testing.T) {
	records := []domain.RefundRecord{
		{ExternalID: "a", Amount: decimal.NewFromInt(10), LineItems: []domain.RefundLineItem{
			{SKU: "SKU-A", Quantity: 1, Amount: decimal.NewFromInt(-4)},
			{SKU: "SKU-B", Quantity: 1, Amount: decimal.Zero},
			{SKU: "SKU-C", Quantity: 1, Amount: decimal.NewFromInt(10)},
		}},
	}

	result := NewNormalizer().FromRecords(records)

	assert.Len(t, result.BySku, 1)
	assert.True(t, result.BySku["SKU-C"].Equal(decimal.NewFromInt(10)))
	assert.Equal(t, map[string]int64{"SKU-C": 1}, result.CountBySku)
}
