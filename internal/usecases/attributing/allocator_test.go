package attributing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/memory"
	"github.com/vfg2006/profit-engine/internal/domain"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var day = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

func seedDay(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
		if err := store.CreateCell(ctx, tx, domain.TotalCellKey("store-1", day), "USD",
			domain.MetricValues{Orders: 4, Revenue: dec("400"), AdSpend: dec("200")}); err != nil {
			return err
		}
		if err := store.CreateCell(ctx, tx, domain.ChannelCellKey("store-1", domain.ChannelMetaAds, day), "USD",
			domain.MetricValues{AdSpend: dec("120")}); err != nil {
			return err
		}
		return store.CreateCell(ctx, tx, domain.ChannelCellKey("store-1", domain.ChannelGoogleAds, day), "USD",
			domain.MetricValues{AdSpend: dec("80")})
	})
	require.NoError(t, err)
}

func TestCompute(t *testing.T) {
	channels := []*domain.DailyMetric{
		{CellKey: domain.ChannelCellKey("store-1", domain.ChannelMetaAds, day), MetricValues: domain.MetricValues{AdSpend: dec("120")}},
		{CellKey: domain.ChannelCellKey("store-1", domain.ChannelGoogleAds, day), MetricValues: domain.MetricValues{AdSpend: dec("80")}},
		{CellKey: domain.ChannelCellKey("store-1", domain.ChannelOnlineStore, day), MetricValues: domain.MetricValues{Revenue: dec("400")}},
	}

	tests := []struct {
		name     string
		input    ComputeInput
		validate func(t *testing.T, rows []domain.OrderAttribution)
	}{
		{
			name: "Gasto 200 dividido 120/80 e pedido com 25% da receita",
			input: ComputeInput{
				OrderRevenue: dec("100"),
				TotalRevenue: dec("400"),
				TotalSpend:   dec("200"),
				Channels:     channels,
				Rules: []domain.AttributionRule{
					{Provider: "meta", Touches: []domain.AttributionTouch{{RuleType: RuleLastTouch, Weight: dec("1")}}},
				},
			},
			validate: func(t *testing.T, rows []domain.OrderAttribution) {
				require.Len(t, rows, 2)
				byProvider := map[string]decimal.Decimal{}
				for _, r := range rows {
					byProvider[r.Provider] = r.Amount
				}
				assert.True(t, byProvider["meta"].Equal(dec("30")))
				assert.True(t, byProvider["google"].Equal(dec("20")))
			},
		},
		{
			name: "Pesos são normalizados por provedor",
			input: ComputeInput{
				OrderRevenue: dec("100"),
				TotalRevenue: dec("400"),
				TotalSpend:   dec("200"),
				Channels:     channels[:1],
				Rules: []domain.AttributionRule{
					{Provider: "META", Touches: []domain.AttributionTouch{
						{RuleType: "FIRST_TOUCH", Weight: dec("1")},
						{RuleType: RuleLastTouch, Weight: dec("3")},
					}},
				},
			},
			validate: func(t *testing.T, rows []domain.OrderAttribution) {
				require.Len(t, rows, 2)
				assert.Equal(t, "FIRST_TOUCH", rows[0].RuleType)
				assert.True(t, rows[0].Amount.Equal(dec("7.5")))
				assert.True(t, rows[1].Amount.Equal(dec("22.5")))
			},
		},
		{
			name: "Sem gasto no dia não atribui",
			input: ComputeInput{
				OrderRevenue: dec("100"),
				TotalRevenue: dec("400"),
				TotalSpend:   decimal.Zero,
				Channels:     channels,
			},
			validate: func(t *testing.T, rows []domain.OrderAttribution) {
				assert.Empty(t, rows)
			},
		},
		{
			name: "Valores que arredondam para zero são descartados",
			input: ComputeInput{
				OrderRevenue: dec("0.01"),
				TotalRevenue: dec("100000"),
				TotalSpend:   dec("1"),
				Channels:     channels[:1],
			},
			validate: func(t *testing.T, rows []domain.OrderAttribution) {
				assert.Empty(t, rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Compute(tt.input))
		})
	}
}

func TestAllocator_AllocateOrder(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seedDay(t, mem)

	store := &domain.Store{ID: "store-1", MerchantID: "merchant-1", Currency: "USD"}
	allocator := NewAllocator(mem, mem, mem, mem)

	order := domain.Order{ID: "order-1", StoreID: "store-1", Revenue: dec("100"), LedgerDate: day}

	rows, err := allocator.AllocateOrder(ctx, store, order)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	stored, err := mem.ListByOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = allocator.AllocateOrder(ctx, store, order)
	require.NoError(t, err)
	stored, _ = mem.ListByOrder(ctx, "order-1")
	assert.Len(t, stored, 2, "reprocessar substitui as atribuições anteriores")
}

func TestAllocator_RecomputeForDate(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seedDay(t, mem)

	for _, externalID := range []string{"1", "2"} {
		_, err := mem.Save(ctx, nil, &domain.Order{
			StoreID:    "store-1",
			ExternalID: externalID,
			Revenue:    dec("200"),
			LedgerDate: day,
		})
		require.NoError(t, err)
	}

	store := &domain.Store{ID: "store-1", MerchantID: "merchant-1"}
	processed, err := NewAllocator(mem, mem, mem, mem).RecomputeForDate(ctx, store, day)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
}

func TestAllocator_AllocateOrder_PedidoEmOutraMoeda(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seedDay(t, mem)

	store := &domain.Store{ID: "store-1", MerchantID: "merchant-1", Currency: "USD"}
	allocator := NewAllocator(mem, mem, mem, mem)

	// 100 EUR convertidos para 200 USD: metade da receita do dia
	order := domain.Order{
		StoreID:        "store-1",
		ExternalID:     "eur-1",
		Currency:       "EUR",
		Revenue:        dec("100"),
		LedgerDate:     day,
		LedgerSnapshot: &domain.Snapshot{Currency: "USD", Revenue: dec("200")},
	}
	orderID, err := mem.Save(ctx, nil, &order)
	require.NoError(t, err)
	order.ID = orderID

	rows, err := allocator.AllocateOrder(ctx, store, order)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byProvider := map[string]decimal.Decimal{}
	for _, r := range rows {
		byProvider[r.Provider] = r.Amount
		assert.Equal(t, "USD", r.Currency)
	}
	assert.True(t, byProvider["meta"].Equal(dec("60")), "meta %s", byProvider["meta"])
	assert.True(t, byProvider["google"].Equal(dec("40")), "google %s", byProvider["google"])

	processed, err := allocator.RecomputeForDate(ctx, store, day)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	stored, err := mem.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, r := range stored {
		total = total.Add(r.Amount)
	}
	assert.True(t, total.Equal(dec("100")), "recálculo usa a receita convertida: %s", total)
}
