package insighting

import (
	"context"
	"errors"
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

func date(day int) time.Time {
	return time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC)
}

type fixedRateConverter struct {
	rate decimal.Decimal
	err  error
}

func (c fixedRateConverter) Convert(_ context.Context, amount decimal.Decimal, _, _ string, _ time.Time) (decimal.Decimal, error) {
	if c.err != nil {
		return decimal.Zero, c.err
	}
	return amount.Mul(c.rate), nil
}

func seedLedger(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	store.PutStore(domain.Store{ID: "store-1", MerchantID: "merchant-1", Currency: "USD", Timezone: "UTC"})

	cells := []struct {
		key    domain.CellKey
		values domain.MetricValues
	}{
		{
			key: domain.TotalCellKey("store-1", date(2)),
			values: domain.MetricValues{
				Orders: 1, Units: 3, Revenue: dec("468.5"), Cogs: dec("150"), AdSpend: dec("50"),
				GrossProfit: dec("318.5"), NetProfit: dec("286.61"),
			},
		},
		{
			key: domain.TotalCellKey("store-1", date(4)),
			values: domain.MetricValues{
				Orders: 1, Units: 1, Revenue: dec("100"), Cogs: dec("40"),
				GrossProfit: dec("60"), NetProfit: dec("55"),
			},
		},
		{
			key:    domain.ChannelCellKey("store-1", domain.ChannelMetaAds, date(2)),
			values: domain.MetricValues{AdSpend: dec("50")},
		},
		{
			key:    domain.ProductCellKey("store-1", "SKU-A", date(2)),
			values: domain.MetricValues{Units: 2, Revenue: dec("240"), Cogs: dec("80")},
		},
	}

	err := store.RunInTransaction(context.Background(), func(tx postgres.Executor) error {
		for _, c := range cells {
			if err := store.CreateCell(context.Background(), tx, c.key, "USD", c.values); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	return store
}

func TestService_GetMetricsReport_Total(t *testing.T) {
	store := seedLedger(t)
	service := NewService(store, store, fixedRateConverter{rate: decimal.NewFromInt(1)})

	report, err := service.GetMetricsReport(context.Background(), "store-1", domain.MetricsFilters{
		StartDate: date(1),
		EndDate:   date(5),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ChannelTotal, report.Channel)
	assert.Equal(t, "USD", report.Currency)
	require.Len(t, report.Days, 5, "dias sem movimento também aparecem")
	assert.True(t, report.Days[0].Revenue.IsZero())
	assert.True(t, report.Days[1].Revenue.Equal(dec("468.5")))
	assert.True(t, report.Days[1].ProfitAfterAdSpend.Equal(dec("236.61")))
	assert.True(t, report.Days[1].Roas.Equal(dec("9.37")))

	assert.Equal(t, int64(2), report.Totals.Orders)
	assert.True(t, report.Totals.Revenue.Equal(dec("568.5")))
	assert.True(t, report.Totals.NetProfit.Equal(dec("341.61")))
	assert.True(t, report.ProfitAfterAdSpend.Equal(dec("291.61")))
	assert.True(t, report.Roas.Equal(dec("11.37")))
}

func TestService_GetMetricsReport_Escopos(t *testing.T) {
	store := seedLedger(t)
	service := NewService(store, store, nil)
	ctx := context.Background()

	product, err := service.GetMetricsReport(ctx, "store-1", domain.MetricsFilters{StartDate: date(2), EndDate: date(2), SKU: "SKU-A"})
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelProduct, product.Channel)
	assert.True(t, product.Totals.Cogs.Equal(dec("80")))

	meta, err := service.GetMetricsReport(ctx, "store-1", domain.MetricsFilters{StartDate: date(2), EndDate: date(3), Channel: "meta_ads"})
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelMetaAds, meta.Channel)
	assert.True(t, meta.Totals.AdSpend.Equal(dec("50")))
	assert.True(t, meta.Roas.IsZero())
}

func TestService_GetMetricsReport_ConversaoNaLeitura(t *testing.T) {
	store := seedLedger(t)
	service := NewService(store, store, fixedRateConverter{rate: dec("5")})

	report, err := service.GetMetricsReport(context.Background(), "store-1", domain.MetricsFilters{
		StartDate: date(2),
		EndDate:   date(2),
		Currency:  "brl",
	})
	require.NoError(t, err)
	assert.Equal(t, "BRL", report.Currency)
	assert.True(t, report.Totals.Revenue.Equal(dec("2342.5")))
	assert.Equal(t, int64(3), report.Totals.Units)
	assert.True(t, report.Roas.Equal(dec("9.37")), "ROAS não depende da moeda")

	cell, err := store.GetCell(context.Background(), domain.TotalCellKey("store-1", date(2)))
	require.NoError(t, err)
	assert.True(t, cell.Revenue.Equal(dec("468.5")), "o ledger não é alterado pela leitura")
}

func TestService_GetMetricsReport_IntervaloPadrao(t *testing.T) {
	store := seedLedger(t)
	service := NewService(store, store, nil)
	service.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }

	report, err := service.GetMetricsReport(context.Background(), "store-1", domain.MetricsFilters{})
	require.NoError(t, err)
	require.Len(t, report.Days, defaultRangeDays)
	assert.Equal(t, date(10), report.Days[len(report.Days)-1].Date)
	assert.True(t, report.Totals.Revenue.Equal(dec("568.5")))
}

func TestService_GetMetricsReport_Erros(t *testing.T) {
	store := seedLedger(t)

	tests := []struct {
		name      string
		storeID   string
		filters   domain.MetricsFilters
		converter CurrencyConverter
		err       error
	}{
		{name: "Loja vazia", err: ErrStoreIDRequired},
		{name: "Loja inexistente", storeID: "store-x", err: ErrStoreNotFound},
		{name: "Intervalo invertido", storeID: "store-1", filters: domain.MetricsFilters{StartDate: date(5), EndDate: date(1)}, err: ErrInvalidDateRange},
		{
			name:    "Intervalo longo demais",
			storeID: "store-1",
			filters: domain.MetricsFilters{StartDate: date(1).AddDate(-2, 0, 0), EndDate: date(1)},
			err:     ErrDateRangeTooLarge,
		},
		{name: "Canal inválido", storeID: "store-1", filters: domain.MetricsFilters{Channel: "FAX"}, err: ErrInvalidChannel},
		{name: "PRODUCT sem SKU", storeID: "store-1", filters: domain.MetricsFilters{Channel: domain.ChannelProduct}, err: ErrSKURequired},
		{name: "SKU com canal de venda", storeID: "store-1", filters: domain.MetricsFilters{Channel: domain.ChannelPOS, SKU: "SKU-A"}, err: ErrInvalidChannel},
		{
			name:      "Conversão indisponível",
			storeID:   "store-1",
			filters:   domain.MetricsFilters{StartDate: date(2), EndDate: date(2), Currency: "EUR"},
			converter: fixedRateConverter{err: errors.New("sem cotação")},
			err:       ErrCurrencyConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(store, store, tt.converter)
			report, err := service.GetMetricsReport(context.Background(), tt.storeID, tt.filters)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, tt.err), "erro %v", err)
		})
	}
}
