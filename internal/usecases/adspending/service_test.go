package adspending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/infrastructure/memory"
	"github.com/vfg2006/profit-engine/internal/domain"
)

var day = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type brlConverter struct {
	err error
}

func (c brlConverter) Convert(_ context.Context, amount decimal.Decimal, from, to string, _ time.Time) (decimal.Decimal, error) {
	if c.err != nil {
		return decimal.Zero, c.err
	}
	if from == "BRL" && to == "USD" {
		return amount.Div(decimal.NewFromInt(5)), nil
	}
	return amount, nil
}

type recomputeSpy struct {
	calls []time.Time
	err   error
}

func (r *recomputeSpy) RecomputeForDate(_ context.Context, _ *domain.Store, date time.Time) (int, error) {
	r.calls = append(r.calls, date)
	return 2, r.err
}

func newFixture(converter CurrencyConverter) (*memory.Store, *recomputeSpy, *Service) {
	store := memory.NewStore()
	store.PutStore(domain.Store{ID: "store-1", MerchantID: "merchant-1", Currency: "USD", Timezone: "UTC"})
	spy := &recomputeSpy{}
	return store, spy, NewService(store, store, store, store, converter, spy)
}

func adSpendCells(t *testing.T, store *memory.Store) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	ctx := context.Background()

	total, err := store.GetCell(ctx, domain.TotalCellKey("store-1", day))
	require.NoError(t, err)
	channel, err := store.GetCell(ctx, domain.ChannelCellKey("store-1", domain.ChannelMetaAds, day))
	require.NoError(t, err)
	require.NotNil(t, total)
	require.NotNil(t, channel)

	return total.AdSpend, channel.AdSpend
}

func TestService_RecordAdSpend_AplicaSomenteADiferenca(t *testing.T) {
	store, spy, service := newFixture(brlConverter{})
	ctx := context.Background()

	first, err := service.RecordAdSpend(ctx, "store-1", AdSpendInput{
		Provider:   "Meta",
		CampaignID: "cmp-1",
		Date:       day.Add(15 * time.Hour),
		Spend:      dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, first.Delta.Equal(dec("30")))
	assert.Equal(t, 2, first.Reallocated)

	total, channel := adSpendCells(t, store)
	assert.True(t, total.Equal(dec("30")))
	assert.True(t, channel.Equal(dec("30")))

	second, err := service.RecordAdSpend(ctx, "store-1", AdSpendInput{
		Provider:   "meta",
		CampaignID: "cmp-1",
		Date:       day,
		Spend:      dec("45"),
	})
	require.NoError(t, err)
	assert.True(t, second.Delta.Equal(dec("15")))

	total, channel = adSpendCells(t, store)
	assert.True(t, total.Equal(dec("45")))
	assert.True(t, channel.Equal(dec("45")))

	// mesmo valor de novo: nada muda e a atribuição não é refeita
	third, err := service.RecordAdSpend(ctx, "store-1", AdSpendInput{
		Provider:   "meta",
		CampaignID: "cmp-1",
		Date:       day,
		Spend:      dec("45"),
	})
	require.NoError(t, err)
	assert.True(t, third.Delta.IsZero())
	assert.Len(t, spy.calls, 2)

	total, _ = adSpendCells(t, store)
	assert.True(t, total.Equal(dec("45")))

	totalCell, err := store.GetCell(ctx, domain.TotalCellKey("store-1", day))
	require.NoError(t, err)
	assert.True(t, totalCell.Revenue.IsZero(), "gasto de anúncio não altera outras métricas")
	assert.True(t, totalCell.NetProfit.IsZero())
}

func TestService_RecordAdSpend_CampanhasSomam(t *testing.T) {
	store, _, service := newFixture(brlConverter{})
	ctx := context.Background()

	for _, input := range []AdSpendInput{
		{Provider: "meta", CampaignID: "cmp-1", Date: day, Spend: dec("10")},
		{Provider: "meta", CampaignID: "cmp-2", Date: day, Spend: dec("20")},
	} {
		_, err := service.RecordAdSpend(ctx, "store-1", input)
		require.NoError(t, err)
	}

	total, channel := adSpendCells(t, store)
	assert.True(t, total.Equal(dec("30")))
	assert.True(t, channel.Equal(dec("30")))

	facts, err := store.ListByDate(ctx, "store-1", day)
	require.NoError(t, err)
	assert.Len(t, facts, 2)
}

func TestService_RecordAdSpend_ConverteParaMoedaDaLoja(t *testing.T) {
	store, _, service := newFixture(brlConverter{})

	result, err := service.RecordAdSpend(context.Background(), "store-1", AdSpendInput{
		Provider: "meta",
		Date:     day,
		Spend:    dec("100"),
		Currency: "brl",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, defaultCampaignID, result.CampaignID)
	assert.True(t, result.Spend.Equal(dec("20")))

	total, _ := adSpendCells(t, store)
	assert.True(t, total.Equal(dec("20")))
}

func TestService_RecordAdSpend_Erros(t *testing.T) {
	tests := []struct {
		name      string
		storeID   string
		input     AdSpendInput
		converter CurrencyConverter
		err       error
	}{
		{name: "Loja vazia", input: AdSpendInput{Provider: "meta", Date: day}, err: ErrStoreIDRequired},
		{name: "Provedor desconhecido", storeID: "store-1", input: AdSpendInput{Provider: "pinterest", Date: day}, err: ErrUnknownProvider},
		{name: "Data ausente", storeID: "store-1", input: AdSpendInput{Provider: "meta"}, err: ErrInvalidDate},
		{name: "Gasto negativo", storeID: "store-1", input: AdSpendInput{Provider: "meta", Date: day, Spend: dec("-1")}, err: ErrNegativeSpend},
		{name: "Gasto fora da faixa", storeID: "store-1", input: AdSpendInput{Provider: "meta", Date: day, Spend: dec("1e100000000")}, err: ErrSpendOutOfRange},
		{name: "Loja inexistente", storeID: "store-x", input: AdSpendInput{Provider: "meta", Date: day}, err: ErrStoreNotFound},
		{
			name:      "Falha na conversão",
			storeID:   "store-1",
			input:     AdSpendInput{Provider: "meta", Date: day, Spend: dec("10"), Currency: "BRL"},
			converter: brlConverter{err: errors.New("sem cotação")},
			err:       ErrCurrencyConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := tt.converter
			if converter == nil {
				converter = brlConverter{}
			}
			store, _, service := newFixture(converter)

			result, err := service.RecordAdSpend(context.Background(), tt.storeID, tt.input)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.err), "erro %v", err)
			assert.Empty(t, store.Cells())
		})
	}
}

func TestService_RecordAdSpend_FalhaNaAtribuicaoNaoDesfazGasto(t *testing.T) {
	store, spy, service := newFixture(brlConverter{})
	spy.err = errors.New("falha")

	result, err := service.RecordAdSpend(context.Background(), "store-1", AdSpendInput{Provider: "meta", Date: day, Spend: dec("12")})
	require.NoError(t, err)
	assert.True(t, result.Spend.Equal(dec("12")))

	total, _ := adSpendCells(t, store)
	assert.True(t, total.Equal(dec("12")))
}
