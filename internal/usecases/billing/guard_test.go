package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/memory"
	"github.com/vfg2006/profit-engine/internal/config"
	"github.com/vfg2006/profit-engine/internal/domain"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newGuard(store *memory.Store, plan domain.Plan) *Guard {
	guard := NewGuard(store, store, store, plan)
	guard.now = func() time.Time { return fixedNow }
	return guard
}

func overagePlan(limit, block int64) domain.Plan {
	return domain.Plan{
		Name:              "pro",
		MonthlyOrderLimit: limit,
		Overage: &domain.OverageTier{
			BlockSize:  block,
			BlockPrice: decimal.NewFromInt(10),
			Currency:   "USD",
		},
	}
}

func TestUnitsRequired(t *testing.T) {
	tests := []struct {
		name      string
		projected int64
		limit     int64
		block     int64
		expected  int64
	}{
		{name: "Dentro do limite", projected: 100, limit: 100, block: 50, expected: 0},
		{name: "Um pedido acima abre um bloco", projected: 101, limit: 100, block: 50, expected: 1},
		{name: "Bloco cheio", projected: 150, limit: 100, block: 50, expected: 1},
		{name: "Um acima do bloco abre o segundo", projected: 151, limit: 100, block: 50, expected: 2},
		{name: "Bloco inválido", projected: 151, limit: 100, block: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnitsRequired(tt.projected, tt.limit, tt.block))
		})
	}
}

func TestGuard_ReserveInTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Dentro do limite incrementa o contador", func(t *testing.T) {
		store := memory.NewStore()
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: 10})

		var reservation *Reservation
		err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
			var err error
			reservation, err = guard.ReserveOrderCapacity(ctx, "merchant-1", 1, tx)
			return err
		})
		require.NoError(t, err)
		assert.False(t, reservation.OverageScheduled)

		usage, _ := store.GetMonthlyUsage(ctx, "merchant-1", 2024, 6)
		assert.Equal(t, int64(1), usage)
	})

	t.Run("Sem excedente configurado retorna PlanLimitError e desfaz a transação", func(t *testing.T) {
		store := memory.NewStore()
		store.SetMonthlyUsage("merchant-1", 2024, 6, 10)
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: 10})

		err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
			_, err := guard.ReserveOrderCapacity(ctx, "merchant-1", 1, tx)
			return err
		})

		var limitErr *PlanLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.True(t, errors.Is(err, ErrCapacityExceeded))
		assert.Equal(t, int64(10), limitErr.Limit)
		assert.Equal(t, int64(10), limitErr.Usage)
		assert.Equal(t, "capacity", limitErr.Kind)

		usage, _ := store.GetMonthlyUsage(ctx, "merchant-1", 2024, 6)
		assert.Equal(t, int64(10), usage)
	})

	t.Run("Plano ilimitado nunca agenda excedente", func(t *testing.T) {
		store := memory.NewStore()
		store.SetMonthlyUsage("merchant-1", 2024, 6, 1_000_000)
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: -1})

		err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
			reservation, err := guard.ReserveOrderCapacity(ctx, "merchant-1", 1, tx)
			if err == nil {
				assert.False(t, reservation.OverageScheduled)
			}
			return err
		})
		require.NoError(t, err)
	})

	t.Run("Plano do merchant tem precedência sobre o padrão", func(t *testing.T) {
		store := memory.NewStore()
		store.PutPlan("merchant-1", overagePlan(1, 5))
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: 100})

		var reservation *Reservation
		err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
			var err error
			reservation, err = guard.ReserveOrderCapacity(ctx, "merchant-1", 2, tx)
			return err
		})
		require.NoError(t, err)
		assert.True(t, reservation.OverageScheduled)
		assert.Equal(t, int64(1), reservation.UnitsRequired)

		record, err := store.GetByID(ctx, reservation.OverageRecordID)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.OverageStatusPending, record.Status)
	})
}

func TestGuard_ConcurrentReservationsAtTheLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetMonthlyUsage("merchant-1", 2024, 6, 9)
	guard := newGuard(store, overagePlan(10, 100))

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		reservations []*Reservation
	)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.RunInTransaction(ctx, func(tx postgres.Executor) error {
				reservation, err := guard.ReserveOrderCapacity(ctx, "merchant-1", 1, tx)
				if err != nil {
					return err
				}
				mu.Lock()
				reservations = append(reservations, reservation)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, reservations, 2)
	scheduled := 0
	for _, r := range reservations {
		if r.OverageScheduled {
			scheduled++
		}
	}
	assert.Equal(t, 1, scheduled)

	usage, _ := store.GetMonthlyUsage(ctx, "merchant-1", 2024, 6)
	assert.Equal(t, int64(11), usage)
}

func TestGuard_ReserveAdvisory(t *testing.T) {
	ctx := context.Background()

	t.Run("Não incrementa o contador", func(t *testing.T) {
		store := memory.NewStore()
		store.SetMonthlyUsage("merchant-1", 2024, 6, 3)
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: 10})

		reservation, err := guard.ReserveOrderCapacity(ctx, "merchant-1", 1, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4), reservation.Projected)

		usage, _ := store.GetMonthlyUsage(ctx, "merchant-1", 2024, 6)
		assert.Equal(t, int64(3), usage)
	})

	t.Run("Excedido sem excedente falha antes de qualquer escrita", func(t *testing.T) {
		store := memory.NewStore()
		store.SetMonthlyUsage("merchant-1", 2024, 6, 10)
		guard := newGuard(store, domain.Plan{MonthlyOrderLimit: 10})

		_, err := guard.ReserveAdvisory(ctx, "merchant-1", 1)
		assert.True(t, errors.Is(err, ErrCapacityExceeded))

		pending, _ := store.ListPending(ctx)
		assert.Empty(t, pending)
	})

	t.Run("Agendamento de excedente é idempotente por mês", func(t *testing.T) {
		store := memory.NewStore()
		store.SetMonthlyUsage("merchant-1", 2024, 6, 20)
		guard := newGuard(store, overagePlan(10, 5))

		first, err := guard.ReserveAdvisory(ctx, "merchant-1", 1)
		require.NoError(t, err)
		second, err := guard.ReserveAdvisory(ctx, "merchant-1", 1)
		require.NoError(t, err)

		assert.Equal(t, first.OverageRecordID, second.OverageRecordID)
		pending, _ := store.ListPending(ctx)
		require.Len(t, pending, 1)
		assert.Equal(t, int64(3), pending[0].UnitsRequired)
	})

	t.Run("Merchant obrigatório", func(t *testing.T) {
		guard := newGuard(memory.NewStore(), domain.Plan{MonthlyOrderLimit: 10})
		_, err := guard.ReserveAdvisory(ctx, "", 1)
		assert.ErrorIs(t, err, ErrMerchantIDRequired)
	})
}

func TestDefaultPlanFromConfig(t *testing.T) {
	plan := DefaultPlanFromConfig(config.Capacity{
		DefaultMonthlyOrderLimit: 500,
		DefaultOverageBlockSize:  100,
		DefaultOverageBlockPrice: 19.9,
		DefaultOverageCurrency:   "USD",
	})

	assert.Equal(t, int64(500), plan.MonthlyOrderLimit)
	require.True(t, plan.HasOverage())
	assert.True(t, plan.Overage.BlockPrice.Equal(decimal.RequireFromString("19.9")))

	noOverage := DefaultPlanFromConfig(config.Capacity{DefaultMonthlyOrderLimit: 500})
	assert.False(t, noOverage.HasOverage())
}
