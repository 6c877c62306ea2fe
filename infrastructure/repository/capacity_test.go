package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/domain"
)

func TestUsageRepository_LockMonthlyUsage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsageRepository(db)

	mock.ExpectExec(`INSERT INTO monthly_order_usage (.+) ON CONFLICT \(merchant_id, year, month\) DO NOTHING`).
		WithArgs("merchant-1", 2024, 5, 0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT mu.order_count FROM monthly_order_usage mu WHERE (.+) FOR UPDATE`).
		WithArgs("merchant-1", 5, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"order_count"}).AddRow(int64(42)))

	count, err := repo.LockMonthlyUsage(context.Background(), db, "merchant-1", 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageRepository_GetMonthlyUsage_SemRegistro(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsageRepository(db)

	mock.ExpectQuery(`SELECT mu.order_count FROM monthly_order_usage mu`).
		WillReturnRows(sqlmock.NewRows([]string{"order_count"}))

	count, err := repo.GetMonthlyUsage(context.Background(), "merchant-1", 2024, 5)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageRepository_IncrementMonthlyUsage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsageRepository(db)

	mock.ExpectExec(`UPDATE monthly_order_usage SET order_count = order_count \+ \$1, updated_at = NOW\(\) WHERE (.+)`).
		WithArgs(int64(1), "merchant-1", 5, 2024).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementMonthlyUsage(context.Background(), db, "merchant-1", 2024, 5, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverageRepository_Schedule(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOverageRepository(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO overage_records (.+) ON CONFLICT \(merchant_id, year, month\) DO UPDATE SET (.+) RETURNING`).
		WithArgs("ov-1", "merchant-1", 2024, 5, int64(100), 0, int64(100), sqlmock.AnyArg(), "USD", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "merchant_id", "year", "month", "units_required", "units_billed",
			"block_size", "block_price", "currency", "status", "created_at", "updated_at", "billed_at",
		}).AddRow("ov-1", "merchant-1", 2024, 5, int64(100), int64(0), int64(100), "19.90", "USD", "PENDING", now, now, nil))

	record, err := repo.Schedule(context.Background(), nil, &domain.OverageRecord{
		ID:            "ov-1",
		MerchantID:    "merchant-1",
		Year:          2024,
		Month:         5,
		UnitsRequired: 100,
		BlockSize:     100,
		BlockPrice:    decimal.RequireFromString("19.90"),
		Currency:      "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OverageStatusPending, record.Status)
	assert.Nil(t, record.BilledAt)
	assert.True(t, record.BlockPrice.Equal(decimal.RequireFromString("19.9")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
