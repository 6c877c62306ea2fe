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

func TestOrderRepository_ReconcileRefunds(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)
	processedAt := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM refunds WHERE order_external_id = \$1 AND store_id = \$2 AND external_id NOT IN \(\$3\)`).
		WithArgs("1001", "store-1", "ref-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO refunds (.+) ON CONFLICT \(store_id, external_id\) DO UPDATE SET\s+order_external_id = EXCLUDED.order_external_id`).
		WithArgs("store-1", "1001", "ref-2", sqlmock.AnyArg(), "USD", "avaria", true, processedAt, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	deleted, err := repo.ReconcileRefunds(context.Background(), db, "store-1", "1001", []domain.RefundRecord{
		{
			ExternalID:  "ref-2",
			Amount:      decimal.NewFromInt(20),
			Currency:    "USD",
			Note:        "avaria",
			Restock:     true,
			ProcessedAt: processedAt,
			LineItems:   []domain.RefundLineItem{{SKU: "SKU-A", Quantity: 1, Amount: decimal.NewFromInt(20)}},
			RawPayload:  map[string]any{"id": "ref-2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "o reembolso que saiu do payload é removido")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ReconcileRefunds_SemReembolsos(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`DELETE FROM refunds WHERE order_external_id = \$1 AND store_id = \$2$`).
		WithArgs("1001", "store-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.ReconcileRefunds(context.Background(), db, "store-1", "1001", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`INSERT INTO orders \((.+)revenue,total,gross_profit,net_profit,total_weight_kg(.+)\) VALUES (.+) ON CONFLICT \(store_id, external_id\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("order-1"))

	id, err := repo.Save(context.Background(), db, &domain.Order{
		ID:          "order-1",
		StoreID:     "store-1",
		ExternalID:  "1001",
		Channel:     domain.ChannelOnlineStore,
		Currency:    "USD",
		Revenue:     decimal.RequireFromString("468.5"),
		Total:       decimal.RequireFromString("468.5"),
		GrossProfit: decimal.RequireFromString("318.5"),
		NetProfit:   decimal.RequireFromString("286.61"),
		ProcessedAt: ledgerDay,
		LedgerDate:  ledgerDay,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
