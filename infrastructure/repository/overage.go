package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
)

const (
	overageRecordsTable = "overage_records ov"
)

//go:generate mockgen -source=overage.go -destination=mocks/overage.go -package=mocks

type OverageRepository interface {
	// Schedule cria ou atualiza o registro do mês; units_required nunca diminui
	Schedule(ctx context.Context, q postgres.Executor, record *domain.OverageRecord) (*domain.OverageRecord, error)
	GetByID(ctx context.Context, id string) (*domain.OverageRecord, error)
	ListPending(ctx context.Context) ([]*domain.OverageRecord, error)
	MarkBilled(ctx context.Context, id string, unitsBilled int64, billedAt time.Time) error
}

type overageRepository struct {
	conn postgres.Executor
}

func NewOverageRepository(conn postgres.Executor) OverageRepository {
	return &overageRepository{
		conn: conn,
	}
}

var overageColumns = `ov.id, ov.merchant_id, ov.year, ov.month, ov.units_required, ov.units_billed,
	ov.block_size, ov.block_price, ov.currency, ov.status, ov.created_at, ov.updated_at, ov.billed_at`

func (r *overageRepository) Schedule(ctx context.Context, q postgres.Executor, record *domain.OverageRecord) (*domain.OverageRecord, error) {
	if q == nil {
		q = r.conn
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("overage_records").
		Columns("id", "merchant_id", "year", "month", "units_required", "units_billed", "block_size", "block_price", "currency", "status").
		Values(
			record.ID, record.MerchantID, record.Year, record.Month, record.UnitsRequired, 0,
			record.BlockSize, record.BlockPrice, record.Currency, string(domain.OverageStatusPending),
		).
		Suffix(`
			ON CONFLICT (merchant_id, year, month) DO UPDATE SET
				units_required = GREATEST(overage_records.units_required, EXCLUDED.units_required),
				status = CASE
					WHEN GREATEST(overage_records.units_required, EXCLUDED.units_required) > overage_records.units_billed
					THEN 'PENDING' ELSE overage_records.status END,
				updated_at = NOW()
			RETURNING id, merchant_id, year, month, units_required, units_billed,
				block_size, block_price, currency, status, created_at, updated_at, billed_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	scheduled, err := scanOverage(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("erro ao agendar excedente: %w", err)
	}

	return scheduled, nil
}

func (r *overageRepository) GetByID(ctx context.Context, id string) (*domain.OverageRecord, error) {
	query, args, err := squirrel.
		Select(overageColumns).
		From(overageRecordsTable).
		Where(squirrel.Eq{"ov.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record, err := scanOverage(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear excedente: %w", err)
	}

	return record, nil
}

func (r *overageRepository) ListPending(ctx context.Context) ([]*domain.OverageRecord, error) {
	query, args, err := squirrel.
		Select(overageColumns).
		From(overageRecordsTable).
		Where(squirrel.Eq{"ov.status": string(domain.OverageStatusPending)}).
		OrderBy("ov.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.OverageRecord, 0)
	for rows.Next() {
		record, err := scanOverage(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear excedente: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *overageRepository) MarkBilled(ctx context.Context, id string, unitsBilled int64, billedAt time.Time) error {
	update := squirrel.
		Update("overage_records").
		Set("units_billed", squirrel.Expr("GREATEST(units_billed, ?)", unitsBilled)).
		Set("status", squirrel.Expr("CASE WHEN units_required <= GREATEST(units_billed, ?) THEN ? ELSE status END",
			unitsBilled, string(domain.OverageStatusBilled))).
		Set("billed_at", billedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	return execBuilder(ctx, r.conn, update)
}

func scanOverage(row rowScanner) (*domain.OverageRecord, error) {
	var (
		record   domain.OverageRecord
		status   string
		billedAt sql.NullTime
	)

	err := row.Scan(
		&record.ID, &record.MerchantID, &record.Year, &record.Month, &record.UnitsRequired, &record.UnitsBilled,
		&record.BlockSize, &record.BlockPrice, &record.Currency, &status, &record.CreatedAt, &record.UpdatedAt, &billedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = domain.OverageStatus(status)
	if billedAt.Valid {
		t := billedAt.Time
		record.BilledAt = &t
	}

	return &record, nil
}
