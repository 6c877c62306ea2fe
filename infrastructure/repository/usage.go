package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
)

const (
	monthlyOrderUsageTable = "monthly_order_usage mu"
)

//go:generate mockgen -source=usage.go -destination=mocks/usage.go -package=mocks

type UsageRepository interface {
	// LockMonthlyUsage garante a linha do mês e a trava até o fim da transação
	LockMonthlyUsage(ctx context.Context, q postgres.Executor, merchantID string, year, month int) (int64, error)
	GetMonthlyUsage(ctx context.Context, merchantID string, year, month int) (int64, error)
	IncrementMonthlyUsage(ctx context.Context, q postgres.Executor, merchantID string, year, month int, incoming int64) error
}

type usageRepository struct {
	conn postgres.Executor
}

func NewUsageRepository(conn postgres.Executor) UsageRepository {
	return &usageRepository{
		conn: conn,
	}
}

func (r *usageRepository) LockMonthlyUsage(ctx context.Context, q postgres.Executor, merchantID string, year, month int) (int64, error) {
	insert := squirrel.StatementBuilder.
		Insert("monthly_order_usage").
		Columns("merchant_id", "year", "month", "order_count").
		Values(merchantID, year, month, 0).
		Suffix("ON CONFLICT (merchant_id, year, month) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	if err := execBuilder(ctx, q, insert); err != nil {
		return 0, fmt.Errorf("erro ao garantir uso mensal: %w", err)
	}

	query, args, err := squirrel.
		Select("mu.order_count").
		From(monthlyOrderUsageTable).
		Where(squirrel.Eq{"mu.merchant_id": merchantID, "mu.year": year, "mu.month": month}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao travar uso mensal: %w", err)
	}

	return count, nil
}

func (r *usageRepository) GetMonthlyUsage(ctx context.Context, merchantID string, year, month int) (int64, error) {
	query, args, err := squirrel.
		Select("mu.order_count").
		From(monthlyOrderUsageTable).
		Where(squirrel.Eq{"mu.merchant_id": merchantID, "mu.year": year, "mu.month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("erro ao buscar uso mensal: %w", err)
	}

	return count, nil
}

func (r *usageRepository) IncrementMonthlyUsage(ctx context.Context, q postgres.Executor, merchantID string, year, month int, incoming int64) error {
	update := squirrel.
		Update("monthly_order_usage").
		Set("order_count", squirrel.Expr("order_count + ?", incoming)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"merchant_id": merchantID, "year": year, "month": month}).
		PlaceholderFormat(squirrel.Dollar)

	if err := execBuilder(ctx, q, update); err != nil {
		return fmt.Errorf("erro ao incrementar uso mensal: %w", err)
	}

	return nil
}
