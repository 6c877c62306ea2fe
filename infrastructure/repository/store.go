package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
)

const (
	storesTable        = "stores s"
	merchantPlansTable = "merchant_plans mp"
)

//go:generate mockgen -source=store.go -destination=mocks/store.go -package=mocks

type StoreRepository interface {
	GetStore(ctx context.Context, storeID string) (*domain.Store, error)
	ListStoresWithAdAccount(ctx context.Context) ([]*domain.Store, error)
	GetMerchantPlan(ctx context.Context, merchantID string) (*domain.Plan, error)
}

type storeRepository struct {
	conn postgres.Executor
}

func NewStoreRepository(conn postgres.Executor) StoreRepository {
	return &storeRepository{
		conn: conn,
	}
}

var storeColumns = "s.id, s.merchant_id, s.name, s.currency, s.timezone, COALESCE(s.meta_ad_account_id, ''), s.created_at"

func (r *storeRepository) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	query, args, err := squirrel.
		Select(storeColumns).
		From(storesTable).
		Where(squirrel.Eq{"s.id": storeID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	store := &domain.Store{}
	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&store.ID,
		&store.MerchantID,
		&store.Name,
		&store.Currency,
		&store.Timezone,
		&store.MetaAdAccountID,
		&store.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear loja: %w", err)
	}

	return store, nil
}

func (r *storeRepository) ListStoresWithAdAccount(ctx context.Context) ([]*domain.Store, error) {
	query, args, err := squirrel.
		Select(storeColumns).
		From(storesTable).
		Where(squirrel.NotEq{"s.meta_ad_account_id": nil}).
		Where(squirrel.NotEq{"s.meta_ad_account_id": ""}).
		OrderBy("s.id ASC").
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

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store := &domain.Store{}
		if err := rows.Scan(
			&store.ID,
			&store.MerchantID,
			&store.Name,
			&store.Currency,
			&store.Timezone,
			&store.MetaAdAccountID,
			&store.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear loja: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stores, nil
}

func (r *storeRepository) GetMerchantPlan(ctx context.Context, merchantID string) (*domain.Plan, error) {
	query, args, err := squirrel.
		Select("mp.name, mp.monthly_order_limit, mp.overage_block_size, mp.overage_block_price, mp.overage_currency").
		From(merchantPlansTable).
		Where(squirrel.Eq{"mp.merchant_id": merchantID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var (
		plan       domain.Plan
		blockSize  sql.NullInt64
		blockPrice decimal.NullDecimal
		currency   sql.NullString
	)

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&plan.Name,
		&plan.MonthlyOrderLimit,
		&blockSize,
		&blockPrice,
		&currency,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear plano: %w", err)
	}

	if blockSize.Valid && blockSize.Int64 > 0 {
		plan.Overage = &domain.OverageTier{
			BlockSize:  blockSize.Int64,
			BlockPrice: blockPrice.Decimal,
			Currency:   currency.String,
		}
	}

	return &plan, nil
}
