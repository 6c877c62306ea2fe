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
	adSpendFactsTable = "ad_spend_facts af"
)

//go:generate mockgen -source=ad_spend.go -destination=mocks/ad_spend.go -package=mocks

type AdSpendRepository interface {
	LockFact(ctx context.Context, q postgres.Executor, storeID, provider, campaignID string, date time.Time) (*domain.AdSpendFact, error)
	UpsertFact(ctx context.Context, q postgres.Executor, fact *domain.AdSpendFact) error
	ListByDate(ctx context.Context, storeID string, date time.Time) ([]*domain.AdSpendFact, error)
}

type adSpendRepository struct {
	conn postgres.Executor
}

func NewAdSpendRepository(conn postgres.Executor) AdSpendRepository {
	return &adSpendRepository{
		conn: conn,
	}
}

var adSpendColumns = "af.store_id, af.provider, af.campaign_id, af.campaign_name, af.date, af.spend, af.currency, af.updated_at"

func (r *adSpendRepository) LockFact(ctx context.Context, q postgres.Executor, storeID, provider, campaignID string, date time.Time) (*domain.AdSpendFact, error) {
	query, args, err := squirrel.
		Select(adSpendColumns).
		From(adSpendFactsTable).
		Where(squirrel.Eq{
			"af.store_id":    storeID,
			"af.provider":    provider,
			"af.campaign_id": campaignID,
			"af.date":        date.Format("2006-01-02"),
		}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	fact, err := scanAdSpendFact(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao travar gasto de anúncio: %w", err)
	}

	return fact, nil
}

func (r *adSpendRepository) UpsertFact(ctx context.Context, q postgres.Executor, fact *domain.AdSpendFact) error {
	insert := squirrel.StatementBuilder.
		Insert("ad_spend_facts").
		Columns("store_id", "provider", "campaign_id", "campaign_name", "date", "spend", "currency").
		Values(fact.StoreID, fact.Provider, fact.CampaignID, fact.CampaignName, fact.Date.Format("2006-01-02"), fact.Spend, fact.Currency).
		Suffix(`
			ON CONFLICT (store_id, provider, campaign_id, date) DO UPDATE SET
				campaign_name = EXCLUDED.campaign_name,
				spend = EXCLUDED.spend,
				currency = EXCLUDED.currency,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	return execBuilder(ctx, q, insert)
}

func (r *adSpendRepository) ListByDate(ctx context.Context, storeID string, date time.Time) ([]*domain.AdSpendFact, error) {
	query, args, err := squirrel.
		Select(adSpendColumns).
		From(adSpendFactsTable).
		Where(squirrel.Eq{"af.store_id": storeID, "af.date": date.Format("2006-01-02")}).
		OrderBy("af.provider ASC", "af.campaign_id ASC").
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

	facts := make([]*domain.AdSpendFact, 0)
	for rows.Next() {
		fact, err := scanAdSpendFact(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear gasto de anúncio: %w", err)
		}
		facts = append(facts, fact)
	}

	return facts, rows.Err()
}

func scanAdSpendFact(row rowScanner) (*domain.AdSpendFact, error) {
	var fact domain.AdSpendFact
	err := row.Scan(
		&fact.StoreID, &fact.Provider, &fact.CampaignID, &fact.CampaignName,
		&fact.Date, &fact.Spend, &fact.Currency, &fact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	fact.Date = fact.Date.UTC()
	return &fact, nil
}
