package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
)

const (
	attributionRulesTable  = "attribution_rules ar"
	orderAttributionsTable = "order_attributions oa"
)

//go:generate mockgen -source=attribution.go -destination=mocks/attribution.go -package=mocks

type AttributionRepository interface {
	ListAttributionRules(ctx context.Context, merchantID string) ([]domain.AttributionRule, error)
	// ReplaceOrderAttributions remove as atribuições do pedido e grava as novas
	ReplaceOrderAttributions(ctx context.Context, q postgres.Executor, orderID string, attributions []domain.OrderAttribution) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderAttribution, error)
}

type attributionRepository struct {
	conn postgres.Executor
}

func NewAttributionRepository(conn postgres.Executor) AttributionRepository {
	return &attributionRepository{
		conn: conn,
	}
}

func (r *attributionRepository) ListAttributionRules(ctx context.Context, merchantID string) ([]domain.AttributionRule, error) {
	query, args, err := squirrel.
		Select("ar.merchant_id, ar.provider, ar.touches").
		From(attributionRulesTable).
		Where(squirrel.Eq{"ar.merchant_id": merchantID}).
		OrderBy("ar.provider ASC").
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

	rules := make([]domain.AttributionRule, 0)
	for rows.Next() {
		var (
			rule        domain.AttributionRule
			touchesJSON []byte
		)
		if err := rows.Scan(&rule.MerchantID, &rule.Provider, &touchesJSON); err != nil {
			return nil, fmt.Errorf("erro ao escanear regra de atribuição: %w", err)
		}
		if len(touchesJSON) > 0 {
			if err := json.Unmarshal(touchesJSON, &rule.Touches); err != nil {
				return nil, fmt.Errorf("erro ao deserializar pontos de contato: %w", err)
			}
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return rules, nil
}

func (r *attributionRepository) ReplaceOrderAttributions(ctx context.Context, q postgres.Executor, orderID string, attributions []domain.OrderAttribution) error {
	if err := deleteWhere(ctx, q, "order_attributions", squirrel.Eq{"order_id": orderID}); err != nil {
		return err
	}
	if len(attributions) == 0 {
		return nil
	}

	insert := squirrel.StatementBuilder.
		Insert("order_attributions").
		Columns("id", "order_id", "store_id", "provider", "rule_type", "amount", "currency", "date").
		PlaceholderFormat(squirrel.Dollar)
	for _, a := range attributions {
		insert = insert.Values(a.ID, orderID, a.StoreID, a.Provider, a.RuleType, a.Amount, a.Currency, a.Date.Format("2006-01-02"))
	}

	return execBuilder(ctx, q, insert)
}

func (r *attributionRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderAttribution, error) {
	query, args, err := squirrel.
		Select("oa.id, oa.order_id, oa.store_id, oa.provider, oa.rule_type, oa.amount, oa.currency, oa.date, oa.created_at").
		From(orderAttributionsTable).
		Where(squirrel.Eq{"oa.order_id": orderID}).
		OrderBy("oa.provider ASC, oa.rule_type ASC").
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

	attributions := make([]domain.OrderAttribution, 0)
	for rows.Next() {
		var a domain.OrderAttribution
		if err := rows.Scan(&a.ID, &a.OrderID, &a.StoreID, &a.Provider, &a.RuleType, &a.Amount, &a.Currency, &a.Date, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear atribuição: %w", err)
		}
		attributions = append(attributions, a)
	}

	return attributions, rows.Err()
}
