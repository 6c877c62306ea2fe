package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
)

const (
	skuCostsTable       = "sku_costs sc"
	costTemplatesTable  = "cost_templates ct"
	logisticsRulesTable = "logistics_rules lr"
)

//go:generate mockgen -source=cost_config.go -destination=mocks/cost_config.go -package=mocks

type CostConfigRepository interface {
	// ResolveActiveSkuCosts retorna o custo vigente de cada SKU no instante informado, com a moeda do cadastro
	ResolveActiveSkuCosts(ctx context.Context, storeID string, asOf time.Time) (map[string]domain.SkuCost, error)
	ListCostTemplates(ctx context.Context, storeID string) ([]domain.CostTemplate, error)
	ListLogisticsRules(ctx context.Context, storeID string, asOf time.Time) ([]domain.LogisticsRule, error)
}

type costConfigRepository struct {
	conn postgres.Executor
}

func NewCostConfigRepository(conn postgres.Executor) CostConfigRepository {
	return &costConfigRepository{
		conn: conn,
	}
}

func (r *costConfigRepository) ResolveActiveSkuCosts(ctx context.Context, storeID string, asOf time.Time) (map[string]domain.SkuCost, error) {
	query, args, err := squirrel.
		Select("DISTINCT ON (sc.sku) sc.sku, sc.unit_cost, sc.currency, sc.effective_from").
		From(skuCostsTable).
		Where(squirrel.Eq{"sc.store_id": storeID}).
		Where(squirrel.LtOrEq{"sc.effective_from": asOf}).
		Where(squirrel.Or{squirrel.Eq{"sc.effective_to": nil}, squirrel.Gt{"sc.effective_to": asOf}}).
		OrderBy("sc.sku ASC", "sc.effective_from DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar custos de SKU: %w", err)
	}
	defer rows.Close()

	costs := make(map[string]domain.SkuCost)
	for rows.Next() {
		cost := domain.SkuCost{StoreID: storeID}
		if err := rows.Scan(&cost.SKU, &cost.UnitCost, &cost.Currency, &cost.EffectiveFrom); err != nil {
			return nil, fmt.Errorf("erro ao escanear custo de SKU: %w", err)
		}
		costs[cost.SKU] = cost
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return costs, nil
}

func (r *costConfigRepository) ListCostTemplates(ctx context.Context, storeID string) ([]domain.CostTemplate, error) {
	query, args, err := squirrel.
		Select("ct.id, ct.store_id, ct.name, ct.cost_type, ct.gateway_filter, ct.channel_filter, ct.lines").
		From(costTemplatesTable).
		Where(squirrel.Eq{"ct.store_id": storeID, "ct.active": true}).
		OrderBy("ct.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar templates de custo: %w", err)
	}
	defer rows.Close()

	templates := make([]domain.CostTemplate, 0)
	for rows.Next() {
		var (
			template      domain.CostTemplate
			costType      string
			gatewayFilter pq.StringArray
			channelFilter pq.StringArray
			linesJSON     []byte
		)
		if err := rows.Scan(&template.ID, &template.StoreID, &template.Name, &costType, &gatewayFilter, &channelFilter, &linesJSON); err != nil {
			return nil, fmt.Errorf("erro ao escanear template de custo: %w", err)
		}

		template.Type = domain.CostType(costType)
		template.GatewayFilter = []string(gatewayFilter)
		for _, c := range channelFilter {
			template.ChannelFilter = append(template.ChannelFilter, domain.Channel(c))
		}
		if len(linesJSON) > 0 {
			if err := json.Unmarshal(linesJSON, &template.Lines); err != nil {
				return nil, fmt.Errorf("erro ao deserializar linhas do template %s: %w", template.ID, err)
			}
		}

		templates = append(templates, template)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return templates, nil
}

func (r *costConfigRepository) ListLogisticsRules(ctx context.Context, storeID string, asOf time.Time) ([]domain.LogisticsRule, error) {
	query, args, err := squirrel.
		Select(`lr.id, lr.store_id, COALESCE(lr.provider, ''), COALESCE(lr.country, ''), COALESCE(lr.region, ''),
			lr.min_weight_kg, lr.max_weight_kg, lr.flat_fee, lr.per_kg, lr.currency, lr.effective_from, lr.effective_to`).
		From(logisticsRulesTable).
		Where(squirrel.Eq{"lr.store_id": storeID}).
		Where(squirrel.LtOrEq{"lr.effective_from": asOf}).
		Where(squirrel.Or{squirrel.Eq{"lr.effective_to": nil}, squirrel.Gt{"lr.effective_to": asOf}}).
		OrderBy("lr.effective_from DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar regras logísticas: %w", err)
	}
	defer rows.Close()

	rules := make([]domain.LogisticsRule, 0)
	for rows.Next() {
		var (
			rule        domain.LogisticsRule
			maxWeight   decimal.NullDecimal
			effectiveTo sql.NullTime
		)
		if err := rows.Scan(
			&rule.ID, &rule.StoreID, &rule.Provider, &rule.Country, &rule.Region,
			&rule.MinWeightKg, &maxWeight, &rule.FlatFee, &rule.PerKg, &rule.Currency,
			&rule.EffectiveFrom, &effectiveTo,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear regra logística: %w", err)
		}
		if maxWeight.Valid {
			w := maxWeight.Decimal
			rule.MaxWeightKg = &w
		}
		if effectiveTo.Valid {
			t := effectiveTo.Time
			rule.EffectiveTo = &t
		}
		rules = append(rules, rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return rules, nil
}
