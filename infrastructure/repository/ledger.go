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
	dailyMetricsTable = "daily_metrics dm"
)

//go:generate mockgen -source=ledger.go -destination=mocks/ledger.go -package=mocks

type LedgerRepository interface {
	// LockCell trava a célula com SELECT ... FOR UPDATE; retorna nil quando não existe
	LockCell(ctx context.Context, q postgres.Executor, key domain.CellKey) (*domain.DailyMetric, error)
	IncrementCell(ctx context.Context, q postgres.Executor, key domain.CellKey, delta domain.MetricValues) error
	// CreateCell insere a célula ou incrementa caso outra transação a tenha criado
	CreateCell(ctx context.Context, q postgres.Executor, key domain.CellKey, currency string, values domain.MetricValues) error
	GetCell(ctx context.Context, key domain.CellKey) (*domain.DailyMetric, error)
	ListChannelCells(ctx context.Context, storeID string, date time.Time) ([]*domain.DailyMetric, error)
	ListRange(ctx context.Context, storeID string, channel domain.Channel, sku string, startDate, endDate time.Time) ([]*domain.DailyMetric, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type ledgerRepository struct {
	conn postgres.Executor
}

func NewLedgerRepository(conn postgres.Executor) LedgerRepository {
	return &ledgerRepository{
		conn: conn,
	}
}

var dailyMetricColumns = `dm.id, dm.store_id, dm.channel, dm.product_sku, dm.date, dm.currency,
	dm.orders, dm.units, dm.revenue, dm.ad_spend, dm.cogs, dm.shipping_cost, dm.payment_fees,
	dm.other_costs, dm.refund_amount, dm.refund_count, dm.gross_profit, dm.net_profit, dm.created_at, dm.updated_at`

func cellPredicate(prefix string, key domain.CellKey) squirrel.Eq {
	return squirrel.Eq{
		prefix + "store_id": key.StoreID,
		prefix + "channel":  string(key.Channel),
		prefix + "sku_key":  key.SKU(),
		prefix + "date":     key.Date.Format("2006-01-02"),
	}
}

func (r *ledgerRepository) LockCell(ctx context.Context, q postgres.Executor, key domain.CellKey) (*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From(dailyMetricsTable).
		Where(cellPredicate("dm.", key)).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	metric, err := scanDailyMetric(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao travar célula %s: %w", key, err)
	}

	return metric, nil
}

func (r *ledgerRepository) IncrementCell(ctx context.Context, q postgres.Executor, key domain.CellKey, delta domain.MetricValues) error {
	update := squirrel.
		Update("daily_metrics").
		Set("orders", squirrel.Expr("orders + ?", delta.Orders)).
		Set("units", squirrel.Expr("units + ?", delta.Units)).
		Set("revenue", squirrel.Expr("revenue + ?", delta.Revenue)).
		Set("ad_spend", squirrel.Expr("ad_spend + ?", delta.AdSpend)).
		Set("cogs", squirrel.Expr("cogs + ?", delta.Cogs)).
		Set("shipping_cost", squirrel.Expr("shipping_cost + ?", delta.ShippingCost)).
		Set("payment_fees", squirrel.Expr("payment_fees + ?", delta.PaymentFees)).
		Set("other_costs", squirrel.Expr("other_costs + ?", delta.OtherCosts)).
		Set("refund_amount", squirrel.Expr("refund_amount + ?", delta.RefundAmount)).
		Set("refund_count", squirrel.Expr("refund_count + ?", delta.RefundCount)).
		Set("gross_profit", squirrel.Expr("gross_profit + ?", delta.GrossProfit)).
		Set("net_profit", squirrel.Expr("net_profit + ?", delta.NetProfit)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(cellPredicate("", key)).
		PlaceholderFormat(squirrel.Dollar)

	if err := execBuilder(ctx, q, update); err != nil {
		return fmt.Errorf("erro ao incrementar célula %s: %w", key, err)
	}

	return nil
}

func (r *ledgerRepository) CreateCell(ctx context.Context, q postgres.Executor, key domain.CellKey, currency string, values domain.MetricValues) error {
	var productSKU sql.NullString
	if key.ProductSKU != nil {
		productSKU = sql.NullString{String: *key.ProductSKU, Valid: true}
	}

	insert := squirrel.StatementBuilder.
		Insert("daily_metrics").
		Columns(
			"store_id", "channel", "product_sku", "sku_key", "date", "currency",
			"orders", "units", "revenue", "ad_spend", "cogs", "shipping_cost", "payment_fees", "other_costs",
			"refund_amount", "refund_count", "gross_profit", "net_profit",
		).
		Values(
			key.StoreID, string(key.Channel), productSKU, key.SKU(), key.Date.Format("2006-01-02"), currency,
			values.Orders, values.Units, values.Revenue, values.AdSpend, values.Cogs, values.ShippingCost, values.PaymentFees, values.OtherCosts,
			values.RefundAmount, values.RefundCount, values.GrossProfit, values.NetProfit,
		).
		Suffix(`
			ON CONFLICT (store_id, channel, sku_key, date) DO UPDATE SET
				orders = daily_metrics.orders + EXCLUDED.orders,
				units = daily_metrics.units + EXCLUDED.units,
				revenue = daily_metrics.revenue + EXCLUDED.revenue,
				ad_spend = daily_metrics.ad_spend + EXCLUDED.ad_spend,
				cogs = daily_metrics.cogs + EXCLUDED.cogs,
				shipping_cost = daily_metrics.shipping_cost + EXCLUDED.shipping_cost,
				payment_fees = daily_metrics.payment_fees + EXCLUDED.payment_fees,
				other_costs = daily_metrics.other_costs + EXCLUDED.other_costs,
				refund_amount = daily_metrics.refund_amount + EXCLUDED.refund_amount,
				refund_count = daily_metrics.refund_count + EXCLUDED.refund_count,
				gross_profit = daily_metrics.gross_profit + EXCLUDED.gross_profit,
				net_profit = daily_metrics.net_profit + EXCLUDED.net_profit,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	if err := execBuilder(ctx, q, insert); err != nil {
		return fmt.Errorf("erro ao criar célula %s: %w", key, err)
	}

	return nil
}

func (r *ledgerRepository) GetCell(ctx context.Context, key domain.CellKey) (*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From(dailyMetricsTable).
		Where(cellPredicate("dm.", key)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	metric, err := scanDailyMetric(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear célula: %w", err)
	}

	return metric, nil
}

// ListChannelCells retorna as células de canal (sem TOTAL e sem PRODUCT) de um dia
func (r *ledgerRepository) ListChannelCells(ctx context.Context, storeID string, date time.Time) ([]*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From(dailyMetricsTable).
		Where(squirrel.Eq{"dm.store_id": storeID, "dm.date": date.Format("2006-01-02"), "dm.sku_key": ""}).
		Where(squirrel.NotEq{"dm.channel": []string{string(domain.ChannelTotal), string(domain.ChannelProduct)}}).
		OrderBy("dm.channel ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryMetrics(ctx, query, args)
}

func (r *ledgerRepository) ListRange(ctx context.Context, storeID string, channel domain.Channel, sku string, startDate, endDate time.Time) ([]*domain.DailyMetric, error) {
	query, args, err := squirrel.
		Select(dailyMetricColumns).
		From(dailyMetricsTable).
		Where(squirrel.Eq{"dm.store_id": storeID, "dm.channel": string(channel), "dm.sku_key": sku}).
		Where(squirrel.GtOrEq{"dm.date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"dm.date": endDate.Format("2006-01-02")}).
		OrderBy("dm.date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryMetrics(ctx, query, args)
}

// DeleteOlderThan é o único caminho de remoção de células do ledger
func (r *ledgerRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoffDate := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("daily_metrics").
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *ledgerRepository) queryMetrics(ctx context.Context, query string, args []any) ([]*domain.DailyMetric, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	metrics := make([]*domain.DailyMetric, 0)
	for rows.Next() {
		metric, err := scanDailyMetric(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear célula: %w", err)
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return metrics, nil
}

func scanDailyMetric(row rowScanner) (*domain.DailyMetric, error) {
	var (
		metric     domain.DailyMetric
		channel    string
		productSKU sql.NullString
	)

	err := row.Scan(
		&metric.ID, &metric.StoreID, &channel, &productSKU, &metric.Date, &metric.Currency,
		&metric.Orders, &metric.Units, &metric.Revenue, &metric.AdSpend, &metric.Cogs,
		&metric.ShippingCost, &metric.PaymentFees, &metric.OtherCosts, &metric.RefundAmount, &metric.RefundCount,
		&metric.GrossProfit, &metric.NetProfit, &metric.CreatedAt, &metric.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	metric.Channel = domain.Channel(channel)
	metric.Date = metric.Date.UTC()
	if productSKU.Valid {
		sku := productSKU.String
		metric.ProductSKU = &sku
	}

	return &metric, nil
}
