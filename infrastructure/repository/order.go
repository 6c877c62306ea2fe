package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	ordersTable     = "orders o"
	lineItemsTable  = "order_line_items li"
	orderCostsTable = "order_costs oc"
	refundsTable    = "refunds rf"
)

//go:generate mockgen -source=order.go -destination=mocks/order.go -package=mocks

type OrderRepository interface {
	// GetForUpdate carrega o pedido e seus filhos travando a linha do pedido
	GetForUpdate(ctx context.Context, q postgres.Executor, storeID, externalID string) (*domain.PersistedOrder, error)
	Save(ctx context.Context, q postgres.Executor, order *domain.Order) (string, error)
	ReplaceLineItems(ctx context.Context, q postgres.Executor, orderID string, items []domain.LineItem) error
	ReplaceCosts(ctx context.Context, q postgres.Executor, orderID string, costs []domain.OrderCost) error
	ReconcileRefunds(ctx context.Context, q postgres.Executor, storeID, orderExternalID string, refunds []domain.RefundRecord) (int64, error)
	ListByLedgerDate(ctx context.Context, storeID string, date time.Time) ([]*domain.Order, error)
}

type orderRepository struct {
	conn postgres.Executor
}

func NewOrderRepository(conn postgres.Executor) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

var orderColumns = `o.id, o.store_id, o.external_id, o.name, o.channel, o.source_name, o.currency,
	o.financial_status, o.gateway, COALESCE(o.customer_id, ''), COALESCE(o.customer_email, ''),
	o.shipping_country, o.shipping_region, o.shipping_carrier, o.subtotal, o.discount, o.shipping_revenue, o.tax,
	o.revenue, o.total, o.gross_profit, o.net_profit, o.total_weight_kg, o.missing_sku_cost_count, o.processed_at, o.ledger_date,
	o.ledger_snapshot, o.created_at, o.updated_at`

func (r *orderRepository) GetForUpdate(ctx context.Context, q postgres.Executor, storeID, externalID string) (*domain.PersistedOrder, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"o.store_id": storeID, "o.external_id": externalID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	order, err := scanOrder(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear pedido: %w", err)
	}

	persisted := &domain.PersistedOrder{Order: *order}

	if persisted.LineItems, err = r.listLineItems(ctx, q, order.ID); err != nil {
		return nil, err
	}
	if persisted.Costs, err = r.listCosts(ctx, q, order.ID); err != nil {
		return nil, err
	}
	if persisted.Refunds, err = r.listRefunds(ctx, q, storeID, externalID); err != nil {
		return nil, err
	}

	return persisted, nil
}

func (r *orderRepository) Save(ctx context.Context, q postgres.Executor, order *domain.Order) (string, error) {
	var snapshotJSON []byte
	if order.LedgerSnapshot != nil {
		var err error
		snapshotJSON, err = json.Marshal(order.LedgerSnapshot)
		if err != nil {
			return "", fmt.Errorf("erro ao serializar snapshot para JSON: %w", err)
		}
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("orders").
		Columns(
			"id", "store_id", "external_id", "name", "channel", "source_name", "currency",
			"financial_status", "gateway", "customer_id", "customer_email", "shipping_country",
			"shipping_region", "shipping_carrier", "subtotal", "discount", "shipping_revenue", "tax", "revenue",
			"total", "gross_profit", "net_profit", "total_weight_kg", "missing_sku_cost_count", "processed_at", "ledger_date", "ledger_snapshot",
		).
		Values(
			order.ID, order.StoreID, order.ExternalID, order.Name, string(order.Channel), order.SourceName, order.Currency,
			order.FinancialStatus, order.Gateway, nullString(order.CustomerID), nullString(order.CustomerEmail), order.ShippingCountry,
			order.ShippingRegion, order.ShippingCarrier, order.Subtotal, order.Discount, order.ShippingRevenue, order.Tax, order.Revenue,
			order.Total, order.GrossProfit, order.NetProfit, order.TotalWeightKg, order.MissingSkuCostCount, order.ProcessedAt, order.LedgerDate.Format("2006-01-02"), nullString(string(snapshotJSON)),
		).
		Suffix(`
			ON CONFLICT (store_id, external_id) DO UPDATE SET
				name = EXCLUDED.name,
				channel = EXCLUDED.channel,
				source_name = EXCLUDED.source_name,
				currency = EXCLUDED.currency,
				financial_status = EXCLUDED.financial_status,
				gateway = EXCLUDED.gateway,
				customer_id = EXCLUDED.customer_id,
				customer_email = EXCLUDED.customer_email,
				shipping_country = EXCLUDED.shipping_country,
				shipping_region = EXCLUDED.shipping_region,
				shipping_carrier = EXCLUDED.shipping_carrier,
				subtotal = EXCLUDED.subtotal,
				discount = EXCLUDED.discount,
				shipping_revenue = EXCLUDED.shipping_revenue,
				tax = EXCLUDED.tax,
				revenue = EXCLUDED.revenue,
				total = EXCLUDED.total,
				gross_profit = EXCLUDED.gross_profit,
				net_profit = EXCLUDED.net_profit,
				total_weight_kg = EXCLUDED.total_weight_kg,
				missing_sku_cost_count = EXCLUDED.missing_sku_cost_count,
				processed_at = EXCLUDED.processed_at,
				ledger_date = EXCLUDED.ledger_date,
				ledger_snapshot = EXCLUDED.ledger_snapshot,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao construir a query: %w", err)
	}

	var id string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return "", fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return "", fmt.Errorf("erro ao salvar pedido: %w", err)
	}

	return id, nil
}

func (r *orderRepository) ReplaceLineItems(ctx context.Context, q postgres.Executor, orderID string, items []domain.LineItem) error {
	if err := deleteWhere(ctx, q, "order_line_items", squirrel.Eq{"order_id": orderID}); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	insert := squirrel.StatementBuilder.
		Insert("order_line_items").
		Columns("order_id", "sku", "variant_id", "title", "quantity", "unit_price", "discount", "revenue", "cogs", "weight_grams").
		PlaceholderFormat(squirrel.Dollar)
	for _, item := range items {
		insert = insert.Values(orderID, item.SKU, item.VariantID, item.Title, item.Quantity, item.UnitPrice, item.Discount, item.Revenue, item.Cogs, item.WeightGrams)
	}

	return execBuilder(ctx, q, insert)
}

func (r *orderRepository) ReplaceCosts(ctx context.Context, q postgres.Executor, orderID string, costs []domain.OrderCost) error {
	if err := deleteWhere(ctx, q, "order_costs", squirrel.Eq{"order_id": orderID}); err != nil {
		return err
	}
	if len(costs) == 0 {
		return nil
	}

	insert := squirrel.StatementBuilder.
		Insert("order_costs").
		Columns("order_id", "cost_type", "source", "label", "amount", "currency").
		PlaceholderFormat(squirrel.Dollar)
	for _, cost := range costs {
		insert = insert.Values(orderID, string(cost.Type), string(cost.Source), cost.Label, cost.Amount, cost.Currency)
	}

	return execBuilder(ctx, q, insert)
}

// ReconcileRefunds grava os reembolsos do payload e remove os que não vieram mais.
// O id externo do reembolso é único por loja: um reembolso que aparece em outro pedido muda de dono.
func (r *orderRepository) ReconcileRefunds(ctx context.Context, q postgres.Executor, storeID, orderExternalID string, refunds []domain.RefundRecord) (int64, error) {
	keep := make([]string, 0, len(refunds))
	for _, refund := range refunds {
		keep = append(keep, refund.ExternalID)
	}

	del := squirrel.
		Delete("refunds").
		Where(squirrel.Eq{"store_id": storeID, "order_external_id": orderExternalID}).
		PlaceholderFormat(squirrel.Dollar)
	if len(keep) > 0 {
		del = del.Where(squirrel.NotEq{"external_id": keep})
	}

	query, args, err := del.ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover reembolsos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	for _, refund := range refunds {
		lineItemsJSON, err := json.Marshal(refund.LineItems)
		if err != nil {
			return 0, fmt.Errorf("erro ao serializar itens do reembolso: %w", err)
		}

		var rawJSON []byte
		if refund.RawPayload != nil {
			if rawJSON, err = json.Marshal(refund.RawPayload); err != nil {
				return 0, fmt.Errorf("erro ao serializar payload do reembolso: %w", err)
			}
		}

		upsert := squirrel.StatementBuilder.
			Insert("refunds").
			Columns(
				"store_id", "order_external_id", "external_id", "amount", "currency", "note", "restock",
				"processed_at", "line_items", "raw_payload",
			).
			Values(
				storeID, orderExternalID, refund.ExternalID, refund.Amount, refund.Currency, refund.Note, refund.Restock,
				refund.ProcessedAt, string(lineItemsJSON), nullString(string(rawJSON)),
			).
			Suffix(`
				ON CONFLICT (store_id, external_id) DO UPDATE SET
					order_external_id = EXCLUDED.order_external_id,
					amount = EXCLUDED.amount,
					currency = EXCLUDED.currency,
					note = EXCLUDED.note,
					restock = EXCLUDED.restock,
					processed_at = EXCLUDED.processed_at,
					line_items = EXCLUDED.line_items,
					raw_payload = EXCLUDED.raw_payload
			`).
			PlaceholderFormat(squirrel.Dollar)

		if err := execBuilder(ctx, q, upsert); err != nil {
			return 0, err
		}
	}

	return deleted, nil
}

func (r *orderRepository) ListByLedgerDate(ctx context.Context, storeID string, date time.Time) ([]*domain.Order, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"o.store_id": storeID, "o.ledger_date": date.Format("2006-01-02")}).
		OrderBy("o.processed_at ASC").
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

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear pedido: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) listLineItems(ctx context.Context, q postgres.Executor, orderID string) ([]domain.LineItem, error) {
	query, args, err := squirrel.
		Select("li.id, li.order_id, li.sku, li.variant_id, li.title, li.quantity, li.unit_price, li.discount, li.revenue, li.cogs, li.weight_grams").
		From(lineItemsTable).
		Where(squirrel.Eq{"li.order_id": orderID}).
		OrderBy("li.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens do pedido: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.SKU, &item.VariantID, &item.Title, &item.Quantity,
			&item.UnitPrice, &item.Discount, &item.Revenue, &item.Cogs, &item.WeightGrams,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear item do pedido: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *orderRepository) listCosts(ctx context.Context, q postgres.Executor, orderID string) ([]domain.OrderCost, error) {
	query, args, err := squirrel.
		Select("oc.id, oc.order_id, oc.cost_type, oc.source, oc.label, oc.amount, oc.currency").
		From(orderCostsTable).
		Where(squirrel.Eq{"oc.order_id": orderID}).
		OrderBy("oc.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar custos do pedido: %w", err)
	}
	defer rows.Close()

	costs := make([]domain.OrderCost, 0)
	for rows.Next() {
		var (
			cost       domain.OrderCost
			costType   string
			costSource string
		)
		if err := rows.Scan(&cost.ID, &cost.OrderID, &costType, &costSource, &cost.Label, &cost.Amount, &cost.Currency); err != nil {
			return nil, fmt.Errorf("erro ao escanear custo do pedido: %w", err)
		}
		cost.Type = domain.CostType(costType)
		cost.Source = domain.CostSource(costSource)
		costs = append(costs, cost)
	}

	return costs, rows.Err()
}

func (r *orderRepository) listRefunds(ctx context.Context, q postgres.Executor, storeID, orderExternalID string) ([]domain.RefundRecord, error) {
	query, args, err := squirrel.
		Select("rf.id, rf.store_id, rf.order_external_id, rf.external_id, rf.amount, rf.currency, rf.note, rf.restock, rf.processed_at, rf.line_items, rf.raw_payload").
		From(refundsTable).
		Where(squirrel.Eq{"rf.store_id": storeID, "rf.order_external_id": orderExternalID}).
		OrderBy("rf.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar reembolsos: %w", err)
	}
	defer rows.Close()

	refunds := make([]domain.RefundRecord, 0)
	for rows.Next() {
		var (
			refund        domain.RefundRecord
			lineItemsJSON []byte
			rawJSON       []byte
		)
		if err := rows.Scan(
			&refund.ID, &refund.StoreID, &refund.OrderExternalID, &refund.ExternalID,
			&refund.Amount, &refund.Currency, &refund.Note, &refund.Restock, &refund.ProcessedAt, &lineItemsJSON, &rawJSON,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear reembolso: %w", err)
		}
		if len(lineItemsJSON) > 0 {
			if err := json.Unmarshal(lineItemsJSON, &refund.LineItems); err != nil {
				return nil, fmt.Errorf("erro ao deserializar itens do reembolso: %w", err)
			}
		}
		if len(rawJSON) > 0 {
			if err := json.Unmarshal(rawJSON, &refund.RawPayload); err != nil {
				return nil, fmt.Errorf("erro ao deserializar payload do reembolso: %w", err)
			}
		}
		refunds = append(refunds, refund)
	}

	return refunds, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order        domain.Order
		channel      string
		ledgerDate   time.Time
		snapshotJSON []byte
	)

	err := row.Scan(
		&order.ID, &order.StoreID, &order.ExternalID, &order.Name, &channel, &order.SourceName, &order.Currency,
		&order.FinancialStatus, &order.Gateway, &order.CustomerID, &order.CustomerEmail,
		&order.ShippingCountry, &order.ShippingRegion, &order.ShippingCarrier, &order.Subtotal, &order.Discount, &order.ShippingRevenue, &order.Tax,
		&order.Revenue, &order.Total, &order.GrossProfit, &order.NetProfit, &order.TotalWeightKg, &order.MissingSkuCostCount, &order.ProcessedAt, &ledgerDate,
		&snapshotJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Channel = domain.Channel(channel)
	order.LedgerDate = ledgerDate.UTC()

	if len(snapshotJSON) > 0 {
		var snapshot domain.Snapshot
		if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
			return nil, fmt.Errorf("erro ao deserializar snapshot do ledger: %w", err)
		}
		order.LedgerSnapshot = &snapshot
	}

	return &order, nil
}
