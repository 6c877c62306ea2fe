package processing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/billing"
)

// OrderProcessor é a única porta de entrada para eventos de pedido
type OrderProcessor interface {
	ProcessOrderEvent(ctx context.Context, storeID string, rawPayload []byte) (*Result, error)
}

// CapacityReserver reserva capacidade mensal; com tx informado participa da transação do pedido
type CapacityReserver interface {
	ReserveOrderCapacity(ctx context.Context, merchantID string, incoming int64, tx postgres.Executor) (*billing.Reservation, error)
}

type OverageCharger interface {
	ScheduleOverageCharge(ctx context.Context, overageRecordID string) error
}

type AttributionAllocator interface {
	AllocateOrder(ctx context.Context, store *domain.Store, order domain.Order) ([]domain.OrderAttribution, error)
}

// Result resume a contribuição financeira do pedido, na moeda da loja
type Result struct {
	OrderID             string          `json:"order_id"`
	ExternalID          string          `json:"external_id"`
	Created             bool            `json:"created"`
	Channel             domain.Channel  `json:"channel"`
	Currency            string          `json:"currency"`
	Revenue             decimal.Decimal `json:"revenue"`
	GrossProfit         decimal.Decimal `json:"gross_profit"`
	NetProfit           decimal.Decimal `json:"net_profit"`
	CogsTotal           decimal.Decimal `json:"cogs_total"`
	Refunds             decimal.Decimal `json:"refunds"`
	VariableCosts       decimal.Decimal `json:"variable_costs"`
	MissingSkuCostCount int             `json:"missing_sku_cost_count"`
	OverageScheduled    bool            `json:"overage_scheduled"`
	OverageRecordID     string          `json:"overage_record_id,omitempty"`
}
