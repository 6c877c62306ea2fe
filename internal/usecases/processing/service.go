package processing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/billing"
	"github.com/vfg2006/profit-engine/internal/usecases/costing"
	"github.com/vfg2006/profit-engine/internal/usecases/ledgering"
	"github.com/vfg2006/profit-engine/internal/usecases/parsing"
	"github.com/vfg2006/profit-engine/internal/usecases/refunding"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "profit-engine/processing"

type Service struct {
	stores     repository.StoreRepository
	orders     repository.OrderRepository
	costConfig repository.CostConfigRepository
	transactor postgres.Transactor

	parser     *parsing.Parser
	costs      *costing.CostResolver
	logistics  *costing.LogisticsResolver
	converter  costing.CurrencyConverter
	refunds    *refunding.Normalizer
	aggregator *ledgering.Aggregator

	capacity  CapacityReserver
	charger   OverageCharger
	allocator AttributionAllocator

	tracer trace.Tracer
}

// Dependencies agrupa os colaboradores do serviço de processamento
type Dependencies struct {
	Stores     repository.StoreRepository
	Orders     repository.OrderRepository
	CostConfig repository.CostConfigRepository
	Ledger     repository.LedgerRepository
	Transactor postgres.Transactor
	Parser     *parsing.Parser
	Costs      *costing.CostResolver
	Converter  costing.CurrencyConverter
	Capacity   CapacityReserver
	Charger    OverageCharger
	Allocator  AttributionAllocator
}

func NewService(deps Dependencies) *Service {
	return &Service{
		stores:     deps.Stores,
		orders:     deps.Orders,
		costConfig: deps.CostConfig,
		transactor: deps.Transactor,
		parser:     deps.Parser,
		costs:      deps.Costs,
		logistics:  costing.NewLogisticsResolver(deps.Converter),
		converter:  deps.Converter,
		refunds:    refunding.NewNormalizer(),
		aggregator: ledgering.NewAggregator(deps.Ledger),
		capacity:   deps.Capacity,
		charger:    deps.Charger,
		allocator:  deps.Allocator,
		tracer:     otel.Tracer(tracerName),
	}
}

// preparedOrder é tudo o que é calculado antes de abrir a transação
type preparedOrder struct {
	order    domain.Order
	items    []domain.LineItem
	costs    []domain.OrderCost
	refunds  domain.NormalizedRefunds
	snapshot domain.Snapshot
}

// ProcessOrderEvent processa um evento de pedido de forma idempotente pelo id externo.
// O snapshot anterior é revertido e o novo aplicado na mesma transação serializável;
// atribuição e cobrança de excedente rodam depois do commit e não afetam o resultado.
func (s *Service) ProcessOrderEvent(ctx context.Context, storeID string, rawPayload []byte) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "ProcessOrderEvent", trace.WithAttributes(attribute.String("store.id", storeID)))
	defer span.End()

	result, err := s.process(ctx, storeID, rawPayload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.external_id", result.ExternalID),
		attribute.Bool("order.created", result.Created),
	)
	return result, nil
}

func (s *Service) process(ctx context.Context, storeID string, rawPayload []byte) (*Result, error) {
	if storeID == "" {
		return nil, NewProcessingError(ErrStoreIDRequired, apiErrors.ErrMissingRequiredData, "", "", "")
	}

	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, NewProcessingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, storeID, "", err.Error())
	}
	if store == nil {
		return nil, NewProcessingError(ErrStoreNotFound, apiErrors.ErrStoreNotFound, storeID, "", "")
	}

	payload, err := s.parser.Decode(rawPayload)
	if err != nil {
		return nil, NewProcessingError(ErrInvalidPayload, apiErrors.ErrInvalidFormat, storeID, "", err.Error())
	}

	parsed, err := s.parser.Parse(storeID, payload, store.Currency)
	if err != nil {
		return nil, NewProcessingError(ErrInvalidPayload, apiErrors.ErrMissingRequiredData, storeID, "", err.Error())
	}

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"store_id":    storeID,
		"external_id": parsed.Order.ExternalID,
	})

	prepared, err := s.prepare(ctx, store, parsed)
	if err != nil {
		return nil, NewProcessingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, storeID, parsed.Order.ExternalID, err.Error())
	}

	var (
		orderID     string
		created     bool
		reservation *billing.Reservation
	)

	err = s.transactor.RunInTransaction(ctx, func(tx postgres.Executor) error {
		orderID, created, reservation = "", false, nil

		previous, err := s.orders.GetForUpdate(ctx, tx, storeID, prepared.order.ExternalID)
		if err != nil {
			return errors.Wrap(err, "erro ao carregar pedido anterior")
		}

		order := prepared.order
		if previous != nil {
			previousSnapshot := s.previousSnapshot(ctx, store, previous)
			if err := s.aggregator.ApplySnapshot(ctx, tx, previousSnapshot, ledgering.Reverse, false); err != nil {
				return errors.Wrap(err, "erro ao reverter snapshot anterior")
			}
			order.ID = previous.Order.ID
		} else {
			reservation, err = s.capacity.ReserveOrderCapacity(ctx, store.MerchantID, 1, tx)
			if err != nil {
				return err
			}
			order.ID = uuid.NewString()
			created = true
		}

		orderID, err = s.orders.Save(ctx, tx, &order)
		if err != nil {
			return errors.Wrap(err, "erro ao salvar pedido")
		}
		if err := s.orders.ReplaceLineItems(ctx, tx, orderID, prepared.items); err != nil {
			return errors.Wrap(err, "erro ao salvar itens")
		}
		if err := s.orders.ReplaceCosts(ctx, tx, orderID, prepared.costs); err != nil {
			return errors.Wrap(err, "erro ao salvar custos")
		}
		if _, err := s.orders.ReconcileRefunds(ctx, tx, storeID, order.ExternalID, prepared.refunds.Records); err != nil {
			return errors.Wrap(err, "erro ao conciliar reembolsos")
		}

		if err := s.aggregator.ApplySnapshot(ctx, tx, prepared.snapshot, ledgering.Apply, true); err != nil {
			return errors.Wrap(err, "erro ao aplicar snapshot")
		}

		return nil
	})
	if err != nil {
		var limitErr *billing.PlanLimitError
		if errors.As(err, &limitErr) {
			logger.WithFields(log.Fields{
				"merchant_id": limitErr.MerchantID,
				"limit":       limitErr.Limit,
				"usage":       limitErr.Usage,
			}).Warn("Pedido recusado por limite do plano")
			return nil, err
		}
		logger.WithError(err).Error("Falha na transação do pedido")
		return nil, NewProcessingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, storeID, prepared.order.ExternalID, err.Error())
	}

	prepared.order.ID = orderID
	s.afterCommit(ctx, store, prepared.order, reservation)

	snap := prepared.snapshot
	result := &Result{
		OrderID:             orderID,
		ExternalID:          prepared.order.ExternalID,
		Created:             created,
		Channel:             snap.Channel,
		Currency:            snap.Currency,
		Revenue:             utils.RoundMoney(snap.Revenue),
		GrossProfit:         utils.RoundMoney(snap.GrossProfit()),
		NetProfit:           utils.RoundMoney(snap.NetProfit()),
		CogsTotal:           utils.RoundMoney(snap.Cogs),
		Refunds:             utils.RoundMoney(snap.RefundAmount),
		VariableCosts:       utils.RoundMoney(snap.VariableCosts()),
		MissingSkuCostCount: prepared.order.MissingSkuCostCount,
	}
	if reservation != nil {
		result.OverageScheduled = reservation.OverageScheduled
		result.OverageRecordID = reservation.OverageRecordID
	}

	logger.WithFields(log.Fields{
		"order_id":   orderID,
		"created":    created,
		"revenue":    result.Revenue.String(),
		"net_profit": result.NetProfit.String(),
	}).Info("Pedido processado")

	return result, nil
}

// prepare carrega a configuração de custos em paralelo e monta o snapshot novo
func (s *Service) prepare(ctx context.Context, store *domain.Store, parsed *domain.ParsedOrder) (*preparedOrder, error) {
	order := parsed.Order
	asOf := order.ProcessedAt

	var (
		skuCosts  map[string]domain.SkuCost
		templates []domain.CostTemplate
		rules     []domain.LogisticsRule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skuCosts, err = s.costConfig.ResolveActiveSkuCosts(gctx, store.ID, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		templates, err = s.costConfig.ListCostTemplates(gctx, store.ID)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = s.costConfig.ListLogisticsRules(gctx, store.ID, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "erro ao carregar configuração de custos")
	}

	unitCosts := s.unitCostsIn(ctx, store, skuCosts, order.Currency, asOf)
	resolution := s.costs.Resolve(order, parsed.LineItems, unitCosts, templates, parsed.GatewayFee)
	costs := resolution.Costs

	shipping, rule := s.logistics.Resolve(ctx, rules, costing.LogisticsQuery{
		StoreID:  store.ID,
		OrderID:  order.ExternalID,
		Provider: order.ShippingCarrier,
		Country:  order.ShippingCountry,
		Region:   order.ShippingRegion,
		WeightKg: order.TotalWeightKg,
		At:       asOf,
		Currency: order.Currency,
	})
	if rule != nil && shipping.IsPositive() {
		costs = append(costs, domain.OrderCost{
			Type:     domain.CostTypeShipping,
			Source:   domain.CostSourceLogisticsRule,
			Label:    rule.ID,
			Amount:   shipping,
			Currency: order.Currency,
		})
	}

	order.MissingSkuCostCount = resolution.MissingSkuCostCount
	order.LedgerDate = utils.DayIn(order.ProcessedAt, store.Location())

	refunds := s.refunds.Normalize(store.ID, order.ExternalID, order.Currency, parsed.RawRefunds, order.ProcessedAt)

	snapshot := ledgering.BuildSnapshot(order.LedgerDate, order, resolution.LineItems, costs, refunds)
	order.GrossProfit = utils.RoundMoney(snapshot.GrossProfit())
	order.NetProfit = utils.RoundMoney(snapshot.NetProfit())

	snapshot = s.toStoreCurrency(ctx, store, snapshot, order.ProcessedAt)
	order.LedgerSnapshot = &snapshot

	return &preparedOrder{
		order:    order,
		items:    resolution.LineItems,
		costs:    costs,
		refunds:  refunds,
		snapshot: snapshot,
	}, nil
}

// previousSnapshot prefere o snapshot gravado com o pedido; pedidos antigos sem ele são
// reconstruídos a partir dos itens, custos e reembolsos persistidos
func (s *Service) previousSnapshot(ctx context.Context, store *domain.Store, previous *domain.PersistedOrder) domain.Snapshot {
	if previous.Order.LedgerSnapshot != nil {
		return *previous.Order.LedgerSnapshot
	}

	date := previous.Order.LedgerDate
	if date.IsZero() {
		date = utils.DayIn(previous.Order.ProcessedAt, store.Location())
	}

	snapshot := ledgering.BuildSnapshot(date, previous.Order, previous.LineItems, previous.Costs, s.refunds.FromRecords(previous.Refunds))
	return s.toStoreCurrency(ctx, store, snapshot, previous.Order.ProcessedAt)
}

func (s *Service) toStoreCurrency(ctx context.Context, store *domain.Store, snapshot domain.Snapshot, at time.Time) domain.Snapshot {
	if store.Currency == "" || snapshot.Currency == store.Currency || s.converter == nil {
		return snapshot
	}

	rate := s.rate(ctx, store, snapshot.Currency, store.Currency, at)
	return ledgering.ConvertSnapshot(snapshot, rate, store.Currency)
}

// unitCostsIn leva o custo unitário de cada SKU para a moeda do pedido, para que o COGS
// seja somado na mesma moeda da receita antes da conversão do snapshot
func (s *Service) unitCostsIn(ctx context.Context, store *domain.Store, costs map[string]domain.SkuCost, currency string, at time.Time) map[string]decimal.Decimal {
	unitCosts := make(map[string]decimal.Decimal, len(costs))
	rates := make(map[string]decimal.Decimal)

	for sku, cost := range costs {
		from := strings.ToUpper(strings.TrimSpace(cost.Currency))
		if from == "" || from == currency || s.converter == nil {
			unitCosts[sku] = cost.UnitCost
			continue
		}

		rate, ok := rates[from]
		if !ok {
			rate = s.rate(ctx, store, from, currency, at)
			rates[from] = rate
		}
		unitCosts[sku] = cost.UnitCost.Mul(rate)
	}

	return unitCosts
}

// rate busca a cotação; na falha registra e segue com taxa 1
func (s *Service) rate(ctx context.Context, store *domain.Store, from, to string, at time.Time) decimal.Decimal {
	rate, err := s.converter.Convert(ctx, decimal.NewFromInt(1), from, to, at)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithFields(log.Fields{
			"store_id": store.ID,
			"from":     from,
			"to":       to,
		}).Warn("Falha na conversão de moeda, usando taxa 1")
		return decimal.NewFromInt(1)
	}
	return rate
}

// afterCommit executa o enriquecimento pós-commit; falhas são apenas registradas
func (s *Service) afterCommit(ctx context.Context, store *domain.Store, order domain.Order, reservation *billing.Reservation) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"store_id": store.ID,
		"order_id": order.ID,
	})

	if s.allocator != nil {
		if _, err := s.allocator.AllocateOrder(ctx, store, order); err != nil {
			logger.WithError(err).Warn("Falha ao alocar atribuição de mídia")
		}
	}

	if s.charger != nil && reservation != nil && reservation.OverageScheduled {
		if err := s.charger.ScheduleOverageCharge(ctx, reservation.OverageRecordID); err != nil {
			logger.WithError(err).WithField("overage_id", reservation.OverageRecordID).Warn("Falha ao cobrar excedente")
		}
	}
}
