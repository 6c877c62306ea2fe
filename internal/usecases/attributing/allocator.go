package attributing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

const RuleLastTouch = "LAST_TOUCH"

type Allocator struct {
	ledger       repository.LedgerRepository
	attributions repository.AttributionRepository
	orders       repository.OrderRepository
	transactor   postgres.Transactor
}

func NewAllocator(
	ledger repository.LedgerRepository,
	attributions repository.AttributionRepository,
	orders repository.OrderRepository,
	transactor postgres.Transactor,
) *Allocator {
	return &Allocator{
		ledger:       ledger,
		attributions: attributions,
		orders:       orders,
		transactor:   transactor,
	}
}

// AllocateOrder distribui o gasto de mídia do dia para o pedido, proporcional à sua
// participação na receita do dia e ao peso de cada regra do provedor. Sem gasto ou sem
// receita no dia nada é alterado.
func (a *Allocator) AllocateOrder(ctx context.Context, store *domain.Store, order domain.Order) ([]domain.OrderAttribution, error) {
	date := order.LedgerDate
	if date.IsZero() {
		date = utils.DayIn(order.ProcessedAt, store.Location())
	}

	total, err := a.ledger.GetCell(ctx, domain.TotalCellKey(store.ID, date))
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar célula TOTAL: %w", err)
	}
	if total == nil || !total.AdSpend.IsPositive() || !total.Revenue.IsPositive() {
		return nil, nil
	}

	channels, err := a.ledger.ListChannelCells(ctx, store.ID, date)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar células de canal: %w", err)
	}

	rules, err := a.attributions.ListAttributionRules(ctx, store.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar regras de atribuição: %w", err)
	}

	rows := Compute(ComputeInput{
		StoreID:      store.ID,
		OrderID:      order.ID,
		Date:         date,
		Currency:     total.Currency,
		OrderRevenue: revenueIn(order, total.Currency),
		TotalRevenue: total.Revenue,
		TotalSpend:   total.AdSpend,
		Channels:     channels,
		Rules:        rules,
	})

	err = a.transactor.RunInTransaction(ctx, func(tx postgres.Executor) error {
		return a.attributions.ReplaceOrderAttributions(ctx, tx, order.ID, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao gravar atribuições: %w", err)
	}

	return rows, nil
}

// RecomputeForDate refaz a atribuição de todos os pedidos do dia, usado após mudanças no gasto de mídia
func (a *Allocator) RecomputeForDate(ctx context.Context, store *domain.Store, date time.Time) (int, error) {
	orders, err := a.orders.ListByLedgerDate(ctx, store.ID, date)
	if err != nil {
		return 0, fmt.Errorf("erro ao listar pedidos do dia: %w", err)
	}

	processed := 0
	var errs []error
	for _, order := range orders {
		if _, err := a.AllocateOrder(ctx, store, *order); err != nil {
			log.ForContext(ctx).WithError(err).WithFields(log.Fields{
				"store_id": store.ID,
				"order_id": order.ID,
			}).Warn("Falha ao recalcular atribuição do pedido")
			errs = append(errs, err)
			continue
		}
		processed++
	}

	return processed, errors.Join(errs...)
}

// revenueIn devolve a receita do pedido na moeda das células. O snapshot gravado já está
// convertido para a moeda da loja; sem ele usa a receita do pedido.
func revenueIn(order domain.Order, currency string) decimal.Decimal {
	if snapshot := order.LedgerSnapshot; snapshot != nil && (currency == "" || snapshot.Currency == currency) {
		return snapshot.Revenue
	}
	return order.Revenue
}

type ComputeInput struct {
	StoreID      string
	OrderID      string
	Date         time.Time
	Currency     string
	OrderRevenue decimal.Decimal
	TotalRevenue decimal.Decimal
	TotalSpend   decimal.Decimal
	Channels     []*domain.DailyMetric
	Rules        []domain.AttributionRule
}

// Compute calcula as linhas de atribuição sem efeitos colaterais.
// Provedor sem regra configurada recebe uma regra LAST_TOUCH de peso 1.
func Compute(in ComputeInput) []domain.OrderAttribution {
	rows := make([]domain.OrderAttribution, 0)
	if !in.TotalSpend.IsPositive() || !in.TotalRevenue.IsPositive() {
		return rows
	}

	touchesByProvider := make(map[string][]domain.AttributionTouch, len(in.Rules))
	for _, rule := range in.Rules {
		provider := strings.ToLower(rule.Provider)
		touchesByProvider[provider] = append(touchesByProvider[provider], rule.Touches...)
	}

	orderShare := in.OrderRevenue.Div(in.TotalRevenue)

	spendByProvider := make(map[string]decimal.Decimal)
	for _, cell := range in.Channels {
		provider := cell.Channel.AdProvider()
		if provider == "" || !cell.AdSpend.IsPositive() {
			continue
		}
		spendByProvider[provider] = spendByProvider[provider].Add(cell.AdSpend)
	}

	providers := make([]string, 0, len(spendByProvider))
	for provider := range spendByProvider {
		providers = append(providers, provider)
	}
	sort.Strings(providers)

	for _, provider := range providers {
		channelProportion := spendByProvider[provider].Div(in.TotalSpend)

		touches := touchesByProvider[provider]
		if len(touches) == 0 {
			touches = []domain.AttributionTouch{{RuleType: RuleLastTouch, Weight: decimal.NewFromInt(1)}}
		}

		weightSum := decimal.Zero
		for _, touch := range touches {
			if touch.Weight.IsPositive() {
				weightSum = weightSum.Add(touch.Weight)
			}
		}
		if weightSum.IsZero() {
			continue
		}

		for _, touch := range touches {
			if !touch.Weight.IsPositive() {
				continue
			}
			normalized := touch.Weight.Div(weightSum)
			amount := utils.RoundMoney(in.TotalSpend.Mul(channelProportion).Mul(orderShare).Mul(normalized))
			if !amount.IsPositive() {
				continue
			}

			rows = append(rows, domain.OrderAttribution{
				ID:       uuid.NewString(),
				OrderID:  in.OrderID,
				StoreID:  in.StoreID,
				Provider: provider,
				RuleType: touch.RuleType,
				Amount:   amount,
				Currency: in.Currency,
				Date:     in.Date,
			})
		}
	}

	return rows
}
