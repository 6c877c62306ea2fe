package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/config"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

// Reservation descreve o resultado de uma reserva de capacidade
type Reservation struct {
	Limit            int64
	Usage            int64
	Projected        int64
	OverageScheduled bool
	OverageRecordID  string
	UnitsRequired    int64
}

type Guard struct {
	plans       repository.StoreRepository
	usage       repository.UsageRepository
	overages    repository.OverageRepository
	defaultPlan domain.Plan
	now         func() time.Time
}

func NewGuard(
	plans repository.StoreRepository,
	usage repository.UsageRepository,
	overages repository.OverageRepository,
	defaultPlan domain.Plan,
) *Guard {
	return &Guard{
		plans:       plans,
		usage:       usage,
		overages:    overages,
		defaultPlan: defaultPlan,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// DefaultPlanFromConfig monta o plano usado para merchants sem plano cadastrado
func DefaultPlanFromConfig(cfg config.Capacity) domain.Plan {
	plan := domain.Plan{
		Name:              "default",
		MonthlyOrderLimit: cfg.DefaultMonthlyOrderLimit,
	}
	if cfg.DefaultOverageBlockSize > 0 {
		plan.Overage = &domain.OverageTier{
			BlockSize:  cfg.DefaultOverageBlockSize,
			BlockPrice: decimal.NewFromFloat(cfg.DefaultOverageBlockPrice),
			Currency:   cfg.DefaultOverageCurrency,
		}
	}
	return plan
}

// ReserveOrderCapacity usa o caminho transacional quando tx é informado; sem tx faz apenas a checagem consultiva
func (g *Guard) ReserveOrderCapacity(ctx context.Context, merchantID string, incoming int64, tx postgres.Executor) (*Reservation, error) {
	if tx == nil {
		return g.ReserveAdvisory(ctx, merchantID, incoming)
	}
	return g.ReserveInTransaction(ctx, tx, merchantID, incoming)
}

// ReserveAdvisory lê o contador sem travá-lo e sem incrementá-lo. Serve para checagens prévias.
func (g *Guard) ReserveAdvisory(ctx context.Context, merchantID string, incoming int64) (*Reservation, error) {
	if merchantID == "" {
		return nil, ErrMerchantIDRequired
	}

	plan, err := g.planFor(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	year, month := utils.BillingMonth(g.now())
	current, err := g.usage.GetMonthlyUsage(ctx, merchantID, year, month)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar uso mensal: %w", err)
	}

	return g.decide(ctx, nil, plan, merchantID, year, month, current, incoming)
}

// ReserveInTransaction trava a linha de uso do mês, decide sobre o excedente e incrementa o contador
func (g *Guard) ReserveInTransaction(ctx context.Context, q postgres.Executor, merchantID string, incoming int64) (*Reservation, error) {
	if merchantID == "" {
		return nil, ErrMerchantIDRequired
	}

	plan, err := g.planFor(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	year, month := utils.BillingMonth(g.now())
	current, err := g.usage.LockMonthlyUsage(ctx, q, merchantID, year, month)
	if err != nil {
		return nil, fmt.Errorf("erro ao travar uso mensal: %w", err)
	}

	reservation, err := g.decide(ctx, q, plan, merchantID, year, month, current, incoming)
	if err != nil {
		return nil, err
	}

	if err := g.usage.IncrementMonthlyUsage(ctx, q, merchantID, year, month, incoming); err != nil {
		return nil, fmt.Errorf("erro ao incrementar uso mensal: %w", err)
	}

	return reservation, nil
}

func (g *Guard) decide(
	ctx context.Context,
	q postgres.Executor,
	plan domain.Plan,
	merchantID string,
	year, month int,
	current, incoming int64,
) (*Reservation, error) {
	reservation := &Reservation{
		Limit:     plan.MonthlyOrderLimit,
		Usage:     current,
		Projected: current + incoming,
	}

	if plan.Unlimited() || reservation.Projected <= plan.MonthlyOrderLimit {
		return reservation, nil
	}

	if !plan.HasOverage() {
		return nil, NewPlanLimitError(merchantID, plan.MonthlyOrderLimit, current, incoming)
	}

	reservation.UnitsRequired = UnitsRequired(reservation.Projected, plan.MonthlyOrderLimit, plan.Overage.BlockSize)

	overageID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar identificador do excedente: %w", err)
	}

	record, err := g.overages.Schedule(ctx, q, &domain.OverageRecord{
		ID:            overageID,
		MerchantID:    merchantID,
		Year:          year,
		Month:         month,
		UnitsRequired: reservation.UnitsRequired,
		BlockSize:     plan.Overage.BlockSize,
		BlockPrice:    plan.Overage.BlockPrice,
		Currency:      plan.Overage.Currency,
		Status:        domain.OverageStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao agendar excedente: %w", err)
	}

	reservation.OverageScheduled = true
	reservation.OverageRecordID = record.ID

	log.ForContext(ctx).WithFields(log.Fields{
		"merchant_id":    merchantID,
		"limit":          plan.MonthlyOrderLimit,
		"projected":      reservation.Projected,
		"units_required": reservation.UnitsRequired,
		"overage_id":     record.ID,
	}).Info("Limite mensal excedido, excedente agendado")

	return reservation, nil
}

func (g *Guard) planFor(ctx context.Context, merchantID string) (domain.Plan, error) {
	plan, err := g.plans.GetMerchantPlan(ctx, merchantID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("erro ao buscar plano do merchant: %w", err)
	}
	if plan == nil {
		return g.defaultPlan, nil
	}
	return *plan, nil
}

// UnitsRequired calcula quantos blocos de excedente cobrem o que passou do limite
func UnitsRequired(projected, limit, blockSize int64) int64 {
	over := projected - limit
	if over <= 0 || blockSize <= 0 {
		return 0
	}
	return (over + blockSize - 1) / blockSize
}
