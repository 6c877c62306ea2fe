package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/payments/paymentsclient"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/pkg/log"
)

// Charger executa a cobrança dos blocos de excedente pendentes
type Charger struct {
	overages repository.OverageRepository
	client   paymentsclient.Client
	now      func() time.Time
}

func NewCharger(overages repository.OverageRepository, client paymentsclient.Client) *Charger {
	return &Charger{
		overages: overages,
		client:   client,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ScheduleOverageCharge cobra apenas os blocos ainda não faturados. A chave de idempotência
// inclui o total de blocos exigidos, então repetir a chamada não gera cobrança duplicada.
func (c *Charger) ScheduleOverageCharge(ctx context.Context, overageRecordID string) error {
	record, err := c.overages.GetByID(ctx, overageRecordID)
	if err != nil {
		return fmt.Errorf("erro ao buscar excedente: %w", err)
	}
	if record == nil {
		return ErrOverageNotFound
	}

	pending := record.PendingUnits()
	if pending == 0 {
		return nil
	}

	amount := record.BlockPrice.Mul(decimal.NewFromInt(pending))

	resp, err := c.client.Charge(ctx, paymentsclient.ChargeRequest{
		IdempotencyKey: fmt.Sprintf("overage-%s-%d", record.ID, record.UnitsRequired),
		MerchantID:     record.MerchantID,
		Description:    fmt.Sprintf("Excedente de pedidos %04d-%02d", record.Year, record.Month),
		Quantity:       pending,
		UnitPrice:      record.BlockPrice,
		Amount:         amount,
		Currency:       record.Currency,
		Reference:      record.ID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	if err := c.overages.MarkBilled(ctx, record.ID, record.UnitsRequired, c.now()); err != nil {
		return fmt.Errorf("erro ao marcar excedente como cobrado: %w", err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"merchant_id": record.MerchantID,
		"overage_id":  record.ID,
		"units":       pending,
		"amount":      amount.String(),
		"charge_id":   resp.ID,
	}).Info("Excedente cobrado")

	return nil
}

// ChargePending percorre todos os excedentes pendentes; falhas individuais não interrompem os demais
func (c *Charger) ChargePending(ctx context.Context) (int, error) {
	records, err := c.overages.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("erro ao listar excedentes pendentes: %w", err)
	}

	charged := 0
	var errs []error
	for _, record := range records {
		if err := c.ScheduleOverageCharge(ctx, record.ID); err != nil {
			log.ForContext(ctx).WithError(err).WithField("overage_id", record.ID).Error("Falha ao cobrar excedente")
			errs = append(errs, err)
			continue
		}
		charged++
	}

	return charged, errors.Join(errs...)
}
