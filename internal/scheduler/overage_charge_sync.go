package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/internal/config"
)

// OverageChargeSyncService tenta novamente as cobranças de excedente que ficaram pendentes
type OverageChargeSyncService struct {
	*jobRunner
	charger OverageCharger
}

func NewOverageChargeSyncService(charger OverageCharger, cfg config.OverageChargeSync) *OverageChargeSyncService {
	return &OverageChargeSyncService{
		jobRunner: newJobRunner("overage_charge_sync", cfg.CronSchedule, cfg.Enabled),
		charger:   charger,
	}
}

func (s *OverageChargeSyncService) Start(ctx context.Context) error {
	return s.start(ctx, s.chargePending)
}

func (s *OverageChargeSyncService) TriggerManualSync() {
	s.triggerManual(s.chargePending)
}

func (s *OverageChargeSyncService) GetStatus() map[string]any {
	return s.status()
}

func (s *OverageChargeSyncService) chargePending(ctx context.Context) error {
	charged, err := s.charger.ChargePending(ctx)

	logrus.WithField("charged", charged).Info("Cobrança de excedentes pendentes concluída")

	if err != nil {
		return fmt.Errorf("erro ao cobrar excedentes pendentes: %w", err)
	}
	return nil
}
