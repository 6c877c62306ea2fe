package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/config"
)

// RetentionPurgeService remove do ledger as células mais antigas que a retenção configurada
type RetentionPurgeService struct {
	*jobRunner
	retentionDays int
	ledger        repository.LedgerRepository
}

func NewRetentionPurgeService(ledger repository.LedgerRepository, cfg config.RetentionPurge) *RetentionPurgeService {
	return &RetentionPurgeService{
		jobRunner:     newJobRunner("retention_purge", cfg.CronSchedule, cfg.Enabled && cfg.RetentionDays > 0),
		retentionDays: cfg.RetentionDays,
		ledger:        ledger,
	}
}

func (s *RetentionPurgeService) Start(ctx context.Context) error {
	return s.start(ctx, s.purge)
}

func (s *RetentionPurgeService) TriggerManualSync() {
	s.triggerManual(s.purge)
}

func (s *RetentionPurgeService) GetStatus() map[string]any {
	status := s.status()
	status["retention_days"] = s.retentionDays
	return status
}

func (s *RetentionPurgeService) purge(ctx context.Context) error {
	if s.retentionDays <= 0 {
		return nil
	}

	deleted, err := s.ledger.DeleteOlderThan(ctx, s.retentionDays)
	if err != nil {
		return fmt.Errorf("erro ao remover células antigas: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"retention_days": s.retentionDays,
		"deleted_cells":  deleted,
	}).Info("Limpeza de retenção concluída")

	return nil
}
