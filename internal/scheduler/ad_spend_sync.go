package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/config"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/adspending"
	"github.com/vfg2006/profit-engine/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// AdSpendSyncService importa periodicamente o gasto das campanhas do Meta de cada loja
// com conta de anúncios vinculada. O registro é por diferença, então reimportar a
// janela inteira a cada execução não duplica valores.
type AdSpendSyncService struct {
	*jobRunner
	config   config.AdSpendSync
	stores   repository.StoreRepository
	fetcher  AdSpendFetcher
	recorder adspending.AdSpendRecorder
	now      func() time.Time
}

func NewAdSpendSyncService(
	stores repository.StoreRepository,
	fetcher AdSpendFetcher,
	recorder adspending.AdSpendRecorder,
	cfg config.AdSpendSync,
) *AdSpendSyncService {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 1
	}
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         cfg.CronSchedule,
		"lookback_days":         cfg.LookbackDays,
		"request_delay_seconds": cfg.RequestDelaySeconds,
		"max_concurrent_jobs":   cfg.MaxConcurrentJobs,
		"sync_enabled":          cfg.Enabled,
	}).Info("Configuração do agendador de gasto em anúncios carregada")

	return &AdSpendSyncService{
		jobRunner: newJobRunner("ad_spend_sync", cfg.CronSchedule, cfg.Enabled),
		config:    cfg,
		stores:    stores,
		fetcher:   fetcher,
		recorder:  recorder,
		now:       time.Now,
	}
}

func (s *AdSpendSyncService) Start(ctx context.Context) error {
	return s.start(ctx, s.syncAllStores)
}

func (s *AdSpendSyncService) TriggerManualSync() {
	s.triggerManual(s.syncAllStores)
}

func (s *AdSpendSyncService) GetStatus() map[string]any {
	status := s.status()
	status["sync_lookback_days"] = s.config.LookbackDays
	status["sync_max_concurrent"] = s.config.MaxConcurrentJobs
	status["sync_request_delay_s"] = s.config.RequestDelaySeconds
	return status
}

func (s *AdSpendSyncService) syncAllStores(ctx context.Context) error {
	startTime := time.Now()

	stores, err := s.stores.ListStoresWithAdAccount(ctx)
	if err != nil {
		return fmt.Errorf("erro ao listar lojas com conta de anúncios: %w", err)
	}

	if len(stores) == 0 {
		logrus.Info("Nenhuma loja com conta de anúncios para sincronizar")
		return nil
	}

	var (
		g    errgroup.Group
		errs = make([]error, len(stores))
	)
	g.SetLimit(s.config.MaxConcurrentJobs)

	for i, store := range stores {
		g.Go(func() error {
			errs[i] = s.syncStore(ctx, store)
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
			return nil
		})
	}
	_ = g.Wait()

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"stores":   len(stores),
		"days":     s.config.LookbackDays,
	}).Info("Sincronização de gasto em anúncios concluída")

	return errors.Join(errs...)
}

// syncStore importa a janela que termina hoje no fuso da loja
func (s *AdSpendSyncService) syncStore(ctx context.Context, store *domain.Store) error {
	until := utils.DayIn(s.now(), store.Location())
	since := until.AddDate(0, 0, -(s.config.LookbackDays - 1))

	logger := logrus.WithFields(logrus.Fields{
		"store_id":   store.ID,
		"account_id": store.MetaAdAccountID,
		"start_date": since.Format(time.DateOnly),
		"end_date":   until.Format(time.DateOnly),
	})

	facts, err := s.fetcher.GetDailySpend(ctx, store.MetaAdAccountID, since, until)
	if err != nil {
		logger.WithError(err).Error("Erro ao obter gasto em anúncios do Meta")
		return fmt.Errorf("loja %s: %w", store.ID, err)
	}

	recorded := 0
	var errs []error
	for _, fact := range facts {
		_, err := s.recorder.RecordAdSpend(ctx, store.ID, adspending.AdSpendInput{
			Provider:     fact.Provider,
			CampaignID:   fact.CampaignID,
			CampaignName: fact.CampaignName,
			Date:         fact.Date,
			Spend:        fact.Spend,
			Currency:     fact.Currency,
		})
		if err != nil {
			logger.WithFields(logrus.Fields{
				"campaign_id": fact.CampaignID,
				"date":        fact.Date.Format(time.DateOnly),
			}).WithError(err).Error("Erro ao registrar gasto em anúncios")
			errs = append(errs, err)
			continue
		}
		recorded++
	}

	logger.WithFields(logrus.Fields{
		"rows":     len(facts),
		"recorded": recorded,
	}).Info("Gasto em anúncios sincronizado para loja")

	return errors.Join(errs...)
}
