package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// jobRunner concentra o agendamento e o controle de execução única de um job
type jobRunner struct {
	name                string
	cronSchedule        string
	enabled             bool
	scheduler           *gocron.Scheduler
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
}

func newJobRunner(name, cronSchedule string, enabled bool) *jobRunner {
	return &jobRunner{
		name:         name,
		cronSchedule: cronSchedule,
		enabled:      enabled,
		scheduler:    gocron.NewScheduler(time.UTC),
	}
}

// start agenda run e para o agendador quando o contexto for cancelado
func (j *jobRunner) start(ctx context.Context, run func(ctx context.Context) error) error {
	if !j.enabled {
		logrus.WithField("job", j.name).Info("Job desabilitado por configuração")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"job":  j.name,
		"cron": j.cronSchedule,
	}).Info("Iniciando agendador")

	_, err := j.scheduler.Cron(j.cronSchedule).Do(func() {
		j.execute(ctx, run)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar %s: %w", j.name, err)
	}

	j.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.WithField("job", j.name).Info("Parando agendador")
		j.scheduler.Stop()
	}()

	return nil
}

// execute ignora a chamada quando outra execução do mesmo job está em andamento
func (j *jobRunner) execute(ctx context.Context, run func(ctx context.Context) error) bool {
	j.syncMutex.Lock()
	if j.syncRunning {
		j.syncMutex.Unlock()
		logrus.WithField("job", j.name).Info("Execução já em andamento, ignorando")
		return false
	}
	j.syncRunning = true
	j.lastSyncStartedAt = time.Now()
	j.syncMutex.Unlock()

	err := run(ctx)

	j.syncMutex.Lock()
	j.syncRunning = false
	j.lastSyncCompletedAt = time.Now()
	j.lastSyncError = ""
	if err != nil {
		j.lastSyncError = err.Error()
	}
	j.syncMutex.Unlock()

	if err != nil {
		logrus.WithField("job", j.name).WithError(err).Error("Job concluído com erro")
	}

	return true
}

func (j *jobRunner) triggerManual(run func(ctx context.Context) error) {
	j.syncMutex.Lock()
	running := j.syncRunning
	j.syncMutex.Unlock()

	if running {
		logrus.WithField("job", j.name).Info("Execução já em andamento, ignorando solicitação manual")
		return
	}

	logrus.WithField("job", j.name).Info("Iniciando execução manual")
	go j.execute(context.Background(), run)
}

func (j *jobRunner) status() map[string]any {
	j.syncMutex.Lock()
	defer j.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           j.enabled,
		"sync_cron":              j.cronSchedule,
		"sync_running":           j.syncRunning,
		"last_sync_started_at":   j.lastSyncStartedAt,
		"last_sync_completed_at": j.lastSyncCompletedAt,
		"last_sync_error":        j.lastSyncError,
	}
}
