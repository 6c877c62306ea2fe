package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"github.com/vfg2006/profit-engine/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeAdSpend        = "ad-spend"
	CronJobTypeOverageCharge  = "overage-charge"
	CronJobTypeRetentionPurge = "retention-purge"
	CronJobTypeAll            = "all"
)

// CronJob é uma tarefa agendada que também pode ser disparada manualmente
type CronJob interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	AdSpendSyncService       CronJob
	OverageChargeSyncService CronJob
	RetentionPurgeService    CronJob
}

func (s CronJobServices) byType() map[string]CronJob {
	jobs := map[string]CronJob{}
	if s.AdSpendSyncService != nil {
		jobs[CronJobTypeAdSpend] = s.AdSpendSyncService
	}
	if s.OverageChargeSyncService != nil {
		jobs[CronJobTypeOverageCharge] = s.OverageChargeSyncService
	}
	if s.RetentionPurgeService != nil {
		jobs[CronJobTypeRetentionPurge] = s.RetentionPurgeService
	}
	return jobs
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		jobs := services.byType()

		switch cronType {
		case CronJobTypeAll:
			for _, job := range jobs {
				job.TriggerManualSync()
			}
		case CronJobTypeAdSpend, CronJobTypeOverageCharge, CronJobTypeRetentionPurge:
			job, ok := jobs[cronType]
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de cron não disponível", map[string]string{"type": cronType})
				return
			}
			job.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: ad-spend, overage-charge, retention-purge, all", nil)
			return
		}

		log.ForContext(r.Context()).WithField("cron_type", cronType).Info("Cron job disparada manualmente")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		for name, job := range services.byType() {
			status[name] = job.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}
