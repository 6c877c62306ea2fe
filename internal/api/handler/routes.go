package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/profit-engine/internal/api/handler/router"
	"github.com/vfg2006/profit-engine/internal/usecases/adspending"
	"github.com/vfg2006/profit-engine/internal/usecases/insighting"
	"github.com/vfg2006/profit-engine/internal/usecases/processing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Orders(processor processing.OrderProcessor) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/stores/:id/orders",
			Method:  http.MethodPost,
			Handler: ProcessOrder(processor),
		},
	}
}

func AdSpend(recorder adspending.AdSpendRecorder) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/stores/:id/ad-spend",
			Method:  http.MethodPost,
			Handler: RecordAdSpend(recorder),
		},
	}
}

func Metrics(reporter insighting.MetricsReporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/stores/:id/metrics",
			Method:  http.MethodGet,
			Handler: GetMetricsReport(reporter),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
