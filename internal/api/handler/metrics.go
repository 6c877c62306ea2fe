package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/insighting"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

// GetMetricsReport devolve a série diária do ledger. Parâmetros opcionais:
// start_date, end_date (AAAA-MM-DD), channel, sku e currency.
func GetMetricsReport(reporter insighting.MetricsReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da loja é obrigatório", nil)
			return
		}

		query := r.URL.Query()

		startDate, err := utils.ParseDate(query.Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date inválida. Use o formato AAAA-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseDate(query.Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date inválida. Use o formato AAAA-MM-DD", nil)
			return
		}

		filters := domain.MetricsFilters{
			StartDate: *startDate,
			EndDate:   *endDate,
			Channel:   domain.Channel(query.Get("channel")),
			SKU:       query.Get("sku"),
			Currency:  query.Get("currency"),
		}

		report, err := reporter.GetMetricsReport(r.Context(), storeID, filters)
		if err != nil {
			logger.WithError(err).WithField("store_id", storeID).Error("metrics: erro ao gerar relatório")

			switch {
			case errors.Is(err, insighting.ErrStoreIDRequired):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
			case errors.Is(err, insighting.ErrStoreNotFound):
				apiErrors.WriteError(w, apiErrors.ErrStoreNotFound, err.Error(), nil)
			case errors.Is(err, insighting.ErrInvalidDateRange),
				errors.Is(err, insighting.ErrDateRangeTooLarge),
				errors.Is(err, insighting.ErrInvalidChannel),
				errors.Is(err, insighting.ErrSKURequired):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			case errors.Is(err, insighting.ErrCurrencyConversion):
				apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar métricas", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("metrics: erro ao codificar resposta")
		}
	})
}
