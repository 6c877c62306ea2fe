package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/usecases/adspending"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

type adSpendRequest struct {
	Provider     string          `json:"provider"`
	CampaignID   string          `json:"campaign_id"`
	CampaignName string          `json:"campaign_name"`
	Date         string          `json:"date"`
	Spend        decimal.Decimal `json:"spend"`
	Currency     string          `json:"currency"`
}

func RecordAdSpend(recorder adspending.AdSpendRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da loja é obrigatório", nil)
			return
		}

		var request adSpendRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		date, err := time.Parse(utils.DateLayout, request.Date)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Data inválida. Use o formato AAAA-MM-DD", nil)
			return
		}

		result, err := recorder.RecordAdSpend(r.Context(), storeID, adspending.AdSpendInput{
			Provider:     request.Provider,
			CampaignID:   request.CampaignID,
			CampaignName: request.CampaignName,
			Date:         date,
			Spend:        request.Spend,
			Currency:     request.Currency,
		})
		if err != nil {
			logger.WithError(err).WithField("store_id", storeID).Error("ad-spend: erro ao registrar gasto")

			switch {
			case errors.Is(err, adspending.ErrStoreIDRequired):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
			case errors.Is(err, adspending.ErrStoreNotFound):
				apiErrors.WriteError(w, apiErrors.ErrStoreNotFound, err.Error(), nil)
			case errors.Is(err, adspending.ErrUnknownProvider),
				errors.Is(err, adspending.ErrInvalidDate),
				errors.Is(err, adspending.ErrNegativeSpend),
				errors.Is(err, adspending.ErrSpendOutOfRange):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			case errors.Is(err, adspending.ErrCurrencyConversion):
				apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar gasto em anúncios", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("ad-spend: erro ao codificar resposta")
		}
	})
}
