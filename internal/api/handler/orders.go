package handler

import (
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/profit-engine/internal/usecases/billing"
	"github.com/vfg2006/profit-engine/internal/usecases/processing"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
	"github.com/vfg2006/profit-engine/pkg/log"
)

// maxOrderPayloadBytes limita o corpo de um webhook de pedido
const maxOrderPayloadBytes = 1 << 20

// ProcessOrder recebe o payload bruto do webhook e devolve a contribuição do pedido.
// Reentregas do mesmo pedido respondem 200; a primeira ingestão responde 201.
func ProcessOrder(processor processing.OrderProcessor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		storeID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if storeID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da loja é obrigatório", nil)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOrderPayloadBytes))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		result, err := processor.ProcessOrderEvent(r.Context(), storeID, payload)
		if err != nil {
			code := processing.CodeFor(err)

			var limitErr *billing.PlanLimitError
			if errors.As(err, &limitErr) {
				logger.WithFields(log.Fields{
					"store_id":    storeID,
					"merchant_id": limitErr.MerchantID,
				}).Warn("orders: limite do plano atingido")

				apiErrors.WriteError(w, code, "Limite mensal de pedidos do plano atingido", map[string]any{
					"limit":    limitErr.Limit,
					"usage":    limitErr.Usage,
					"incoming": limitErr.Incoming,
				})
				return
			}

			logger.WithError(err).WithField("store_id", storeID).Error("orders: erro ao processar pedido")
			apiErrors.WriteError(w, code, err.Error(), nil)
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("orders: erro ao codificar resposta")
		}
	})
}
