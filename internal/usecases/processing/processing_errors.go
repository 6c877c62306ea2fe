package processing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/profit-engine/internal/usecases/billing"
	"github.com/vfg2006/profit-engine/pkg/apiErrors"
)

var (
	// Erros de validação
	ErrStoreIDRequired = errors.New("store ID is required")
	ErrStoreNotFound   = errors.New("store not found")
	ErrInvalidPayload  = errors.New("invalid order payload")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")
)

// ProcessingError carrega o código de API e o contexto do pedido que falhou
type ProcessingError struct {
	Err        error
	Code       string
	StoreID    string
	ExternalID string
	Details    string
}

func (e *ProcessingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func NewProcessingError(err error, code, storeID, externalID, details string) *ProcessingError {
	return &ProcessingError{
		Err:        err,
		Code:       code,
		StoreID:    storeID,
		ExternalID: externalID,
		Details:    details,
	}
}

// CodeFor resolve o código de API de qualquer erro devolvido pelo serviço
func CodeFor(err error) string {
	var limitErr *billing.PlanLimitError
	if errors.As(err, &limitErr) {
		return apiErrors.ErrPlanCapacityExceeded
	}

	var procErr *ProcessingError
	if errors.As(err, &procErr) && procErr.Code != "" {
		return procErr.Code
	}

	return apiErrors.ErrInternalServer
}
