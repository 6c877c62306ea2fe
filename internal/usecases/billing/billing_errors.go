package billing

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded   = errors.New("monthly order capacity exceeded")
	ErrMerchantIDRequired = errors.New("merchant ID is required")
	ErrOverageNotFound    = errors.New("overage record not found")
	ErrChargeFailed       = errors.New("overage charge failed")
)

const CodeCapacityExceeded = "CAP_001"

// PlanLimitError sinaliza que o plano não comporta os pedidos e não há excedente configurado.
// Aborta a transação do pedido.
type PlanLimitError struct {
	Kind       string
	MerchantID string
	Limit      int64
	Usage      int64
	Incoming   int64
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("%s: merchant %s usage %d + %d exceeds limit %d",
		ErrCapacityExceeded.Error(), e.MerchantID, e.Usage, e.Incoming, e.Limit)
}

func (e *PlanLimitError) Unwrap() error {
	return ErrCapacityExceeded
}

func (e *PlanLimitError) Code() string {
	return CodeCapacityExceeded
}

func NewPlanLimitError(merchantID string, limit, usage, incoming int64) *PlanLimitError {
	return &PlanLimitError{
		Kind:       "capacity",
		MerchantID: merchantID,
		Limit:      limit,
		Usage:      usage,
		Incoming:   incoming,
	}
}
