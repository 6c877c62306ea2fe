package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OverageTier struct {
	BlockSize  int64           `json:"block_size"`
	BlockPrice decimal.Decimal `json:"block_price"`
	Currency   string          `json:"currency"`
}

// Plan com MonthlyOrderLimit negativo é ilimitado
type Plan struct {
	Name              string       `json:"name"`
	MonthlyOrderLimit int64        `json:"monthly_order_limit"`
	Overage           *OverageTier `json:"overage,omitempty"`
}

func (p Plan) Unlimited() bool {
	return p.MonthlyOrderLimit < 0
}

func (p Plan) HasOverage() bool {
	return p.Overage != nil && p.Overage.BlockSize > 0
}

type MonthlyOrderUsage struct {
	MerchantID string    `json:"merchant_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	OrderCount int64     `json:"order_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type OverageStatus string

const (
	OverageStatusPending OverageStatus = "PENDING"
	OverageStatusBilled  OverageStatus = "BILLED"
)

type OverageRecord struct {
	ID            string          `json:"id"`
	MerchantID    string          `json:"merchant_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	UnitsRequired int64           `json:"units_required"`
	UnitsBilled   int64           `json:"units_billed"`
	BlockSize     int64           `json:"block_size"`
	BlockPrice    decimal.Decimal `json:"block_price"`
	Currency      string          `json:"currency"`
	Status        OverageStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	BilledAt      *time.Time      `json:"billed_at,omitempty"`
}

// PendingUnits retorna os blocos ainda não cobrados
func (o OverageRecord) PendingUnits() int64 {
	if o.UnitsRequired <= o.UnitsBilled {
		return 0
	}
	return o.UnitsRequired - o.UnitsBilled
}
