package adspending

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

type AdSpendRecorder interface {
	RecordAdSpend(ctx context.Context, storeID string, input AdSpendInput) (*RecordResult, error)
}

type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error)
}

// DateRecomputer refaz a atribuição dos pedidos de um dia
type DateRecomputer interface {
	RecomputeForDate(ctx context.Context, store *domain.Store, date time.Time) (int, error)
}

type AdSpendInput struct {
	Provider     string          `json:"provider"`
	CampaignID   string          `json:"campaign_id"`
	CampaignName string          `json:"campaign_name"`
	Date         time.Time       `json:"date"`
	Spend        decimal.Decimal `json:"spend"`
	Currency     string          `json:"currency"`
}

type RecordResult struct {
	StoreID     string          `json:"store_id"`
	Provider    string          `json:"provider"`
	CampaignID  string          `json:"campaign_id"`
	Date        time.Time       `json:"date"`
	Spend       decimal.Decimal `json:"spend"`
	Delta       decimal.Decimal `json:"delta"`
	Currency    string          `json:"currency"`
	Reallocated int             `json:"reallocated_orders"`
}
