package scheduler

import (
	"context"
	"time"

	"github.com/vfg2006/profit-engine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// AdSpendFetcher busca o gasto diário por campanha de uma conta de anúncios
type AdSpendFetcher interface {
	GetDailySpend(ctx context.Context, accountID string, since, until time.Time) ([]domain.AdSpendFact, error)
}

type OverageCharger interface {
	ChargePending(ctx context.Context) (int, error)
}
