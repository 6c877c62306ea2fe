package insighting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/internal/domain"
)

// MetricsReporter lê o ledger já agregado; nunca escreve
type MetricsReporter interface {
	GetMetricsReport(ctx context.Context, storeID string, filters domain.MetricsFilters) (*domain.MetricsReport, error)
}

type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, at time.Time) (decimal.Decimal, error)
}
