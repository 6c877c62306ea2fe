package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MetricsFilters struct {
	StartDate time.Time
	EndDate   time.Time
	Channel   Channel
	SKU       string
	Currency  string
}

type MetricsReportDay struct {
	Date     time.Time `json:"date"`
	Currency string    `json:"currency"`
	MetricValues
	ProfitAfterAdSpend decimal.Decimal `json:"profit_after_ad_spend"`
	Roas               decimal.Decimal `json:"roas"`
}

type MetricsReport struct {
	StoreID            string              `json:"store_id"`
	Channel            Channel             `json:"channel"`
	SKU                string              `json:"sku,omitempty"`
	Currency           string              `json:"currency"`
	Days               []*MetricsReportDay `json:"days"`
	Totals             MetricValues        `json:"totals"`
	ProfitAfterAdSpend decimal.Decimal     `json:"profit_after_ad_spend"`
	Roas               decimal.Decimal     `json:"roas"`
}
