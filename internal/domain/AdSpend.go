package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdSpendFact é o gasto de uma campanha em um dia, chave (loja, provedor, campanha, dia)
type AdSpendFact struct {
	StoreID      string          `json:"store_id"`
	Provider     string          `json:"provider"`
	CampaignID   string          `json:"campaign_id"`
	CampaignName string          `json:"campaign_name,omitempty"`
	Date         time.Time       `json:"date"`
	Spend        decimal.Decimal `json:"spend"`
	Currency     string          `json:"currency"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
