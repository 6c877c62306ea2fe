package domain

import (
	"time"

	"github.com/vfg2006/profit-engine/pkg/utils"
)

type Store struct {
	ID              string    `json:"id"`
	MerchantID      string    `json:"merchant_id"`
	Name            string    `json:"name"`
	Currency        string    `json:"currency"`
	Timezone        string    `json:"timezone"`
	MetaAdAccountID string    `json:"meta_ad_account_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Location retorna o fuso da loja usado para agrupar pedidos por dia
func (s *Store) Location() *time.Location {
	return utils.LoadLocation(s.Timezone)
}
