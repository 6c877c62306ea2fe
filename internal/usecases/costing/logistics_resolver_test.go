package costing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/profit-engine/internal/domain"
)

type fakeConverter struct {
	rate decimal.Decimal
	err  error
}

func (f fakeConverter) Convert(_ context.Context, amount decimal.Decimal, _, _ string, _ time.Time) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return amount.Mul(f.rate), nil
}

func TestLogisticsResolver_Select(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	orderAt := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	maxWeight := dec("5")

	query := LogisticsQuery{
		Provider: "correios",
		Country:  "BR",
		Region:   "SP",
		WeightKg: dec("1.2"),
		At:       orderAt,
		Currency: "BRL",
	}

	tests := []struct {
		name     string
		rules    []domain.LogisticsRule
		expected string
	}{
		{
			name:     "Sem regras - nenhuma seleção",
			rules:    nil,
			expected: "",
		},
		{
			name: "Provedor e região vencem só país",
			rules: []domain.LogisticsRule{
				{ID: "country", Country: "BR", EffectiveFrom: jan},
				{ID: "provider-region", Provider: "Correios", Region: "sp", EffectiveFrom: jan},
				{ID: "generic", EffectiveFrom: jan},
			},
			expected: "provider-region",
		},
		{
			name: "Campo preenchido e divergente exclui a regra",
			rules: []domain.LogisticsRule{
				{ID: "other-provider", Provider: "jadlog", Country: "BR", Region: "SP", EffectiveFrom: jan},
				{ID: "country", Country: "BR", EffectiveFrom: jan},
			},
			expected: "country",
		},
		{
			name: "Empate favorece a vigência mais recente",
			rules: []domain.LogisticsRule{
				{ID: "old", Country: "BR", EffectiveFrom: jan},
				{ID: "new", Country: "BR", EffectiveFrom: mar},
			},
			expected: "new",
		},
		{
			name: "Faixa de peso fora da janela é ignorada",
			rules: []domain.LogisticsRule{
				{ID: "heavy", Country: "BR", MinWeightKg: dec("5"), EffectiveFrom: jan},
				{ID: "light", MaxWeightKg: &maxWeight, EffectiveFrom: jan},
			},
			expected: "light",
		},
		{
			name: "Regra encerrada antes do pedido é ignorada",
			rules: []domain.LogisticsRule{
				{ID: "expired", Country: "BR", EffectiveFrom: jan, EffectiveTo: &mar},
			},
			expected: "",
		},
	}

	resolver := NewLogisticsResolver(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := resolver.Select(tt.rules, query)
			if tt.expected == "" {
				assert.Nil(t, selected)
				return
			}
			require.NotNil(t, selected)
			assert.Equal(t, tt.expected, selected.ID)
		})
	}
}

func TestLogisticsResolver_Resolve(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := []domain.LogisticsRule{
		{ID: "usd", Country: "US", FlatFee: dec("12"), PerKg: dec("5"), Currency: "USD", EffectiveFrom: jan},
	}
	query := LogisticsQuery{
		Country:  "US",
		WeightKg: dec("1.2"),
		At:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Currency: "USD",
	}

	t.Run("Custo fixo mais custo por kg", func(t *testing.T) {
		cost, rule := NewLogisticsResolver(nil).Resolve(context.Background(), rules, query)
		require.NotNil(t, rule)
		assert.True(t, cost.Equal(dec("18")))
	})

	t.Run("Converte para a moeda do pedido", func(t *testing.T) {
		q := query
		q.Currency = "BRL"
		cost, _ := NewLogisticsResolver(fakeConverter{rate: dec("5")}).Resolve(context.Background(), rules, q)
		assert.True(t, cost.Equal(dec("90")))
	})

	t.Run("Falha na conversão usa taxa 1", func(t *testing.T) {
		q := query
		q.Currency = "BRL"
		cost, _ := NewLogisticsResolver(fakeConverter{err: errors.New("sem cotação")}).Resolve(context.Background(), rules, q)
		assert.True(t, cost.Equal(dec("18")))
	})

	t.Run("Sem regra aplicável o custo é zero", func(t *testing.T) {
		q := query
		q.Country = "CA"
		cost, rule := NewLogisticsResolver(nil).Resolve(context.Background(), rules, q)
		assert.Nil(t, rule)
		assert.True(t, cost.IsZero())
	})
}
