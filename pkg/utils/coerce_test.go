package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "Texto com espaços", input: " 10.50 ", expected: "10.5"},
		{name: "Número do decoder", input: json.Number("42.1"), expected: "42.1"},
		{name: "Formato money", input: map[string]any{"shop_money": map[string]any{"amount": "7.25"}}, expected: "7.25"},
		{name: "Texto inválido", input: "dez", expected: "0"},
		{name: "Expoente gigante", input: "1e100000000", expected: "0"},
		{name: "Expoente negativo gigante", input: "1e-100000000", expected: "0"},
		{name: "Número do decoder fora do float64", input: json.Number("1e400"), expected: "0"},
		{name: "Infinito", input: math.Inf(1), expected: "0"},
		{name: "NaN", input: math.NaN(), expected: "0"},
		{name: "Limite da coluna", input: "99999999999999.9999", expected: "99999999999999.9999"},
		{name: "Acima do limite da coluna", input: "100000000000000", expected: "0"},
		{name: "Fração pequena preservada", input: "0.0001", expected: "0.0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToDecimal(tt.input)
			assert.True(t, result.Equal(decimal.RequireFromString(tt.expected)), "got %s", result)
		})
	}
}

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(3), ToInt64("3"))
	assert.Equal(t, int64(2), ToInt64("2.0"))
	assert.Equal(t, int64(0), ToInt64("1e100000000"))
	assert.Equal(t, int64(0), ToInt64(math.Inf(-1)))
	assert.Equal(t, int64(0), ToInt64(1e300))
}

func TestInMoneyRange(t *testing.T) {
	assert.True(t, InMoneyRange(decimal.Zero))
	assert.True(t, InMoneyRange(decimal.RequireFromString("123.45")))
	assert.False(t, InMoneyRange(decimal.RequireFromString("1e100000000")))
	assert.False(t, InMoneyRange(decimal.RequireFromString("-1e20")))
}
