package utils

import (
	"github.com/shopspring/decimal"
)

// RoundMoney arredonda valores monetários para duas casas
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SafeDiv divide retornando zero quando o divisor é zero
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

const (
	// NUMERIC(18,4): 14 dígitos inteiros
	maxMoneyIntegerDigits = 14
	minMoneyMagnitude     = -18
)

// BoundMoney zera valores fora da faixa monetária persistível.
// Usa apenas expoente e número de dígitos, sem reescalar o valor.
func BoundMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	if magnitude > maxMoneyIntegerDigits || magnitude < minMoneyMagnitude {
		return decimal.Zero
	}
	return d
}

// InMoneyRange indica se o valor cabe na faixa monetária persistível
func InMoneyRange(d decimal.Decimal) bool {
	return d.IsZero() || !BoundMoney(d).IsZero()
}
