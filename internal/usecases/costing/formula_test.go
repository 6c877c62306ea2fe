package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaEvaluator_Evaluate(t *testing.T) {
	evaluator, err := NewFormulaEvaluator()
	require.NoError(t, err)

	vars := FormulaVars{
		OrderTotal:      dec("468.5"),
		Subtotal:        dec("420"),
		ShippingRevenue: dec("35"),
		Tax:             dec("28.5"),
		Discount:        dec("15"),
		Units:           3,
		Base:            dec("468.5"),
	}

	tests := []struct {
		name       string
		expression string
		expected   string
		wantErr    bool
	}{
		{name: "Percentual sobre a base", expression: "base * 0.029 + 0.30", expected: "13.8865"},
		{name: "Condicional por total", expression: "order_total > 400.0 ? 10.0 : 5.0", expected: "10"},
		{name: "Frete menos desconto", expression: "shipping_revenue - discount", expected: "20"},
		{name: "Resultado inteiro", expression: "int(units) * 2", expected: "6"},
		{name: "Expressão inválida", expression: "base *", wantErr: true},
		{name: "Resultado não numérico", expression: "base > 1.0", wantErr: true},
		{name: "Divisão por zero resulta em infinito", expression: "base / 0.0", wantErr: true},
		{name: "Zero sobre zero resulta em NaN", expression: "0.0 / 0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluator.Evaluate(tt.expression, vars)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, result.Round(4).Equal(dec(tt.expected)), "got %s", result)
		})
	}
}

func TestFormulaEvaluator_CachesPrograms(t *testing.T) {
	evaluator, err := NewFormulaEvaluator()
	require.NoError(t, err)

	_, err = evaluator.Evaluate("units * 2.0", FormulaVars{Units: 1})
	require.NoError(t, err)
	_, err = evaluator.Evaluate("units * 2.0", FormulaVars{Units: 4})
	require.NoError(t, err)

	assert.Len(t, evaluator.prgCache, 1)
}
