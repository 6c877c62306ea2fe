package costing

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// FormulaVars são as variáveis expostas às fórmulas de template
type FormulaVars struct {
	OrderTotal      decimal.Decimal
	Subtotal        decimal.Decimal
	ShippingRevenue decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	Units           int64
	Base            decimal.Decimal
}

func (v FormulaVars) activation() map[string]any {
	return map[string]any{
		"order_total":      v.OrderTotal.InexactFloat64(),
		"subtotal":         v.Subtotal.InexactFloat64(),
		"shipping_revenue": v.ShippingRevenue.InexactFloat64(),
		"tax":              v.Tax.InexactFloat64(),
		"discount":         v.Discount.InexactFloat64(),
		"units":            float64(v.Units),
		"base":             v.Base.InexactFloat64(),
	}
}

// FormulaEvaluator compila e avalia expressões CEL de custo, com cache de programas
type FormulaEvaluator struct {
	env      *cel.Env
	prgCache map[string]cel.Program
	mu       sync.RWMutex
}

func NewFormulaEvaluator() (*FormulaEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("order_total", cel.DoubleType),
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("shipping_revenue", cel.DoubleType),
		cel.Variable("tax", cel.DoubleType),
		cel.Variable("discount", cel.DoubleType),
		cel.Variable("units", cel.DoubleType),
		cel.Variable("base", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar ambiente CEL: %w", err)
	}

	return &FormulaEvaluator{
		env:      env,
		prgCache: make(map[string]cel.Program),
	}, nil
}

func (f *FormulaEvaluator) program(expression string) (cel.Program, error) {
	f.mu.RLock()
	prg, hit := f.prgCache[expression]
	f.mu.RUnlock()
	if hit {
		return prg, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if prg, hit = f.prgCache[expression]; hit {
		return prg, nil
	}

	ast, issues := f.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("erro de compilação CEL: %w", issues.Err())
	}

	prg, err := f.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("erro ao montar programa CEL: %w", err)
	}

	f.prgCache[expression] = prg
	return prg, nil
}

func (f *FormulaEvaluator) Evaluate(expression string, vars FormulaVars) (decimal.Decimal, error) {
	prg, err := f.program(expression)
	if err != nil {
		return decimal.Zero, err
	}

	out, _, err := prg.Eval(vars.activation())
	if err != nil {
		return decimal.Zero, fmt.Errorf("erro ao avaliar fórmula CEL: %w", err)
	}

	switch value := out.Value().(type) {
	case float64:
		if math.IsInf(value, 0) || math.IsNaN(value) {
			return decimal.Zero, fmt.Errorf("fórmula retornou valor não finito: %v", value)
		}
		return decimal.NewFromFloat(value), nil
	case int64:
		return decimal.NewFromInt(value), nil
	case uint64:
		return decimal.NewFromInt(int64(value)), nil
	default:
		return decimal.Zero, fmt.Errorf("fórmula não retornou número: %T", value)
	}
}
