package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Conversões defensivas: valores ausentes ou malformados viram zero/vazio, nunca erro

func ToDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return decimal.Zero
		}
		return BoundMoney(decimal.NewFromFloat(val))
	case int:
		return BoundMoney(decimal.NewFromInt(int64(val)))
	case int64:
		return BoundMoney(decimal.NewFromInt(val))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return BoundMoney(d)
	case map[string]any:
		// formato "price_set" / "money": {"amount": "10.00"}
		if amount, ok := val["amount"]; ok {
			return ToDecimal(amount)
		}
		if shop, ok := val["shop_money"]; ok {
			return ToDecimal(shop)
		}
	case fmt.Stringer:
		return ToDecimal(val.String())
	}
	return decimal.Zero
}

func ToInt64(v any) int64 {
	switch val := v.(type) {
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) || math.Abs(val) >= math.MaxInt64 {
			return 0
		}
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return i
		}
		return ToDecimal(val).IntPart()
	case fmt.Stringer:
		return ToInt64(val.String())
	}
	return 0
}

func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	}
	return ""
}

func ToBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(val))
		return b
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func ToTime(v any) (time.Time, bool) {
	s := ToString(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func ToMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

func ToSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// First retorna o primeiro valor não vazio entre as chaves
func First(m map[string]any, keys ...string) any {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

// Dig percorre mapas aninhados
func Dig(m map[string]any, path ...string) any {
	var current any = m
	for _, key := range path {
		next := ToMap(current)
		if next == nil {
			return nil
		}
		current = next[key]
	}
	return current
}
