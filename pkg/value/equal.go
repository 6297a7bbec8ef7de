package value

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// Equal reports whether a and b are the same JSON value. Object key order is
// ignored and numbers compare by numeric value.
func Equal(a, b any) bool {
	a, b = normalize(a), normalize(b)

	switch ta := a.(type) {
	case nil:
		return b == nil
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case *big.Float:
		tb, ok := b.(*big.Float)
		return ok && ta.Cmp(tb) == 0
	case *Object:
		tb, ok := b.(*Object)
		if !ok || ta.Len() != tb.Len() {
			return false
		}
		for pair := ta.Oldest(); pair != nil; pair = pair.Next() {
			other, present := tb.Get(pair.Key)
			if !present || !Equal(pair.Value, other) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// normalize maps the accepted number and object shapes onto one representation.
func normalize(v any) any {
	switch typed := v.(type) {
	case json.Number:
		return bigNumber(typed.String())
	case int:
		return new(big.Float).SetInt64(int64(typed))
	case int64:
		return new(big.Float).SetInt64(typed)
	case float64:
		return big.NewFloat(typed)
	case map[string]any:
		obj := NewObject()
		for k, item := range typed {
			obj.Set(k, item)
		}
		return obj
	default:
		return v
	}
}

func bigNumber(s string) any {
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil {
		if parsed, perr := strconv.ParseFloat(s, 64); perr == nil {
			return big.NewFloat(parsed)
		}
		return s
	}
	return f
}

// ToPlain converts ordered objects into map[string]any recursively, leaving
// numbers as json.Number.
func ToPlain(v any) any {
	switch typed := v.(type) {
	case *Object:
		out := make(map[string]any, typed.Len())
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = ToPlain(pair.Value)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = ToPlain(item)
		}
		return out
	case int:
		return json.Number(strconv.Itoa(typed))
	case float64:
		return json.Number(strconv.FormatFloat(typed, 'g', -1, 64))
	default:
		return v
	}
}
