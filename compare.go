package bunmem

import (
	"reflect"
)

// toFloat attempts to coerce a dynamic value to float64.
// JSON decoding produces float64, but callers constructing documents in Go
// commonly use int, so both families are accepted.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// compareValues orders two dynamic values. Numbers compare numerically,
// strings lexically. Any other pairing is incomparable and reports ok=false;
// callers treat incomparable values as unordered, never as an error.
func compareValues(a, b interface{}) (cmp int, ok bool) {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		default:
			return 0, true
		}
	}

	sa, aStr := a.(string)
	sb, bStr := b.(string)
	if aStr && bStr {
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}

	return 0, false
}

// valuesEqual tests strict equality between two dynamic values.
// Numeric values compare numerically regardless of the Go type carrying them
// (int 1 equals float64 1). Composite values (arrays, objects) compare
// structurally, which makes the whole-object fallback for unrecognized
// operator objects almost always false. Cross-kind comparisons (string vs
// number, bool vs string) are never equal.
func valuesEqual(a, b interface{}) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
