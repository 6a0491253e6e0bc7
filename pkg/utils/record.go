package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is a loosely typed JSON object as decoded from an external API.
type Record = map[string]any

// Truthy reports whether v would count as present: nil, empty strings,
// false and numeric zero do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	default:
		return true
	}
}

// First returns the first truthy value among keys.
func First(rec Record, keys ...string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := rec[k]; ok && Truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// AsString renders scalar values as strings. Integral floats lose their ".0".
func AsString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// AsInt64 coerces numbers and numeric strings, rounding fractions.
func AsInt64(v any) (int64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// AsMap returns v as a Record when it is a JSON object.
func AsMap(v any) (Record, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice returns v as a list when it is a JSON array.
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// StringField returns the first key that renders as a non-empty string.
func StringField(rec Record, keys ...string) string {
	for _, k := range keys {
		if v, ok := First(rec, k); ok {
			if s, ok := AsString(v); ok {
				return s
			}
		}
	}
	return ""
}

// IntField returns the first key that coerces to a non-zero integer.
func IntField(rec Record, keys ...string) (int64, bool) {
	for _, k := range keys {
		if v, ok := First(rec, k); ok {
			if i, ok := AsInt64(v); ok {
				return i, true
			}
		}
	}
	return 0, false
}

// SameID compares two identifiers numerically when both are numbers,
// falling back to exact string equality.
func SameID(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a == b
}
