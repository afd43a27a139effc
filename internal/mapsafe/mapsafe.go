// Package mapsafe reads typed values out of loosely typed parameter maps
// decoded from YAML, JSON or built in code.
package mapsafe

import (
	"encoding/json"
	"math"
)

// Get returns m[key] as a T, or def when the key is missing, nil or holds
// an incompatible value. Integer and float kinds convert into each other,
// so a YAML 30, a JSON 30.0 and a json.Number "30" all satisfy an int.
func Get[T any](m map[string]any, key string, def T) T {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if t, ok := v.(T); ok {
		return t
	}

	switch any(def).(type) {
	case int:
		if n, ok := toInt(v); ok {
			return any(n).(T)
		}
	case float64:
		if f, ok := toFloat(v); ok {
			return any(f).(T)
		}
	}

	return def
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
	}

	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f), true
	}

	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}

	if n, ok := toIntExact(v); ok {
		return float64(n), true
	}

	return 0, false
}

// toIntExact converts integer kinds only.
func toIntExact(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}

	return 0, false
}
