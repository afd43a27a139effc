package mapsafe

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	m := map[string]any{
		"int":       7,
		"int64":     int64(9),
		"uint64":    uint64(11),
		"float":     0.8,
		"float32":   float32(0.5),
		"float_int": 2,
		"whole":     16000.0,
		"number":    json.Number("4000"),
		"decimal":   json.Number("1.25"),
		"string":    "tts-1-hd",
		"bool":      true,
		"strings":   []string{"a", "b"},
	}

	assert.Equal(t, 7, Get(m, "int", 0))
	assert.Equal(t, 9, Get(m, "int64", 0))
	assert.Equal(t, 11, Get(m, "uint64", 0))
	assert.Equal(t, 16000, Get(m, "whole", 0))
	assert.Equal(t, 4000, Get(m, "number", 0))
	assert.Equal(t, 1, Get(m, "decimal", 0))
	assert.InDelta(t, 0.8, Get(m, "float", 0.0), 1e-9)
	assert.InDelta(t, 0.5, Get(m, "float32", 0.0), 1e-9)
	assert.InDelta(t, 2.0, Get(m, "float_int", 0.0), 1e-9)
	assert.InDelta(t, 1.25, Get(m, "decimal", 0.0), 1e-9)
	assert.Equal(t, "tts-1-hd", Get(m, "string", ""))
	assert.True(t, Get(m, "bool", false))
	assert.Equal(t, []string{"a", "b"}, Get[[]string](m, "strings", nil))
}

func TestGet_Defaults(t *testing.T) {
	m := map[string]any{
		"model": 42,
		"nil":   nil,
		"nan":   math.NaN(),
		"huge":  uint64(math.MaxUint64),
		"text":  "fast",
	}

	assert.Equal(t, "dall-e-3", Get(m, "model", "dall-e-3"))
	assert.Equal(t, "hd", Get(m, "quality", "hd"))
	assert.Equal(t, "alloy", Get(m, "nil", "alloy"))
	assert.Equal(t, 30, Get(m, "nan", 30))
	assert.Equal(t, 30, Get(m, "text", 30))
	assert.Equal(t, 1.0, Get(m, "text", 1.0))
	assert.Equal(t, 1.0, Get[float64](nil, "speed", 1.0))
	assert.False(t, Get(m, "model", false))
}
