package query

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
		str  string
	}{
		{"null", `null`, KindNull, "null"},
		{"true", `true`, KindBool, "true"},
		{"false", `false`, KindBool, "false"},
		{"int", `18`, KindInt, "18"},
		{"negative int", `-7`, KindInt, "-7"},
		{"float", `50000.5`, KindFloat, "50000.5"},
		{"exponent", `1e3`, KindFloat, "1000"},
		{"string", `"New York"`, KindString, "New York"},
		{"array", `[1, 2]`, KindComposite, "[1, 2]"},
		{"object", `{"a":1}`, KindComposite, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.in), &v))
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestValue_MarshalRoundTrip(t *testing.T) {
	in := []Value{Null(), Bool(true), Int(42), Float(2.5), String("x"), Of([]int{1, 2})}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[null,true,42,2.5,"x",[1,2]]`, string(data))

	var out []Value
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestOf(t *testing.T) {
	assert.Equal(t, Int(3), Of(3))
	assert.Equal(t, Int(3), Of(int32(3)))
	assert.Equal(t, Float(1.5), Of(float32(1.5)))
	assert.Equal(t, String("a"), Of("a"))
	assert.Equal(t, Bool(false), Of(false))
	assert.Equal(t, Null(), Of(nil))
	assert.Equal(t, Int(9), Of(Int(9)))
	assert.Equal(t, Int(12), Of(json.Number("12")))
	assert.Equal(t, Int(18), Of(uint(18)))
	assert.Equal(t, Int(math.MaxInt64), Of(uint64(math.MaxInt64)))
	assert.Equal(t, Float(float64(uint64(math.MaxUint64))), Of(uint64(math.MaxUint64)))
	assert.Equal(t, Int(4), Of(uintptr(4)))
	assert.Equal(t, KindComposite, Of(map[string]int{"a": 1}).Kind())

	s, ok := Of("abc").Str()
	assert.True(t, ok)
	assert.Equal(t, "abc", s)

	_, ok = Of(1).Str()
	assert.False(t, ok)
}

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
