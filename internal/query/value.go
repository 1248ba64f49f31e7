package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	// KindComposite holds a JSON array or object. It can be carried and
	// serialized but never bound as a SQL parameter.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindComposite:
		return "composite"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a dynamically typed scalar used as a filter operand.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  json.RawMessage
}

func Null() Value              { return Value{} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Int(i int64) Value        { return Value{kind: KindInt, i: i} }
func Float(f float64) Value    { return Value{kind: KindFloat, f: f} }
func String(s string) Value    { return Value{kind: KindString, s: s} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Bool() bool     { return v.b }
func (v Value) Int() int64     { return v.i }
func (v Value) Float() float64 { return v.f }

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// unsigned keeps n an Int while it fits int64, like JSON numbers do.
func unsigned(n uint64) Value {
	if n > math.MaxInt64 {
		return Float(float64(n))
	}
	return Int(int64(n))
}

// Of converts a Go value to a Value. Integers, floats, strings, bools, nil
// and Value itself map to their scalar kinds; anything else is stored as a
// composite through its JSON encoding.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint:
		return unsigned(uint64(t))
	case uint64:
		return unsigned(t)
	case uintptr:
		return unsigned(uint64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case json.Number:
		return numberValue(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return Value{kind: KindComposite, raw: json.RawMessage(`null`)}
		}
		return Value{kind: KindComposite, raw: raw}
	}
}

// Values converts each element with Of.
func Values[T any](xs ...T) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = Of(x)
	}
	return out
}

func numberValue(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if f, err := n.Float64(); err == nil {
		return Float(f)
	}
	return Value{kind: KindComposite, raw: json.RawMessage(n.String())}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindComposite:
		return string(v.raw)
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindComposite:
		return v.raw, nil
	default:
		return nil, fmt.Errorf("query: unknown value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("query: empty value")
	}

	switch data[0] {
	case 'n':
		*v = Null()
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[', '{':
		if !json.Valid(data) {
			return fmt.Errorf("query: invalid composite value")
		}
		*v = Value{kind: KindComposite, raw: append(json.RawMessage(nil), data...)}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return err
		}
		*v = numberValue(n)
	}
	return nil
}
