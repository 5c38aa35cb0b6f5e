package rawval

import "encoding/json"

// Value is a dynamically typed view over a decoded JSON tree. Site-controlled
// payloads move fields around between releases, so every accessor propagates
// absence instead of failing: Get on a missing path returns an absent Value,
// and the typed accessors return zero values for anything that doesn't match.
type Value struct {
	v       interface{}
	present bool
}

// Absent is the sentinel returned for any path that does not resolve.
var Absent = Value{}

// From wraps an already-decoded value (maps, slices, numbers, strings).
func From(v interface{}) Value {
	if v == nil {
		return Value{v: nil, present: true}
	}
	return Value{v: v, present: true}
}

// Parse decodes raw JSON into a Value.
func Parse(data []byte) (Value, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return Absent, err
	}
	return From(v), nil
}

// Exists reports whether the value is present and non-null.
func (v Value) Exists() bool {
	return v.present && v.v != nil
}

// Get walks nested object keys, returning Absent as soon as a step fails.
func (v Value) Get(path ...string) Value {
	cur := v
	for _, key := range path {
		if !cur.present {
			return Absent
		}
		obj, ok := cur.v.(map[string]interface{})
		if !ok {
			return Absent
		}
		next, ok := obj[key]
		if !ok {
			return Absent
		}
		cur = From(next)
	}
	return cur
}

// Array returns the element values of a JSON array, or nil for anything else.
func (v Value) Array() []Value {
	arr, ok := v.v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Value, len(arr))
	for i, el := range arr {
		out[i] = From(el)
	}
	return out
}

// Index returns the i-th element of a JSON array, or Absent.
func (v Value) Index(i int) Value {
	arr, ok := v.v.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return Absent
	}
	return From(arr[i])
}

func (v Value) String() string {
	s, _ := v.v.(string)
	return s
}

// Float returns the numeric value. Decoded JSON numbers arrive as float64,
// but values coming out of a browser evaluation may already be Go ints.
func (v Value) Float() float64 {
	switch n := v.v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func (v Value) Int() int64 {
	return int64(v.Float())
}

func (v Value) Bool() bool {
	b, _ := v.v.(bool)
	return b
}
