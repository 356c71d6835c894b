package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Property is a single keyword argument attached to an element, support or load.
//
// Value holds one of: nil, bool, int, float64, string, []any, or
// geometry.Segment (only for a bound location, never persisted).
type Property struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Properties is an ordered keyword map.
// Order is the order in which the keywords were written in the drawing.
type Properties []Property

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (p Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Without returns a copy of p with the given keys removed, or nil if nothing is left.
func (p Properties) Without(keys ...string) Properties {
	if len(p) == 0 {
		return nil
	}
	out := make(Properties, 0, len(p))
	for _, prop := range p {
		drop := false
		for _, k := range keys {
			if prop.Key == k {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, prop)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Prepend returns a copy of p with key=value inserted as the first entry.
func (p Properties) Prepend(key string, value any) Properties {
	out := make(Properties, 0, len(p)+1)
	out = append(out, Property{Key: key, Value: value})
	return append(out, p...)
}

// Keys returns the keywords in order.
func (p Properties) Keys() []string {
	keys := make([]string, len(p))
	for i, prop := range p {
		keys[i] = prop.Key
	}
	return keys
}

// Float returns the numeric value stored under key.
// ok is false when the key is absent; an error is returned when it is
// present but not a number.
func (p Properties) Float(key string) (v float64, ok bool, err error) {
	raw, ok := p.Get(key)
	if !ok {
		return 0, false, nil
	}
	v, isNum := AsFloat(raw)
	if !isNum {
		return 0, true, fmt.Errorf("%s: expected number, got %T", key, raw)
	}
	return v, true, nil
}

// String formats the properties as "k1=v1, k2=v2".
func (p Properties) String() string {
	parts := make([]string, len(p))
	for i, prop := range p {
		parts[i] = fmt.Sprintf("%s=%v", prop.Key, prop.Value)
	}
	return strings.Join(parts, ", ")
}

// AsFloat converts an int or float64 property value to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// maxExactInt is the largest magnitude at which every integer is a float64.
const maxExactInt = 1 << 53

// AsInt converts an int, or a float64 with no fractional part, to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if math.Abs(n) <= maxExactInt && n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

// encodeProperties serialises properties for a TEXT column.
func encodeProperties(p Properties) (string, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding properties: %w", err)
	}
	return string(b), nil
}

// decodeProperties is the inverse of encodeProperties.
// Integral JSON numbers without a fraction or exponent decode as int.
func decodeProperties(s string) (Properties, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw []Property
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	for i := range raw {
		raw[i].Value = normaliseJSONValue(raw[i].Value)
	}
	return Properties(raw), nil
}

func normaliseJSONValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := x.Int64(); err == nil {
				return int(i)
			}
		}
		f, err := x.Float64()
		if err != nil {
			return s
		}
		return f
	case []any:
		for i := range x {
			x[i] = normaliseJSONValue(x[i])
		}
		return x
	default:
		return v
	}
}
