// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Value is a decoded JSON value: nil, bool, json.Number, string, []any, or
// map[string]any. Values produced by Unmarshal always use json.Number for
// numbers so that 64-bit integers survive round-trips undamaged.
type Value = any

// Unmarshal decodes a JSON document into a Value.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v Value
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(Value)); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// Marshal encodes a Value as JSON. Object keys are emitted in sorted order,
// so the encoding of a given value is deterministic.
func Marshal(v Value) ([]byte, error) {
	return json.Marshal(v)
}

// Num converts an unsigned integer into its Value representation.
func Num(u uint64) json.Number {
	return json.Number(strconv.FormatUint(u, 10))
}

// Equal reports whether two values represent the same JSON document. Numbers
// are compared by their serialized form, so json.Number("7") and int(7)
// compare equal.
func Equal(a, b Value) bool {
	ab, err := Marshal(a)
	if err != nil {
		return false
	}
	bb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Clone returns a deep copy of the given value. Scalars are shared, maps and
// arrays are copied recursively.
func Clone(v Value) Value {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, e := range t {
			c[k] = Clone(e)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = Clone(e)
		}
		return c
	default:
		return v
	}
}

// AsObject returns the value as a JSON object, or false if it is none.
func AsObject(v Value) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

// AsArray returns the value as a JSON array, or false if it is none.
func AsArray(v Value) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// AsString returns the value as a string, or the empty string if the value
// is not a string.
func AsString(v Value) string {
	s, _ := v.(string)
	return s
}

// AsBool returns the value as a bool, or false if the value is not a bool.
func AsBool(v Value) bool {
	b, _ := v.(bool)
	return b
}

// AsUint64 returns the value as an unsigned integer, or zero if the value is
// not numeric or not representable as uint64.
func AsUint64(v Value) uint64 {
	switch t := v.(type) {
	case json.Number:
		u, err := strconv.ParseUint(t.String(), 10, 64)
		if err != nil {
			return 0
		}
		return u
	case float64:
		if t < 0 {
			return 0
		}
		return uint64(t)
	case int:
		if t < 0 {
			return 0
		}
		return uint64(t)
	case int64:
		if t < 0 {
			return 0
		}
		return uint64(t)
	case uint64:
		return t
	default:
		return 0
	}
}
