// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package jsondiff computes reversible structural diffs between JSON values.
// A diff records both the old and the new value of every changed location,
// so applying it forward (Patch) and backward (Rollback) are exact inverses:
// Rollback(Patch(v, d), d) == v for any value v the diff was computed from.
package jsondiff

import (
	"strconv"

	"github.com/uvmlabs/contractstore/common"
)

const (
	// ErrInvalidDiff indicates a diff value that does not follow the wire format.
	ErrInvalidDiff = common.ConstError("jsondiff: invalid diff value")
	// ErrTypeMismatch indicates a diff applied to a value of the wrong shape.
	ErrTypeMismatch = common.ConstError("jsondiff: diff does not match value")
)

// Wire format markers. A diff value is either JSON null (no change) or an
// object carrying exactly one of these keys.
const (
	keyReplaced = "__replaced" // [old, new]
	keyObject   = "__object"   // {key: child diff}
	keyArray    = "__array"    // {"<index>": child diff}, same-length arrays only
	keyAdded    = "__added"    // value, object member insertion
	keyRemoved  = "__removed"  // value, object member removal
)

// DiffResult is a computed diff between two JSON values. The zero diff (a nil
// inner value) means no change.
type DiffResult struct {
	value Value
}

// DiffFromValue reconstructs a DiffResult from its wire form, as produced by
// Value. It performs no validation; Patch and Rollback report malformed
// diffs when applied.
func DiffFromValue(v Value) *DiffResult {
	return &DiffResult{value: Clone(v)}
}

// Value returns the JSON-encodable wire form of the diff.
func (d *DiffResult) Value() Value {
	if d == nil {
		return nil
	}
	return Clone(d.value)
}

// IsNoChange reports whether the diff represents no change at all.
func (d *DiffResult) IsNoChange() bool {
	return d == nil || d.value == nil
}

// Diff computes a reversible diff transforming old into new.
func Diff(old, new Value) *DiffResult {
	return &DiffResult{value: diffValue(old, new)}
}

func diffValue(old, new Value) Value {
	if Equal(old, new) {
		return nil
	}
	if oldObj, ok := AsObject(old); ok {
		if newObj, ok := AsObject(new); ok {
			return diffObject(oldObj, newObj)
		}
	}
	if oldArr, ok := AsArray(old); ok {
		if newArr, ok := AsArray(new); ok && len(oldArr) == len(newArr) {
			return diffArray(oldArr, newArr)
		}
	}
	return map[string]any{keyReplaced: []any{Clone(old), Clone(new)}}
}

func diffObject(old, new map[string]any) Value {
	changes := map[string]any{}
	for k, oldV := range old {
		newV, ok := new[k]
		if !ok {
			changes[k] = map[string]any{keyRemoved: Clone(oldV)}
		} else if !Equal(oldV, newV) {
			changes[k] = diffValue(oldV, newV)
		}
	}
	for k, newV := range new {
		if _, ok := old[k]; !ok {
			changes[k] = map[string]any{keyAdded: Clone(newV)}
		}
	}
	return map[string]any{keyObject: changes}
}

func diffArray(old, new []any) Value {
	changes := map[string]any{}
	for i := range old {
		if !Equal(old[i], new[i]) {
			changes[strconv.Itoa(i)] = diffValue(old[i], new[i])
		}
	}
	return map[string]any{keyArray: changes}
}

// Patch applies the diff forward, transforming the old value into the new
// one. The input value is not modified.
func Patch(v Value, d *DiffResult) (Value, error) {
	if d.IsNoChange() {
		return Clone(v), nil
	}
	return applyValue(Clone(v), d.value, false)
}

// Rollback applies the diff backward, transforming the new value back into
// the old one. The input value is not modified.
func Rollback(v Value, d *DiffResult) (Value, error) {
	if d.IsNoChange() {
		return Clone(v), nil
	}
	return applyValue(Clone(v), d.value, true)
}

// applyValue applies a single diff node to v. With reverse set, the roles of
// old and new are swapped throughout.
func applyValue(v Value, diff Value, reverse bool) (Value, error) {
	if diff == nil {
		return v, nil
	}
	node, ok := AsObject(diff)
	if !ok {
		return nil, ErrInvalidDiff
	}
	switch {
	case has(node, keyReplaced):
		pair, ok := AsArray(node[keyReplaced])
		if !ok || len(pair) != 2 {
			return nil, ErrInvalidDiff
		}
		if reverse {
			return Clone(pair[0]), nil
		}
		return Clone(pair[1]), nil

	case has(node, keyObject):
		changes, ok := AsObject(node[keyObject])
		if !ok {
			return nil, ErrInvalidDiff
		}
		obj, ok := AsObject(v)
		if !ok {
			if v != nil {
				return nil, ErrTypeMismatch
			}
			obj = map[string]any{}
		}
		for k, child := range changes {
			if err := applyMember(obj, k, child, reverse); err != nil {
				return nil, err
			}
		}
		return obj, nil

	case has(node, keyArray):
		changes, ok := AsObject(node[keyArray])
		if !ok {
			return nil, ErrInvalidDiff
		}
		arr, ok := AsArray(v)
		if !ok {
			return nil, ErrTypeMismatch
		}
		for k, child := range changes {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(arr) {
				return nil, ErrInvalidDiff
			}
			next, err := applyValue(arr[i], child, reverse)
			if err != nil {
				return nil, err
			}
			arr[i] = next
		}
		return arr, nil

	default:
		return nil, ErrInvalidDiff
	}
}

func applyMember(obj map[string]any, key string, diff Value, reverse bool) error {
	node, ok := AsObject(diff)
	if !ok {
		return ErrInvalidDiff
	}
	add, remove := keyAdded, keyRemoved
	if reverse {
		add, remove = remove, add
	}
	switch {
	case has(node, add):
		obj[key] = Clone(node[add])
	case has(node, remove):
		delete(obj, key)
	default:
		next, err := applyValue(obj[key], diff, reverse)
		if err != nil {
			return err
		}
		obj[key] = next
	}
	return nil
}

func has(obj map[string]any, key string) bool {
	_, ok := obj[key]
	return ok
}
