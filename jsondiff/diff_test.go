package jsondiff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff_EqualValuesProduceNoChange(t *testing.T) {
	tests := []Value{
		nil,
		true,
		"hello",
		json.Number("42"),
		[]any{"a", json.Number("1")},
		map[string]any{"a": "b", "n": json.Number("7")},
	}
	for _, v := range tests {
		d := Diff(v, Clone(v))
		require.True(t, d.IsNoChange(), "diff of %v against itself", v)
	}
}

func TestDiff_PatchTransformsOldIntoNew(t *testing.T) {
	tests := map[string]struct {
		old Value
		new Value
	}{
		"scalar replace":       {old: "", new: "China"},
		"null to string":       {old: nil, new: "China"},
		"string to null":       {old: "x", new: nil},
		"number change":        {old: json.Number("1"), new: json.Number("2")},
		"type change":          {old: "1", new: json.Number("1")},
		"member added":         {old: map[string]any{}, new: map[string]any{"a": "1"}},
		"member removed":       {old: map[string]any{"a": "1"}, new: map[string]any{}},
		"member changed":       {old: map[string]any{"a": "1"}, new: map[string]any{"a": "2"}},
		"nested object":        {old: map[string]any{"a": map[string]any{"b": "1"}}, new: map[string]any{"a": map[string]any{"b": "2", "c": "3"}}},
		"array element change": {old: []any{"a", "b"}, new: []any{"a", "c"}},
		"array length change":  {old: []any{"a"}, new: []any{"a", "b"}},
		"array to object":      {old: []any{"a"}, new: map[string]any{"a": "1"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d := Diff(test.old, test.new)
			patched, err := Patch(test.old, d)
			require.NoError(t, err)
			require.True(t, Equal(test.new, patched), "patch gave %v, want %v", patched, test.new)
		})
	}
}

func TestDiff_RollbackIsExactInverseOfPatch(t *testing.T) {
	corpus := []Value{
		nil,
		"",
		"hello",
		json.Number("18446744073709551615"), // max uint64 must survive
		[]any{json.Number("1"), "two", nil},
		map[string]any{},
		map[string]any{"name": "", "balances": []any{}},
		map[string]any{
			"id":   "c1",
			"apis": []any{"init", "say"},
			"storage_types": []any{
				[]any{"name", json.Number("2")},
			},
			"nested": map[string]any{"deep": map[string]any{"x": json.Number("1")}},
		},
	}
	for _, old := range corpus {
		for _, new := range corpus {
			d := Diff(old, new)
			patched, err := Patch(old, d)
			require.NoError(t, err)
			require.True(t, Equal(new, patched))

			rolled, err := Rollback(patched, d)
			require.NoError(t, err)

			oldBytes, err := Marshal(old)
			require.NoError(t, err)
			rolledBytes, err := Marshal(rolled)
			require.NoError(t, err)
			require.Equal(t, string(oldBytes), string(rolledBytes))
		}
	}
}

func TestDiff_WireFormSurvivesSerialization(t *testing.T) {
	old := map[string]any{"a": "1", "gone": true, "arr": []any{json.Number("1"), json.Number("2")}}
	new := map[string]any{"a": "2", "fresh": nil, "arr": []any{json.Number("1"), json.Number("3")}}

	d := Diff(old, new)
	encoded, err := Marshal(d.Value())
	require.NoError(t, err)

	decoded, err := Unmarshal(encoded)
	require.NoError(t, err)
	restored := DiffFromValue(decoded)

	patched, err := Patch(old, restored)
	require.NoError(t, err)
	require.True(t, Equal(new, patched))

	rolled, err := Rollback(patched, restored)
	require.NoError(t, err)
	require.True(t, Equal(old, rolled))
}

func TestDiff_PatchDoesNotModifyInput(t *testing.T) {
	old := map[string]any{"a": map[string]any{"b": "1"}}
	new := map[string]any{"a": map[string]any{"b": "2"}}
	d := Diff(old, new)

	_, err := Patch(old, d)
	require.NoError(t, err)
	require.Equal(t, "1", old["a"].(map[string]any)["b"])
}

func TestPatch_RejectsMalformedDiffs(t *testing.T) {
	tests := map[string]Value{
		"unknown marker":  map[string]any{"__bogus": "x"},
		"non-object node": "not a diff",
		"short replace":   map[string]any{"__replaced": []any{"only-old"}},
		"bad array index": map[string]any{"__array": map[string]any{"no": nil}},
	}
	for name, diff := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Patch([]any{"x"}, DiffFromValue(diff))
			require.Error(t, err)
		})
	}
}

func TestUnmarshal_UsesNumberForNumericValues(t *testing.T) {
	v, err := Unmarshal([]byte(`{"amount": 18446744073709551615}`))
	require.NoError(t, err)
	obj, ok := AsObject(v)
	require.True(t, ok)
	require.Equal(t, uint64(18446744073709551615), AsUint64(obj["amount"]))
}

func TestUnmarshal_RejectsTrailingData(t *testing.T) {
	_, err := Unmarshal([]byte(`{} {}`))
	require.Error(t, err)
}

func TestMarshal_ObjectKeysAreSorted(t *testing.T) {
	b, err := Marshal(map[string]any{"b": json.Number("1"), "a": json.Number("2"), "aa": json.Number("3")})
	require.NoError(t, err)
	require.Equal(t, `{"a":2,"aa":3,"b":1}`, string(b))
}
