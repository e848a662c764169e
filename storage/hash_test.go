package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uvmlabs/contractstore/jsondiff"
)

func TestOrderedJSONDigest_IsStableUnderKeyPermutation(t *testing.T) {
	a, err := jsondiff.Unmarshal([]byte(`{"b": 1, "a": {"y": [1, 2], "x": "v"}, "aa": null}`))
	require.NoError(t, err)
	b, err := jsondiff.Unmarshal([]byte(`{"aa": null, "a": {"x": "v", "y": [1, 2]}, "b": 1}`))
	require.NoError(t, err)

	digestA, err := OrderedJSONDigest(a)
	require.NoError(t, err)
	digestB, err := OrderedJSONDigest(b)
	require.NoError(t, err)
	require.Equal(t, digestA, digestB)
}

func TestOrderedJSONDigest_DistinguishesDifferentValues(t *testing.T) {
	a, err := OrderedJSONDigest(map[string]any{"a": "1"})
	require.NoError(t, err)
	b, err := OrderedJSONDigest(map[string]any{"a": "2"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOrderedJSONDigest_HasFixedHexForm(t *testing.T) {
	digest, err := OrderedJSONDigest("hello")
	require.NoError(t, err)
	require.Regexp(t, "^[0-9a-f]{64}$", digest)
}

func TestNextRootHash_IsPure(t *testing.T) {
	digest, err := OrderedJSONDigest(map[string]any{"k": "v"})
	require.NoError(t, err)

	first := NextRootHash(EmptyCommitID, digest, 7)
	second := NextRootHash(EmptyCommitID, digest, 7)
	require.Equal(t, first, second)
	require.Regexp(t, "^[0-9a-f]{64}$", first)
}

func TestNextRootHash_DependsOnAllInputs(t *testing.T) {
	base := NextRootHash("aa", "bb", 1)
	require.NotEqual(t, base, NextRootHash("ab", "bb", 1))
	require.NotEqual(t, base, NextRootHash("aa", "bc", 1))
	require.NotEqual(t, base, NextRootHash("aa", "bb", 2))
}

func TestNextRootHash_ChainsFromEmptySentinel(t *testing.T) {
	digest, err := OrderedJSONDigest("x")
	require.NoError(t, err)

	first := NextRootHash(EmptyCommitID, digest, 0)
	second := NextRootHash(first, digest, 0)
	require.NotEqual(t, first, second)
}
