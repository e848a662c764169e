// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"

	"github.com/uvmlabs/contractstore/jsondiff"
)

// OrderedJSONDigest computes a digest of a JSON value that is independent of
// object key iteration order. Every object is transformed into an array of
// [key, value] pairs with keys sorted by byte-wise comparison, arrays are
// transformed element-wise, and scalars pass through; the resulting value is
// serialized and hashed. The digest is returned in lowercase hex form.
func OrderedJSONDigest(v jsondiff.Value) (string, error) {
	encoded, err := jsondiff.Marshal(orderedForm(v))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

func orderedForm(v jsondiff.Value) jsondiff.Value {
	if obj, ok := jsondiff.AsObject(v); ok {
		keys := make([]string, 0, len(obj))
		for key := range obj {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		pairs := make([]any, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, []any{key, orderedForm(obj[key])})
		}
		return pairs
	}
	if arr, ok := jsondiff.AsArray(v); ok {
		result := make([]any, len(arr))
		for i, item := range arr {
			result[i] = orderedForm(item)
		}
		return result
	}
	return v
}

// NextRootHash chains the next root state hash from the previous one, the
// digest of the applied change, and the current block height. The three
// inputs are concatenated as ASCII text, hex digests and a decimal height,
// not as raw bytes; independent implementations must match this exactly to
// produce identical commit ids.
func NextRootHash(prev CommitID, changeDigest string, blockHeight uint64) CommitID {
	sum := sha256.Sum256([]byte(prev + changeDigest + strconv.FormatUint(blockHeight, 10)))
	return hex.EncodeToString(sum[:])
}
