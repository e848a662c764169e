// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kvstore

// Tracked wraps a Store and journals the key of every Put and Delete. The
// journal feeds Restore when an operation spanning many keys has to be
// rolled back.
type Tracked struct {
	Store
	touched [][]byte
	seen    map[string]struct{}
}

// NewTracked starts a fresh journal over the given store.
func NewTracked(store Store) *Tracked {
	return &Tracked{Store: store, seen: make(map[string]struct{})}
}

func (t *Tracked) Put(key []byte, value []byte) error {
	t.touch(key)
	return t.Store.Put(key, value)
}

func (t *Tracked) Delete(key []byte) error {
	t.touch(key)
	return t.Store.Delete(key)
}

// Touched returns the keys mutated through this wrapper, in first-touch
// order. Keys touched more than once appear once.
func (t *Tracked) Touched() [][]byte {
	return t.touched
}

func (t *Tracked) touch(key []byte) {
	if _, ok := t.seen[string(key)]; ok {
		return
	}
	t.seen[string(key)] = struct{}{}
	copied := make([]byte, len(key))
	copy(copied, key)
	t.touched = append(t.touched, copied)
}
