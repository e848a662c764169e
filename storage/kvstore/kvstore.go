// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package kvstore provides the ordered key-value store backing the contract
// state records, together with the snapshot and touched-key restore
// primitives used to make multi-key mutations atomic.
package kvstore

import "github.com/uvmlabs/contractstore/common"

const (
	// ErrNotFound is returned by Get for keys without a value.
	ErrNotFound = common.ConstError("not found")
)

//go:generate mockgen -source=kvstore.go -destination=kvstore_mock.go -package=kvstore

// Store is a key-value store used to persist contract state records. The
// store offers no multi-key transactions; callers achieve atomicity through
// Snapshot and Restore.
type Store interface {
	// Get returns the value stored under the given key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Put stores a value under the given key.
	Put(key []byte, value []byte) error
	// Delete removes the value stored under the given key. Deleting an
	// absent key is not an error.
	Delete(key []byte) error
	// Snapshot captures a consistent read-only view of the current state.
	Snapshot() (Snapshot, error)
	// Close releases the store. No operation may be used afterwards.
	Close() error
}

// Snapshot is a consistent read-only view of a store at one point in time.
// Snapshots must be released.
type Snapshot interface {
	// Get returns the value the snapshot holds for the key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Release frees the snapshot.
	Release()
}

// Restore rewinds the given keys of a store to the state captured by the
// snapshot: keys the snapshot holds a value for are rewritten, all others
// are deleted. Together with a journal of touched keys this is the rollback
// primitive for stores without transactions.
func Restore(store Store, snapshot Snapshot, touchedKeys [][]byte) error {
	for _, key := range touchedKeys {
		value, err := snapshot.Get(key)
		switch err {
		case nil:
			if err := store.Put(key, value); err != nil {
				return err
			}
		case ErrNotFound:
			if err := store.Delete(key); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
