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

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// levelDbStore implements Store using LevelDB. LevelDB snapshots are
// consistent point-in-time views, which is exactly the contract Snapshot
// requires.
type levelDbStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (or creates) a LevelDB-backed store at the given path.
func OpenLevelDB(path string) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &levelDbStore{db: db}, nil
}

func (s *levelDbStore) Get(key []byte) ([]byte, error) {
	data, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *levelDbStore) Put(key []byte, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *levelDbStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *levelDbStore) Snapshot() (Snapshot, error) {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &levelDbSnapshot{snap: snap}, nil
}

func (s *levelDbStore) Close() error {
	return s.db.Close()
}

type levelDbSnapshot struct {
	snap *leveldb.Snapshot
}

func (s *levelDbSnapshot) Get(key []byte) ([]byte, error) {
	data, err := s.snap.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *levelDbSnapshot) Release() {
	s.snap.Release()
}
