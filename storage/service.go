// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package storage implements the versioned state store for smart-contract
// execution. Contract records and storage slots live in an ordered
// key-value store, the commit history in a relational commit log. Every
// commit advances a hash-chained root state hash and stores a reversible
// diff blob under the new commit id, so any prior commit can be restored
// exactly.
package storage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/uvmlabs/contractstore/jsondiff"
	"github.com/uvmlabs/contractstore/storage/commitlog"
	"github.com/uvmlabs/contractstore/storage/kvstore"
)

// Config carries the construction parameters of a Service.
type Config struct {
	// MagicNumber is a caller-defined chain identifier. It is stored as
	// metadata only and never enters any hash.
	MagicNumber uint32
	// StoreDir is the directory of the key-value store.
	StoreDir string
	// CommitLogPath is the file path of the commit-log database.
	CommitLogPath string
}

// Option configures a Service beyond its Config.
type Option func(*Service)

// WithLogger replaces the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithKVStore replaces the LevelDB store opened at Config.StoreDir. Used by
// tests to run against an in-memory store.
func WithKVStore(store kvstore.Store) Option {
	return func(s *Service) { s.kv = store }
}

// WithCommitLog replaces the sqlite commit log opened at
// Config.CommitLogPath. Used by tests to inject failures into the
// cross-store transaction protocol.
func WithCommitLog(log CommitLog) Option {
	return func(s *Service) { s.commits = log }
}

// Service is the top-level contract storage store. It owns both backing
// stores and routes all mutations through the cross-store transaction
// protocol, so that a failure at any point leaves both stores in their
// pre-operation state.
//
// The Service is single-writer: public operations run to completion on the
// caller's goroutine and must not be invoked concurrently.
type Service struct {
	logger  *zap.Logger
	kv      kvstore.Store
	commits CommitLog
	magic   uint32
	height  uint64
	opened  bool
}

// New opens a Service over the stores named by the given configuration.
func New(cfg Config, opts ...Option) (*Service, error) {
	s := &Service{
		logger: zap.NewNop(),
		magic:  cfg.MagicNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kv == nil {
		kv, err := kvstore.OpenLevelDB(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("%w: opening key-value store: %w", ErrStore, err)
		}
		s.kv = kv
	}
	if s.commits == nil {
		commits, err := commitlog.Open(cfg.CommitLogPath)
		if err != nil {
			errs := errors.Join(err, s.kv.Close())
			return nil, fmt.Errorf("%w: opening commit log: %w", ErrStore, errs)
		}
		s.commits = sqliteCommitLog{log: commits}
	}
	s.opened = true
	s.logger.Info("contract storage opened",
		zap.String("store_dir", cfg.StoreDir),
		zap.String("commit_log", cfg.CommitLogPath),
		zap.Uint32("magic_number", cfg.MagicNumber))
	return s, nil
}

// Close releases both backing stores. Close is idempotent.
func (s *Service) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	err := errors.Join(s.kv.Close(), s.commits.Close())
	if err != nil {
		return fmt.Errorf("%w: closing contract storage: %w", ErrStore, err)
	}
	s.logger.Info("contract storage closed")
	return nil
}

// MagicNumber returns the configured chain identifier.
func (s *Service) MagicNumber() uint32 {
	return s.magic
}

// SetCurrentBlockHeight sets the block height mixed into the ids of
// subsequent commits.
func (s *Service) SetCurrentBlockHeight(height uint64) {
	s.height = height
}

// CurrentBlockHeight returns the block height used for new commits.
func (s *Service) CurrentBlockHeight() uint64 {
	return s.height
}

// GetContractInfo returns the stored info of a contract, or nil if the
// contract does not exist.
func (s *Service) GetContractInfo(contractID string) (*ContractInfo, error) {
	snapshot, err := s.view()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	return getContractInfo(snapshot, contractID)
}

// FindContractIDByName resolves a contract name to its contract id, or the
// empty string if the name is unassigned.
func (s *Service) FindContractIDByName(name string) (string, error) {
	snapshot, err := s.view()
	if err != nil {
		return "", err
	}
	defer snapshot.Release()
	return getString(snapshot, contractNameIDKey(name))
}

// GetContractStorage returns the value of one named storage slot, or nil if
// the slot holds no value.
func (s *Service) GetContractStorage(contractID, storageName string) (jsondiff.Value, error) {
	snapshot, err := s.view()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	value, _, err := getValue(snapshot, contractStorageKey(contractID, storageName))
	return value, err
}

// GetContractBalances returns the non-zero balances of a contract, sorted
// by asset id. A missing contract yields an empty list.
func (s *Service) GetContractBalances(contractID string) ([]ContractBalance, error) {
	snapshot, err := s.view()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	value, found, err := getValue(snapshot, contractInfoKey(contractID))
	if err != nil || !found {
		return nil, err
	}
	obj, ok := jsondiff.AsObject(value)
	if !ok {
		return nil, fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, contractID)
	}
	return balancesFromJSON(obj["balances"]), nil
}

// GetCommitEvents returns all events recorded by the given commit.
func (s *Service) GetCommitEvents(commitID CommitID) ([]ContractEventInfo, error) {
	snapshot, err := s.view()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	return getEvents(snapshot, commitEventsKey(commitID))
}

// GetTransactionEvents returns the events recorded for the given
// transaction id by the commit that wrote them last.
func (s *Service) GetTransactionEvents(txid string) ([]ContractEventInfo, error) {
	snapshot, err := s.view()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()
	return getEvents(snapshot, transactionEventsKey(txid))
}

// CurrentRootStateHash returns the commit id of the currently active state
// (the cursor).
func (s *Service) CurrentRootStateHash() (CommitID, error) {
	if err := s.checkOpen(); err != nil {
		return EmptyCommitID, err
	}
	return getString(s.kv, rootStateHashKey)
}

// TopRootStateHash returns the commit id of the latest committed state (the
// tip). The cursor trails the tip only between a reset and the next commit.
func (s *Service) TopRootStateHash() (CommitID, error) {
	if err := s.checkOpen(); err != nil {
		return EmptyCommitID, err
	}
	return getString(s.kv, topRootStateHashKey)
}

// TopCommitID returns the id of the newest row of the commit log.
func (s *Service) TopCommitID() (CommitID, error) {
	if err := s.checkOpen(); err != nil {
		return EmptyCommitID, err
	}
	tip, err := s.commits.Tip()
	if err != nil {
		return EmptyCommitID, fmt.Errorf("%w: reading commit log tip: %w", ErrStore, err)
	}
	if tip == nil {
		return EmptyCommitID, nil
	}
	return tip.CommitID, nil
}

// --- internals ---

func (s *Service) checkOpen() error {
	if !s.opened {
		return ErrStoreNotOpen
	}
	return nil
}

// view captures a read snapshot for one query, so the query sees a
// consistent state even if a commit interleaves.
func (s *Service) view() (kvstore.Snapshot, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	snapshot, err := s.kv.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: capturing snapshot: %w", ErrStore, err)
	}
	return snapshot, nil
}

// writeTx bundles the two sides of an open cross-store transaction: the
// journaling wrapper over the key-value store and the commit-log
// transaction.
type writeTx struct {
	kv  *kvstore.Tracked
	log LogTx
}

// runWrite executes one mutating operation under the cross-store
// transaction protocol. On failure the commit-log transaction is rolled
// back and every touched key-value key is restored from the snapshot taken
// at entry, so no partial success is observable.
func (s *Service) runWrite(fn func(tx *writeTx) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	snapshot, err := s.kv.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: capturing snapshot: %w", ErrStore, err)
	}
	defer snapshot.Release()

	logTx, err := s.commits.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning commit log transaction: %w", ErrStore, err)
	}

	tracked := kvstore.NewTracked(s.kv)
	if err := fn(&writeTx{kv: tracked, log: logTx}); err != nil {
		s.abort(snapshot, tracked, logTx, err)
		return err
	}
	if err := logTx.Commit(); err != nil {
		err = fmt.Errorf("%w: committing commit log transaction: %w", ErrStore, err)
		s.abort(snapshot, tracked, nil, err)
		return err
	}
	return nil
}

// abort reverses the visible effects of a failed operation: the commit-log
// transaction is rolled back and the touched keys are rewound to the
// snapshot.
func (s *Service) abort(snapshot kvstore.Snapshot, tracked *kvstore.Tracked, logTx LogTx, cause error) {
	s.logger.Warn("operation failed, restoring stores",
		zap.Int("touched_keys", len(tracked.Touched())),
		zap.Error(cause))
	if logTx != nil {
		if err := logTx.Rollback(); err != nil {
			s.logger.Error("commit log rollback failed", zap.Error(err))
		}
	}
	if err := kvstore.Restore(s.kv, snapshot, tracked.Touched()); err != nil {
		s.logger.Error("key-value store restore failed", zap.Error(err))
	}
}

// reader is the common read surface of stores and snapshots.
type reader interface {
	Get(key []byte) ([]byte, error)
}

// getValue reads and decodes a JSON value. Missing keys report found=false
// without an error.
func getValue(r reader, key string) (jsondiff.Value, bool, error) {
	raw, err := r.Get([]byte(key))
	if err == kvstore.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %w", ErrStore, key, err)
	}
	value, err := jsondiff.Unmarshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%w: decoding %s: %w", ErrDataCorruption, key, err)
	}
	return value, true, nil
}

// getString reads a raw string value, defaulting to empty for missing keys.
func getString(r reader, key string) (string, error) {
	raw, err := r.Get([]byte(key))
	if err == kvstore.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrStore, key, err)
	}
	return string(raw), nil
}

func putValue(kv kvstore.Store, key string, value jsondiff.Value) error {
	raw, err := jsondiff.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return putRaw(kv, key, raw)
}

func putRaw(kv kvstore.Store, key string, value []byte) error {
	if err := kv.Put([]byte(key), value); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrStore, key, err)
	}
	return nil
}

func deleteKey(kv kvstore.Store, key string) error {
	if err := kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("%w: deleting %s: %w", ErrStore, key, err)
	}
	return nil
}

func getContractInfo(r reader, contractID string) (*ContractInfo, error) {
	value, found, err := getValue(r, contractInfoKey(contractID))
	if err != nil || !found {
		return nil, err
	}
	info := ContractInfoFromJSON(value)
	if info == nil {
		return nil, fmt.Errorf("%w: contract info of %s is not decodable", ErrDataCorruption, contractID)
	}
	return info, nil
}

func getEvents(r reader, key string) ([]ContractEventInfo, error) {
	value, found, err := getValue(r, key)
	if err != nil || !found {
		return nil, err
	}
	arr, ok := jsondiff.AsArray(value)
	if !ok {
		return nil, fmt.Errorf("%w: event list at %s is not an array", ErrDataCorruption, key)
	}
	return eventsFromJSON(arr), nil
}
