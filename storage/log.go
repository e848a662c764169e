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

import "github.com/uvmlabs/contractstore/storage/commitlog"

//go:generate mockgen -source=log.go -destination=log_mock.go -package=storage

// CommitLog is the commit-log surface the service depends on. It is an
// interface for the same reason kvstore.Store is one: tests drive the
// cross-store transaction protocol through injected failures. The
// production implementation is the sqlite log in storage/commitlog.
type CommitLog interface {
	// Begin starts a transaction.
	Begin() (LogTx, error)
	// Tip returns the newest row, or nil on an empty log.
	Tip() (*commitlog.CommitInfo, error)
	// Close releases the log.
	Close() error
}

// LogTx is one open commit-log transaction.
type LogTx interface {
	// Append adds a row for the given commit.
	Append(commitID, changeType, contractID string) error
	// Find returns the row with the given commit id, or nil.
	Find(commitID string) (*commitlog.CommitInfo, error)
	// After returns all rows newer than the given sequence number, newest
	// first.
	After(seq int64) ([]commitlog.CommitInfo, error)
	// Delete removes the row with the given commit id.
	Delete(commitID string) error
	// Commit commits the transaction.
	Commit() error
	// Rollback aborts the transaction.
	Rollback() error
}

// sqliteCommitLog adapts *commitlog.Log to the CommitLog interface.
type sqliteCommitLog struct {
	log *commitlog.Log
}

func (l sqliteCommitLog) Begin() (LogTx, error) {
	tx, err := l.log.Begin()
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (l sqliteCommitLog) Tip() (*commitlog.CommitInfo, error) {
	return l.log.Tip()
}

func (l sqliteCommitLog) Close() error {
	return l.log.Close()
}
