// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package commitlog keeps the ordered index of commits in a sqlite table.
// The sequence number orders commits; the commit id links a row to the
// reverse-diff blob stored in the key-value store under the same id.
package commitlog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// CommitInfo is one row of the commit log.
type CommitInfo struct {
	Seq        int64
	CommitID   string
	ChangeType string
	ContractID string
}

// Log is a sqlite-backed append-only commit index supporting transactions.
type Log struct {
	db *sql.DB
}

const createTableStmt = `CREATE TABLE IF NOT EXISTS commit_info (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	commit_id TEXT NOT NULL,
	change_type TEXT NOT NULL,
	contract_id TEXT
)`

// Open opens (or creates) the commit log database at the given path. The
// path ":memory:" yields a purely in-memory log.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// The store is single-writer; one connection keeps in-memory databases
	// from being silently split across the connection pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, fmt.Errorf("initializing commit_info table: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Find returns the row with the given commit id, or nil if there is none.
func (l *Log) Find(commitID string) (*CommitInfo, error) {
	return find(l.db, commitID)
}

// Tip returns the row with the highest sequence number, or nil on an empty
// log.
func (l *Log) Tip() (*CommitInfo, error) {
	row := l.db.QueryRow(
		`SELECT seq, commit_id, change_type, contract_id FROM commit_info ORDER BY seq DESC LIMIT 1`)
	return scan(row)
}

// Clear removes all rows. This exists for tests and tooling; it breaks the
// log/blob agreement invariant and must not be used in production.
func (l *Log) Clear() error {
	_, err := l.db.Exec(`DELETE FROM commit_info`)
	return err
}

// Begin starts a transaction. All mutations of the log happen through
// transactions.
func (l *Log) Begin() (*Tx, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx is an open commit-log transaction.
type Tx struct {
	tx *sql.Tx
}

// Append adds a row for the given commit. The sequence number is assigned by
// the database.
func (t *Tx) Append(commitID, changeType, contractID string) error {
	_, err := t.tx.Exec(
		`INSERT INTO commit_info (commit_id, change_type, contract_id) VALUES (?, ?, ?)`,
		commitID, changeType, contractID)
	return err
}

// Find returns the row with the given commit id as seen by this
// transaction, or nil if there is none.
func (t *Tx) Find(commitID string) (*CommitInfo, error) {
	return find(t.tx, commitID)
}

// After returns all rows with a sequence number greater than the given one,
// ordered by descending sequence. Passing zero returns the whole log in
// reverse order, which is the order rollbacks consume it in.
func (t *Tx) After(seq int64) ([]CommitInfo, error) {
	rows, err := t.tx.Query(
		`SELECT seq, commit_id, change_type, contract_id FROM commit_info WHERE seq > ? ORDER BY seq DESC`,
		seq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CommitInfo
	for rows.Next() {
		var info CommitInfo
		var contractID sql.NullString
		if err := rows.Scan(&info.Seq, &info.CommitID, &info.ChangeType, &contractID); err != nil {
			return nil, err
		}
		info.ContractID = contractID.String
		result = append(result, info)
	}
	return result, rows.Err()
}

// Delete removes the row with the given commit id.
func (t *Tx) Delete(commitID string) error {
	_, err := t.tx.Exec(`DELETE FROM commit_info WHERE commit_id = ?`, commitID)
	return err
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func find(q queryer, commitID string) (*CommitInfo, error) {
	row := q.QueryRow(
		`SELECT seq, commit_id, change_type, contract_id FROM commit_info WHERE commit_id = ?`,
		commitID)
	return scan(row)
}

func scan(row *sql.Row) (*CommitInfo, error) {
	var info CommitInfo
	var contractID sql.NullString
	err := row.Scan(&info.Seq, &info.CommitID, &info.ChangeType, &contractID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info.ContractID = contractID.String
	return &info, nil
}
