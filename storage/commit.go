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

// CommitID identifies a point in the commit history. It is the lowercase hex
// form of a SHA-256 digest and doubles as the root state hash of the
// contract-storage world after that commit. The reverse-diff blob of the
// commit is stored in the key-value store under this id.
type CommitID = string

// EmptyCommitID is the sentinel id of the empty history before the first
// commit.
const EmptyCommitID CommitID = ""

// Change types recorded in the commit log.
const (
	// ChangeTypeContractInfo marks a commit produced by SaveContractInfo.
	ChangeTypeContractInfo = "contract_info"
	// ChangeTypeStorageChange marks a commit produced by
	// CommitContractChanges.
	ChangeTypeStorageChange = "storage_change"
)
