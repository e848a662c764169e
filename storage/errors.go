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

import "github.com/uvmlabs/contractstore/common"

// Error kinds surfaced by the Service. All of them are fatal to the current
// operation; the cross-store transaction protocol guarantees that a failed
// operation leaves both stores in their pre-operation state.
const (
	// ErrStoreNotOpen is returned by operations invoked before New has
	// succeeded or after Close.
	ErrStoreNotOpen = common.ConstError("contract storage not opened")

	// ErrStore wraps failures reported by one of the underlying engines.
	ErrStore = common.ConstError("contract storage error")

	// ErrDataCorruption indicates a record that was found but could not be
	// decoded, such as a non-object where an object was expected.
	ErrDataCorruption = common.ConstError("contract storage data corrupted")

	// ErrUnknownCommit indicates a rollback or reset target that is neither
	// present in the commit log nor the empty commit id.
	ErrUnknownCommit = common.ConstError("unknown commit id")

	// ErrDuplicateCommit indicates a computed commit id that is already
	// present in the commit log.
	ErrDuplicateCommit = common.ConstError("same commit id existed before")

	// ErrNegativeBalance indicates a balance change that would underflow.
	ErrNegativeBalance = common.ConstError("contract balance would become negative")

	// ErrNameCollision indicates a contract name already mapped to a
	// different contract id.
	ErrNameCollision = common.ConstError("contract name already taken")

	// ErrAlreadyUpgraded indicates an upgrade applied to a contract whose
	// name is already non-empty. An upgrade may only be applied once.
	ErrAlreadyUpgraded = common.ConstError("contract already upgraded")
)
