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

import "strconv"

// The fields below define the key-value store schema prefixing. The reverse
// diff blob of a commit is stored under the raw commit id with no prefix.
const (
	// rootStateHashKey tracks the currently active commit (the cursor).
	rootStateHashKey = "ROOT_STATE_HASH"

	// topRootStateHashKey tracks the latest committed state (the tip). The
	// cursor equals the tip except between a reset and the next commit.
	topRootStateHashKey = "TOP_ROOT_STATE_HASH"

	contractInfoPrefix      = "contract_info_key_"
	contractStoragePrefix   = "contract_storage_key_"
	contractNameIDPrefix    = "contract_name_id_mapping_"
	commitEventsPrefix      = "commit_events$"
	commitEventPrefix       = "commit_event$"
	transactionEventsPrefix = "transaction_events$"
	transactionEventPrefix  = "transaction_event$"
	eventPrefix             = "event$"
)

// contractInfoKey is the primary record of a contract.
func contractInfoKey(contractID string) string {
	return contractInfoPrefix + contractID
}

// contractStorageKey holds the value of one named storage slot.
func contractStorageKey(contractID, storageName string) string {
	return contractStoragePrefix + contractID + "_" + storageName
}

// contractNameIDKey maps a non-empty contract name to its contract id.
func contractNameIDKey(name string) string {
	return contractNameIDPrefix + name
}

// commitEventsKey holds the aggregate list of all events of a commit.
func commitEventsKey(commitID CommitID) string {
	return commitEventsPrefix + commitID
}

// commitEventKey is the membership marker of one event within a commit.
func commitEventKey(commitID CommitID, eventID string) string {
	return commitEventPrefix + commitID + "$" + eventID
}

// transactionEventsKey holds the aggregate list of events of a transaction.
func transactionEventsKey(txid string) string {
	return transactionEventsPrefix + txid
}

// transactionEventKey is the membership marker of one event within a
// transaction.
func transactionEventKey(txid, eventID string) string {
	return transactionEventPrefix + txid + "$" + eventID
}

// eventKey holds one event record, addressed by its event id.
func eventKey(commitID CommitID, index int) string {
	return eventPrefix + eventID(commitID, index)
}

// eventID identifies an event by the commit that produced it and its index
// within that commit.
func eventID(commitID CommitID, index int) string {
	return commitID + strconv.Itoa(index)
}
