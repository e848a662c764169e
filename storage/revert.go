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
	"fmt"

	"go.uber.org/zap"

	"github.com/uvmlabs/contractstore/jsondiff"
	"github.com/uvmlabs/contractstore/storage/commitlog"
)

// RollbackContractState rewinds the store to the state after the given
// commit, destroying all later commits. Passing EmptyCommitID rewinds to
// the empty state before the first commit.
func (s *Service) RollbackContractState(dest CommitID) error {
	return s.runWrite(func(tx *writeTx) error {
		if err := revertAfter(tx, dest); err != nil {
			return err
		}
		if err := putRaw(tx.kv, rootStateHashKey, []byte(dest)); err != nil {
			return err
		}
		if err := putRaw(tx.kv, topRootStateHashKey, []byte(dest)); err != nil {
			return err
		}
		s.logger.Debug("rolled back contract state", zap.String("commit_id", dest))
		return nil
	})
}

// ResetRootStateHash moves the cursor to the given commit without removing
// any later commits or their data. The next commit reverts everything past
// the cursor first, so re-committing the identical bundle reproduces the
// identical commit id.
func (s *Service) ResetRootStateHash(dest CommitID) error {
	return s.runWrite(func(tx *writeTx) error {
		if dest != EmptyCommitID {
			existing, err := tx.log.Find(dest)
			if err != nil {
				return fmt.Errorf("%w: querying commit log: %w", ErrStore, err)
			}
			if existing == nil {
				return fmt.Errorf("%w: %s", ErrUnknownCommit, dest)
			}
		}
		if err := putRaw(tx.kv, rootStateHashKey, []byte(dest)); err != nil {
			return err
		}
		s.logger.Debug("reset root state hash", zap.String("commit_id", dest))
		return nil
	})
}

// revertAfter undoes every commit logged after dest, newest first, removing
// their log rows and diff blobs. It does not move the cursor; callers do.
func revertAfter(tx *writeTx, dest CommitID) error {
	var destSeq int64
	if dest != EmptyCommitID {
		info, err := tx.log.Find(dest)
		if err != nil {
			return fmt.Errorf("%w: querying commit log: %w", ErrStore, err)
		}
		if info == nil {
			return fmt.Errorf("%w: %s", ErrUnknownCommit, dest)
		}
		destSeq = info.Seq
	}
	rows, err := tx.log.After(destSeq)
	if err != nil {
		return fmt.Errorf("%w: querying commit log: %w", ErrStore, err)
	}
	for _, row := range rows {
		if err := revertCommit(tx, row); err != nil {
			return err
		}
		if err := deleteKey(tx.kv, row.CommitID); err != nil {
			return err
		}
		if err := tx.log.Delete(row.CommitID); err != nil {
			return fmt.Errorf("%w: deleting commit log row %s: %w", ErrStore, row.CommitID, err)
		}
	}
	return nil
}

// revertCommit undoes the state effects of one commit using the reverse
// diff blob stored under its id.
func revertCommit(tx *writeTx, row commitlog.CommitInfo) error {
	blob, found, err := getValue(tx.kv, row.CommitID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: missing diff blob of commit %s", ErrDataCorruption, row.CommitID)
	}
	switch row.ChangeType {
	case ChangeTypeContractInfo:
		return revertContractInfo(tx, row.ContractID, jsondiff.DiffFromValue(blob))
	case ChangeTypeStorageChange:
		changes := ContractChangesFromJSON(blob)
		if changes == nil {
			return fmt.Errorf("%w: change bundle of commit %s is not decodable", ErrDataCorruption, row.CommitID)
		}
		return revertContractChanges(tx, row.CommitID, changes)
	default:
		return fmt.Errorf("%w: unsupported change type %q of commit %s", ErrDataCorruption, row.ChangeType, row.CommitID)
	}
}

// revertContractInfo rolls one SaveContractInfo commit back. A reversal
// that yields null or the empty object deletes the record: the commit
// created the contract.
func revertContractInfo(tx *writeTx, contractID string, diff *jsondiff.DiffResult) error {
	key := contractInfoKey(contractID)
	current, found, err := getValue(tx.kv, key)
	if err != nil {
		return err
	}
	currentObj := map[string]any{}
	if found {
		obj, ok := jsondiff.AsObject(current)
		if !ok {
			return fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, contractID)
		}
		currentObj = obj
	}
	currentName := jsondiff.AsString(currentObj["name"])

	reversed, err := jsondiff.Rollback(currentObj, diff)
	if err != nil {
		return fmt.Errorf("reversing contract info diff of %s: %w", contractID, err)
	}
	reversedObj, isObj := jsondiff.AsObject(reversed)
	if reversed == nil || (isObj && len(reversedObj) == 0) {
		if err := deleteKey(tx.kv, key); err != nil {
			return err
		}
		if currentName != "" {
			return deleteKey(tx.kv, contractNameIDKey(currentName))
		}
		return nil
	}
	if !isObj {
		return fmt.Errorf("%w: reversed contract info of %s is not an object", ErrDataCorruption, contractID)
	}
	if err := putValue(tx.kv, key, reversed); err != nil {
		return err
	}
	reversedName := jsondiff.AsString(reversedObj["name"])
	if currentName != "" && currentName != reversedName {
		if err := deleteKey(tx.kv, contractNameIDKey(currentName)); err != nil {
			return err
		}
	}
	if reversedName != "" {
		return putRaw(tx.kv, contractNameIDKey(reversedName), []byte(contractID))
	}
	return nil
}

// revertContractChanges rolls one CommitContractChanges commit back:
// inverse balance adjustments, slot rollbacks, upgrade reversals, and
// removal of all event records of the commit.
func revertContractChanges(tx *writeTx, commitID CommitID, changes *ContractChanges) error {
	for _, change := range changes.BalanceChanges {
		if err := applyBalanceChange(tx, change, true); err != nil {
			return err
		}
	}
	for _, change := range changes.StorageChanges {
		if err := applyStorageChange(tx, change, true); err != nil {
			return err
		}
	}
	for _, upgrade := range changes.UpgradeInfos {
		if err := revertUpgrade(tx, upgrade); err != nil {
			return err
		}
	}
	return deleteEvents(tx, commitID, changes.Events)
}

// revertUpgrade undoes one upgrade, restoring the previous name and
// description and reconciling the name index.
func revertUpgrade(tx *writeTx, upgrade ContractUpgradeInfo) error {
	key := contractInfoKey(upgrade.ContractID)
	value, found, err := getValue(tx.kv, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: contract info of %s not found to revert upgrade", ErrStore, upgrade.ContractID)
	}
	obj, ok := jsondiff.AsObject(value)
	if !ok {
		return fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, upgrade.ContractID)
	}

	if upgrade.NameDiff != nil {
		currentName := jsondiff.AsString(obj["name"])
		reversedName, err := jsondiff.Rollback(obj["name"], upgrade.NameDiff)
		if err != nil {
			return fmt.Errorf("reversing name diff of %s: %w", upgrade.ContractID, err)
		}
		if currentName != "" {
			if err := deleteKey(tx.kv, contractNameIDKey(currentName)); err != nil {
				return err
			}
		}
		if name := jsondiff.AsString(reversedName); name != "" {
			if err := putRaw(tx.kv, contractNameIDKey(name), []byte(upgrade.ContractID)); err != nil {
				return err
			}
		}
		obj["name"] = reversedName
	}
	if upgrade.DescriptionDiff != nil {
		reversedDescription, err := jsondiff.Rollback(obj["description"], upgrade.DescriptionDiff)
		if err != nil {
			return fmt.Errorf("reversing description diff of %s: %w", upgrade.ContractID, err)
		}
		obj["description"] = reversedDescription
	}
	return putValue(tx.kv, key, obj)
}

// deleteEvents removes the event records of a commit: every event record,
// both membership markers, and both aggregate lists.
func deleteEvents(tx *writeTx, commitID CommitID, events []ContractEventInfo) error {
	if len(events) == 0 {
		return nil
	}
	seenTx := map[string]struct{}{}
	for i, event := range events {
		id := eventID(commitID, i)
		if err := deleteKey(tx.kv, eventKey(commitID, i)); err != nil {
			return err
		}
		if err := deleteKey(tx.kv, commitEventKey(commitID, id)); err != nil {
			return err
		}
		if event.TransactionID == "" {
			continue
		}
		if err := deleteKey(tx.kv, transactionEventKey(event.TransactionID, id)); err != nil {
			return err
		}
		seenTx[event.TransactionID] = struct{}{}
	}
	if err := deleteKey(tx.kv, commitEventsKey(commitID)); err != nil {
		return err
	}
	for txid := range seenTx {
		if err := deleteKey(tx.kv, transactionEventsKey(txid)); err != nil {
			return err
		}
	}
	return nil
}
