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
)

// SaveContractInfo creates or fully replaces a contract record and returns
// the id of the resulting commit. The stored reverse-diff blob is the diff
// from the previous record (or the empty object for a new contract) to the
// new one, so the save can be rolled back exactly.
func (s *Service) SaveContractInfo(info *ContractInfo) (CommitID, error) {
	var commitID CommitID
	err := s.runWrite(func(tx *writeTx) error {
		if err := s.catchUpToCursor(tx); err != nil {
			return err
		}
		prev, err := getString(tx.kv, rootStateHashKey)
		if err != nil {
			return err
		}

		key := contractInfoKey(info.ID)
		oldValue, found, err := getValue(tx.kv, key)
		if err != nil {
			return err
		}
		oldObj := map[string]any{}
		if found {
			obj, ok := jsondiff.AsObject(oldValue)
			if !ok {
				return fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, info.ID)
			}
			oldObj = obj
		}
		oldName := jsondiff.AsString(oldObj["name"])

		newJSON := info.ToJSON()
		digest, err := OrderedJSONDigest(newJSON)
		if err != nil {
			return err
		}
		commitID = NextRootHash(prev, digest, s.height)
		if err := ensureNewCommit(tx, commitID); err != nil {
			return err
		}
		if err := updateNameMapping(tx, info.ID, oldName, info.Name); err != nil {
			return err
		}
		if err := putValue(tx.kv, key, newJSON); err != nil {
			return err
		}

		diff := jsondiff.Diff(oldObj, newJSON)
		blob, err := jsondiff.Marshal(diff.Value())
		if err != nil {
			return fmt.Errorf("encoding contract info diff: %w", err)
		}
		if err := putRaw(tx.kv, commitID, blob); err != nil {
			return err
		}
		if err := tx.log.Append(commitID, ChangeTypeContractInfo, info.ID); err != nil {
			return fmt.Errorf("%w: appending to commit log: %w", ErrStore, err)
		}
		if err := s.advanceCursor(tx, commitID); err != nil {
			return err
		}
		s.logger.Debug("saved contract info",
			zap.String("contract_id", info.ID),
			zap.String("commit_id", commitID),
			zap.Uint64("block_height", s.height))
		return nil
	})
	if err != nil {
		return EmptyCommitID, err
	}
	return commitID, nil
}

// CommitContractChanges applies a change bundle as one atomic commit and
// returns the new commit id. The bundle's own JSON serialization is stored
// as the reverse-diff blob, which is sufficient to both re-apply and invert
// the commit.
func (s *Service) CommitContractChanges(changes *ContractChanges) (CommitID, error) {
	var commitID CommitID
	err := s.runWrite(func(tx *writeTx) error {
		if err := s.catchUpToCursor(tx); err != nil {
			return err
		}
		prev, err := getString(tx.kv, rootStateHashKey)
		if err != nil {
			return err
		}

		bundleJSON := changes.ToJSON()
		digest, err := OrderedJSONDigest(bundleJSON)
		if err != nil {
			return err
		}
		commitID = NextRootHash(prev, digest, s.height)
		if err := ensureNewCommit(tx, commitID); err != nil {
			return err
		}

		for _, change := range changes.BalanceChanges {
			if err := applyBalanceChange(tx, change, false); err != nil {
				return err
			}
		}
		for _, change := range changes.StorageChanges {
			if err := applyStorageChange(tx, change, false); err != nil {
				return err
			}
		}
		if err := writeEvents(tx, commitID, changes.Events); err != nil {
			return err
		}
		for _, upgrade := range changes.UpgradeInfos {
			if err := applyUpgrade(tx, upgrade); err != nil {
				return err
			}
		}

		blob, err := jsondiff.Marshal(bundleJSON)
		if err != nil {
			return fmt.Errorf("encoding change bundle: %w", err)
		}
		if err := putRaw(tx.kv, commitID, blob); err != nil {
			return err
		}
		if err := tx.log.Append(commitID, ChangeTypeStorageChange, ""); err != nil {
			return fmt.Errorf("%w: appending to commit log: %w", ErrStore, err)
		}
		if err := s.advanceCursor(tx, commitID); err != nil {
			return err
		}
		s.logger.Debug("committed contract changes",
			zap.String("commit_id", commitID),
			zap.Uint64("block_height", s.height),
			zap.Int("balance_changes", len(changes.BalanceChanges)),
			zap.Int("storage_changes", len(changes.StorageChanges)),
			zap.Int("events", len(changes.Events)),
			zap.Int("upgrades", len(changes.UpgradeInfos)))
		return nil
	})
	if err != nil {
		return EmptyCommitID, err
	}
	return commitID, nil
}

// catchUpToCursor brings the tip back to the cursor when they differ, which
// happens after ResetRootStateHash. All commits past the cursor are
// reverted inside the surrounding transaction, so a subsequent re-commit of
// the same bundle reproduces the identical commit id.
func (s *Service) catchUpToCursor(tx *writeTx) error {
	cursor, err := getString(tx.kv, rootStateHashKey)
	if err != nil {
		return err
	}
	top, err := getString(tx.kv, topRootStateHashKey)
	if err != nil {
		return err
	}
	if cursor == top {
		return nil
	}
	s.logger.Debug("cursor behind tip, reverting later commits",
		zap.String("cursor", cursor),
		zap.String("tip", top))
	if err := revertAfter(tx, cursor); err != nil {
		return err
	}
	return putRaw(tx.kv, topRootStateHashKey, []byte(cursor))
}

// advanceCursor moves both the cursor and the tip to the new commit.
func (s *Service) advanceCursor(tx *writeTx, commitID CommitID) error {
	if err := putRaw(tx.kv, rootStateHashKey, []byte(commitID)); err != nil {
		return err
	}
	return putRaw(tx.kv, topRootStateHashKey, []byte(commitID))
}

// ensureNewCommit rejects a commit id that is already present in the log.
func ensureNewCommit(tx *writeTx, commitID CommitID) error {
	existing, err := tx.log.Find(commitID)
	if err != nil {
		return fmt.Errorf("%w: querying commit log: %w", ErrStore, err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateCommit, commitID)
	}
	return nil
}

// applyBalanceChange adjusts one contract balance. With reverse set the
// direction of the change is inverted, which is how rollbacks undo it.
// Changes targeting non-contract addresses are recorded in the commit blob
// but leave contract state untouched.
func applyBalanceChange(tx *writeTx, change ContractBalanceChange, reverse bool) error {
	if !change.IsContract {
		return nil
	}
	key := contractInfoKey(change.Address)
	value, found, err := getValue(tx.kv, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: contract info of %s not found for balance change", ErrStore, change.Address)
	}
	obj, ok := jsondiff.AsObject(value)
	if !ok {
		return fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, change.Address)
	}

	add := change.Add
	if reverse {
		add = !add
	}
	balances := balancesFromJSON(obj["balances"])
	adjusted := false
	for i := range balances {
		if balances[i].AssetID != change.AssetID {
			continue
		}
		if add {
			balances[i].Amount += change.Amount
		} else {
			if balances[i].Amount < change.Amount {
				return fmt.Errorf("%w: contract %s has %d of asset %d, change needs %d",
					ErrNegativeBalance, change.Address, balances[i].Amount, change.AssetID, change.Amount)
			}
			balances[i].Amount -= change.Amount
		}
		adjusted = true
		break
	}
	if !adjusted {
		amount := uint64(0)
		if add {
			amount = change.Amount
		}
		balances = append(balances, ContractBalance{AssetID: change.AssetID, Amount: amount})
	}
	obj["balances"] = balancesToJSON(balances)
	return putValue(tx.kv, key, obj)
}

// applyStorageChange patches the slots of one contract forward, or rolls
// them back with reverse set. A resulting null value deletes the slot.
func applyStorageChange(tx *writeTx, change ContractStorageChange, reverse bool) error {
	for _, item := range change.Items {
		key := contractStorageKey(change.ContractID, item.Name)
		current, _, err := getValue(tx.kv, key)
		if err != nil {
			return err
		}
		var next jsondiff.Value
		if reverse {
			next, err = jsondiff.Rollback(current, item.Diff)
		} else {
			next, err = jsondiff.Patch(current, item.Diff)
		}
		if err != nil {
			return fmt.Errorf("applying diff to storage slot %s of %s: %w", item.Name, change.ContractID, err)
		}
		if next == nil {
			if err := deleteKey(tx.kv, key); err != nil {
				return err
			}
			continue
		}
		if err := putValue(tx.kv, key, next); err != nil {
			return err
		}
	}
	return nil
}

// writeEvents records the events of a commit: one record and a commit
// membership marker per event, a transaction membership marker for each
// event that carries a transaction id, plus the per-commit and
// per-transaction aggregate lists. The per-transaction list holds the events of this commit only and
// overwrites any list a prior commit wrote for the same transaction.
func writeEvents(tx *writeTx, commitID CommitID, events []ContractEventInfo) error {
	if len(events) == 0 {
		return nil
	}
	byTx := map[string][]ContractEventInfo{}
	var txOrder []string
	for i, event := range events {
		id := eventID(commitID, i)
		if err := putValue(tx.kv, eventKey(commitID, i), event.ToJSON()); err != nil {
			return err
		}
		if err := putRaw(tx.kv, commitEventKey(commitID, id), []byte(id)); err != nil {
			return err
		}
		if event.TransactionID == "" {
			continue
		}
		if err := putRaw(tx.kv, transactionEventKey(event.TransactionID, id), []byte(id)); err != nil {
			return err
		}
		if _, ok := byTx[event.TransactionID]; !ok {
			txOrder = append(txOrder, event.TransactionID)
		}
		byTx[event.TransactionID] = append(byTx[event.TransactionID], event)
	}
	if err := putValue(tx.kv, commitEventsKey(commitID), eventsToJSON(events)); err != nil {
		return err
	}
	for _, txid := range txOrder {
		if err := putValue(tx.kv, transactionEventsKey(txid), eventsToJSON(byTx[txid])); err != nil {
			return err
		}
	}
	return nil
}

// applyUpgrade assigns a contract its name and description. A contract may
// only be upgraded while its name is still empty.
func applyUpgrade(tx *writeTx, upgrade ContractUpgradeInfo) error {
	key := contractInfoKey(upgrade.ContractID)
	value, found, err := getValue(tx.kv, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: contract info of %s not found for upgrade", ErrStore, upgrade.ContractID)
	}
	obj, ok := jsondiff.AsObject(value)
	if !ok {
		return fmt.Errorf("%w: contract info of %s is not an object", ErrDataCorruption, upgrade.ContractID)
	}
	currentName := jsondiff.AsString(obj["name"])
	if currentName != "" {
		return fmt.Errorf("%w: contract %s is named %q", ErrAlreadyUpgraded, upgrade.ContractID, currentName)
	}

	if upgrade.NameDiff != nil {
		newNameValue, err := jsondiff.Patch(obj["name"], upgrade.NameDiff)
		if err != nil {
			return fmt.Errorf("applying name diff of %s: %w", upgrade.ContractID, err)
		}
		if err := updateNameMapping(tx, upgrade.ContractID, currentName, jsondiff.AsString(newNameValue)); err != nil {
			return err
		}
		obj["name"] = newNameValue
	}
	if upgrade.DescriptionDiff != nil {
		newDescription, err := jsondiff.Patch(obj["description"], upgrade.DescriptionDiff)
		if err != nil {
			return fmt.Errorf("applying description diff of %s: %w", upgrade.ContractID, err)
		}
		obj["description"] = newDescription
	}
	return putValue(tx.kv, key, obj)
}

// updateNameMapping reconciles the name index when a contract moves from
// oldName to newName. The mapping must stay injective: a new name already
// pointing at a different contract is a collision.
func updateNameMapping(tx *writeTx, contractID, oldName, newName string) error {
	if newName != "" {
		existing, err := getString(tx.kv, contractNameIDKey(newName))
		if err != nil {
			return err
		}
		if existing != "" && existing != contractID {
			return fmt.Errorf("%w: name %q is mapped to %s", ErrNameCollision, newName, existing)
		}
	}
	if oldName != "" && oldName != newName {
		if err := deleteKey(tx.kv, contractNameIDKey(oldName)); err != nil {
			return err
		}
	}
	if newName != "" {
		return putRaw(tx.kv, contractNameIDKey(newName), []byte(contractID))
	}
	return nil
}
