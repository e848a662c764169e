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
	"github.com/uvmlabs/contractstore/jsondiff"
)

// ContractBalanceChange adjusts the balance of one address in one asset.
// Changes with IsContract unset describe user-account transfers settled
// outside this store; they are recorded in the commit blob but do not touch
// contract state.
type ContractBalanceChange struct {
	AssetID    uint32
	Address    string
	Amount     uint64
	Add        bool
	IsContract bool
	Memo       string
}

// ToJSON returns the JSON object form of the balance change.
func (c ContractBalanceChange) ToJSON() map[string]any {
	return map[string]any{
		"asset_id":    jsondiff.Num(uint64(c.AssetID)),
		"address":     c.Address,
		"amount":      jsondiff.Num(c.Amount),
		"add":         c.Add,
		"is_contract": c.IsContract,
		"memo":        c.Memo,
	}
}

// ContractBalanceChangeFromJSON decodes a balance change from its JSON form.
func ContractBalanceChangeFromJSON(v jsondiff.Value) ContractBalanceChange {
	obj, _ := jsondiff.AsObject(v)
	return ContractBalanceChange{
		AssetID:    uint32(jsondiff.AsUint64(obj["asset_id"])),
		Address:    jsondiff.AsString(obj["address"]),
		Amount:     jsondiff.AsUint64(obj["amount"]),
		Add:        jsondiff.AsBool(obj["add"]),
		IsContract: jsondiff.AsBool(obj["is_contract"]),
		Memo:       jsondiff.AsString(obj["memo"]),
	}
}

// ContractStorageItemChange carries the reversible diff of one storage slot.
type ContractStorageItemChange struct {
	Name string
	Diff *jsondiff.DiffResult
}

// ContractStorageChange groups the slot changes of one contract.
type ContractStorageChange struct {
	ContractID string
	Items      []ContractStorageItemChange
}

// ToJSON returns the JSON object form of the storage change.
func (c ContractStorageChange) ToJSON() map[string]any {
	items := make([]any, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, map[string]any{
			"name": item.Name,
			"diff": item.Diff.Value(),
		})
	}
	return map[string]any{
		"contract_id": c.ContractID,
		"items":       items,
	}
}

// ContractStorageChangeFromJSON decodes a storage change from its JSON form.
func ContractStorageChangeFromJSON(v jsondiff.Value) ContractStorageChange {
	obj, _ := jsondiff.AsObject(v)
	change := ContractStorageChange{
		ContractID: jsondiff.AsString(obj["contract_id"]),
	}
	items, _ := jsondiff.AsArray(obj["items"])
	for _, item := range items {
		itemObj, _ := jsondiff.AsObject(item)
		change.Items = append(change.Items, ContractStorageItemChange{
			Name: jsondiff.AsString(itemObj["name"]),
			Diff: jsondiff.DiffFromValue(itemObj["diff"]),
		})
	}
	return change
}

// ContractEventInfo is one event emitted during contract execution. The
// transaction id may be empty for events raised outside a transaction.
type ContractEventInfo struct {
	TransactionID string
	ContractID    string
	EventName     string
	EventArg      string
}

// ToJSON returns the JSON object form of the event.
func (e ContractEventInfo) ToJSON() map[string]any {
	return map[string]any{
		"tx_id":       e.TransactionID,
		"contract_id": e.ContractID,
		"name":        e.EventName,
		"arg":         e.EventArg,
	}
}

// ContractEventInfoFromJSON decodes an event from its JSON form.
func ContractEventInfoFromJSON(v jsondiff.Value) ContractEventInfo {
	obj, _ := jsondiff.AsObject(v)
	return ContractEventInfo{
		TransactionID: jsondiff.AsString(obj["tx_id"]),
		ContractID:    jsondiff.AsString(obj["contract_id"]),
		EventName:     jsondiff.AsString(obj["name"]),
		EventArg:      jsondiff.AsString(obj["arg"]),
	}
}

// ContractUpgradeInfo assigns a contract its name and description. A
// contract can be upgraded only once, while its name is still empty.
type ContractUpgradeInfo struct {
	ContractID      string
	NameDiff        *jsondiff.DiffResult
	DescriptionDiff *jsondiff.DiffResult
}

// ToJSON returns the JSON object form of the upgrade. Absent diffs are
// omitted entirely rather than encoded as null.
func (u ContractUpgradeInfo) ToJSON() map[string]any {
	obj := map[string]any{
		"contract_id": u.ContractID,
	}
	if u.NameDiff != nil {
		obj["name_diff"] = u.NameDiff.Value()
	}
	if u.DescriptionDiff != nil {
		obj["description_diff"] = u.DescriptionDiff.Value()
	}
	return obj
}

// ContractUpgradeInfoFromJSON decodes an upgrade from its JSON form.
func ContractUpgradeInfoFromJSON(v jsondiff.Value) ContractUpgradeInfo {
	obj, _ := jsondiff.AsObject(v)
	info := ContractUpgradeInfo{
		ContractID: jsondiff.AsString(obj["contract_id"]),
	}
	if diff, ok := obj["name_diff"]; ok {
		info.NameDiff = jsondiff.DiffFromValue(diff)
	}
	if diff, ok := obj["description_diff"]; ok {
		info.DescriptionDiff = jsondiff.DiffFromValue(diff)
	}
	return info
}

// ContractChanges bundles all deltas committed as one atomic unit. After a
// commit its JSON serialization becomes the reverse-diff blob stored under
// the commit id.
type ContractChanges struct {
	BalanceChanges []ContractBalanceChange
	StorageChanges []ContractStorageChange
	Events         []ContractEventInfo
	UpgradeInfos   []ContractUpgradeInfo
}

// Empty reports whether the bundle carries no changes at all.
func (c *ContractChanges) Empty() bool {
	return len(c.BalanceChanges) == 0 && len(c.StorageChanges) == 0 &&
		len(c.Events) == 0 && len(c.UpgradeInfos) == 0
}

// ToJSON returns the JSON object form of the bundle.
func (c *ContractChanges) ToJSON() map[string]any {
	balanceChanges := make([]any, 0, len(c.BalanceChanges))
	for _, change := range c.BalanceChanges {
		balanceChanges = append(balanceChanges, change.ToJSON())
	}
	storageChanges := make([]any, 0, len(c.StorageChanges))
	for _, change := range c.StorageChanges {
		storageChanges = append(storageChanges, change.ToJSON())
	}
	upgradeInfos := make([]any, 0, len(c.UpgradeInfos))
	for _, info := range c.UpgradeInfos {
		upgradeInfos = append(upgradeInfos, info.ToJSON())
	}
	return map[string]any{
		"balance_changes": balanceChanges,
		"storage_changes": storageChanges,
		"events":          eventsToJSON(c.Events),
		"upgrade_infos":   upgradeInfos,
	}
}

// ContractChangesFromJSON decodes a bundle from its JSON form. The events
// and upgrade_infos members are optional for compatibility with blobs
// written before they existed.
func ContractChangesFromJSON(v jsondiff.Value) *ContractChanges {
	obj, ok := jsondiff.AsObject(v)
	if !ok {
		return nil
	}
	changes := &ContractChanges{}
	balanceChanges, _ := jsondiff.AsArray(obj["balance_changes"])
	for _, item := range balanceChanges {
		changes.BalanceChanges = append(changes.BalanceChanges, ContractBalanceChangeFromJSON(item))
	}
	storageChanges, _ := jsondiff.AsArray(obj["storage_changes"])
	for _, item := range storageChanges {
		changes.StorageChanges = append(changes.StorageChanges, ContractStorageChangeFromJSON(item))
	}
	if events, ok := obj["events"]; ok {
		changes.Events = eventsFromJSON(events)
	}
	if upgradeInfos, ok := jsondiff.AsArray(obj["upgrade_infos"]); ok {
		for _, item := range upgradeInfos {
			changes.UpgradeInfos = append(changes.UpgradeInfos, ContractUpgradeInfoFromJSON(item))
		}
	}
	return changes
}

func eventsToJSON(events []ContractEventInfo) []any {
	result := make([]any, 0, len(events))
	for _, event := range events {
		result = append(result, event.ToJSON())
	}
	return result
}

func eventsFromJSON(v jsondiff.Value) []ContractEventInfo {
	arr, _ := jsondiff.AsArray(v)
	events := make([]ContractEventInfo, 0, len(arr))
	for _, item := range arr {
		events = append(events, ContractEventInfoFromJSON(item))
	}
	return events
}
