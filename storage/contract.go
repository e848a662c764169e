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
	"encoding/base64"
	"slices"

	"github.com/uvmlabs/contractstore/jsondiff"
)

// ContractBalance is the balance of a contract in one asset.
type ContractBalance struct {
	AssetID uint32
	Amount  uint64
}

// ToJSON returns the JSON object form of the balance.
func (b ContractBalance) ToJSON() map[string]any {
	return map[string]any{
		"asset_id": jsondiff.Num(uint64(b.AssetID)),
		"amount":   jsondiff.Num(b.Amount),
	}
}

// ContractBalanceFromJSON decodes a balance from its JSON object form. It
// returns nil for non-object inputs.
func ContractBalanceFromJSON(v jsondiff.Value) *ContractBalance {
	obj, ok := jsondiff.AsObject(v)
	if !ok {
		return nil
	}
	return &ContractBalance{
		AssetID: uint32(jsondiff.AsUint64(obj["asset_id"])),
		Amount:  jsondiff.AsUint64(obj["amount"]),
	}
}

// ContractInfo is the immutable metadata and current balances of a contract.
type ContractInfo struct {
	ID                  string
	Name                string
	CreatorAddress      string
	TxID                string
	IsNative            bool
	ContractTemplateKey string
	Version             uint32
	Description         string
	Bytecode            []byte
	APIs                []string
	OfflineAPIs         []string
	StorageTypes        map[string]uint32
	Balances            []ContractBalance
}

// ToJSON returns the canonical JSON object form of the contract info. The
// encoding is canonical so that two serializations of the same logical record
// are byte-identical: apis and offline_apis are sorted, storage_types are
// emitted as [name, type] pairs in key order, balances are sorted by asset id
// with zero-amount entries omitted.
func (c *ContractInfo) ToJSON() map[string]any {
	apis := make([]any, 0, len(c.APIs))
	for _, api := range sortedCopy(c.APIs) {
		apis = append(apis, api)
	}
	offlineAPIs := make([]any, 0, len(c.OfflineAPIs))
	for _, api := range sortedCopy(c.OfflineAPIs) {
		offlineAPIs = append(offlineAPIs, api)
	}

	storageTypes := make([]any, 0, len(c.StorageTypes))
	names := make([]string, 0, len(c.StorageTypes))
	for name := range c.StorageTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		storageTypes = append(storageTypes, []any{name, jsondiff.Num(uint64(c.StorageTypes[name]))})
	}

	return map[string]any{
		"id":                    c.ID,
		"name":                  c.Name,
		"creator_address":       c.CreatorAddress,
		"txid":                  c.TxID,
		"is_native":             c.IsNative,
		"contract_template_key": c.ContractTemplateKey,
		"version":               jsondiff.Num(uint64(c.Version)),
		"description":           c.Description,
		"bytecode":              base64.StdEncoding.EncodeToString(c.Bytecode),
		"apis":                  apis,
		"offline_apis":          offlineAPIs,
		"storage_types":         storageTypes,
		"balances":              balancesToJSON(c.Balances),
	}
}

// ContractInfoFromJSON decodes a contract info from its JSON object form.
// Missing optional fields default to their zero values; a malformed root, an
// empty object, or undecodable bytecode yields nil rather than an error.
func ContractInfoFromJSON(v jsondiff.Value) *ContractInfo {
	obj, ok := jsondiff.AsObject(v)
	if !ok || len(obj) == 0 {
		return nil
	}
	bytecode, err := base64.StdEncoding.DecodeString(jsondiff.AsString(obj["bytecode"]))
	if err != nil {
		return nil
	}
	info := &ContractInfo{
		ID:                  jsondiff.AsString(obj["id"]),
		Name:                jsondiff.AsString(obj["name"]),
		CreatorAddress:      jsondiff.AsString(obj["creator_address"]),
		TxID:                jsondiff.AsString(obj["txid"]),
		IsNative:            jsondiff.AsBool(obj["is_native"]),
		ContractTemplateKey: jsondiff.AsString(obj["contract_template_key"]),
		Version:             uint32(jsondiff.AsUint64(obj["version"])),
		Description:         jsondiff.AsString(obj["description"]),
		Bytecode:            bytecode,
		APIs:                stringsFromJSON(obj["apis"]),
		OfflineAPIs:         stringsFromJSON(obj["offline_apis"]),
		Balances:            balancesFromJSON(obj["balances"]),
	}
	if pairs, ok := jsondiff.AsArray(obj["storage_types"]); ok {
		info.StorageTypes = make(map[string]uint32, len(pairs))
		for _, pair := range pairs {
			item, ok := jsondiff.AsArray(pair)
			if !ok || len(item) < 2 {
				return nil
			}
			info.StorageTypes[jsondiff.AsString(item[0])] = uint32(jsondiff.AsUint64(item[1]))
		}
	}
	return info
}

// balancesToJSON encodes balances sorted by asset id, dropping zero-amount
// entries.
func balancesToJSON(balances []ContractBalance) []any {
	sorted := slices.Clone(balances)
	slices.SortFunc(sorted, func(a, b ContractBalance) int {
		return int(int64(a.AssetID) - int64(b.AssetID))
	})
	result := make([]any, 0, len(sorted))
	for _, b := range sorted {
		if b.Amount == 0 {
			continue
		}
		result = append(result, b.ToJSON())
	}
	return result
}

// balancesFromJSON decodes a balances array, dropping zero-amount entries
// and anything that is not an object.
func balancesFromJSON(v jsondiff.Value) []ContractBalance {
	arr, ok := jsondiff.AsArray(v)
	if !ok {
		return nil
	}
	result := make([]ContractBalance, 0, len(arr))
	for _, item := range arr {
		balance := ContractBalanceFromJSON(item)
		if balance == nil || balance.Amount == 0 {
			continue
		}
		result = append(result, *balance)
	}
	return result
}

func stringsFromJSON(v jsondiff.Value) []string {
	arr, ok := jsondiff.AsArray(v)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		result = append(result, jsondiff.AsString(item))
	}
	return result
}

func sortedCopy(values []string) []string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted
}
