package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uvmlabs/contractstore/jsondiff"
)

func TestContractInfo_ToJSONIsCanonical(t *testing.T) {
	info := &ContractInfo{
		ID:          "c1",
		Name:        "hello1",
		APIs:        []string{"say", "init"},
		OfflineAPIs: []string{"query1", "name"},
		StorageTypes: map[string]uint32{
			"owner": 1,
			"name":  2,
		},
		Balances: []ContractBalance{
			{AssetID: 2, Amount: 50},
			{AssetID: 0, Amount: 100},
			{AssetID: 1, Amount: 0},
		},
		Bytecode: []byte{123},
	}
	obj := info.ToJSON()

	require.Equal(t, []any{"init", "say"}, obj["apis"])
	require.Equal(t, []any{"name", "query1"}, obj["offline_apis"])
	require.Equal(t, []any{
		[]any{"name", jsondiff.Num(2)},
		[]any{"owner", jsondiff.Num(1)},
	}, obj["storage_types"])

	balances, ok := jsondiff.AsArray(obj["balances"])
	require.True(t, ok)
	require.Len(t, balances, 2, "zero-amount balances must be pruned")
	first, _ := jsondiff.AsObject(balances[0])
	require.Equal(t, uint64(0), jsondiff.AsUint64(first["asset_id"]))
	second, _ := jsondiff.AsObject(balances[1])
	require.Equal(t, uint64(2), jsondiff.AsUint64(second["asset_id"]))

	require.Equal(t, "ew==", obj["bytecode"])
}

func TestContractInfo_TwoSerializationsAreByteIdentical(t *testing.T) {
	info := &ContractInfo{
		ID:           "c1",
		APIs:         []string{"b", "a"},
		StorageTypes: map[string]uint32{"x": 1, "y": 2, "z": 3},
		Balances:     []ContractBalance{{AssetID: 3, Amount: 1}, {AssetID: 1, Amount: 2}},
	}
	first, err := jsondiff.Marshal(info.ToJSON())
	require.NoError(t, err)
	second, err := jsondiff.Marshal(info.ToJSON())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestContractInfo_RoundTripsThroughJSON(t *testing.T) {
	info := &ContractInfo{
		ID:                  "c1",
		Name:                "hello1",
		CreatorAddress:      "addr1",
		TxID:                "tx1",
		IsNative:            true,
		ContractTemplateKey: "template1",
		Version:             3,
		Description:         "demo description 123",
		Bytecode:            []byte{1, 2, 3},
		APIs:                []string{"init", "say"},
		OfflineAPIs:         []string{"name", "query1"},
		StorageTypes:        map[string]uint32{"name": 2},
		Balances:            []ContractBalance{{AssetID: 0, Amount: 100}},
	}

	encoded, err := jsondiff.Marshal(info.ToJSON())
	require.NoError(t, err)
	decoded, err := jsondiff.Unmarshal(encoded)
	require.NoError(t, err)

	restored := ContractInfoFromJSON(decoded)
	require.NotNil(t, restored)
	require.Equal(t, info, restored)
}

func TestContractInfoFromJSON_ToleratesMissingOptionalFields(t *testing.T) {
	info := ContractInfoFromJSON(map[string]any{"id": "c1"})
	require.NotNil(t, info)
	require.Equal(t, "c1", info.ID)
	require.Empty(t, info.Name)
	require.Empty(t, info.Description)
	require.False(t, info.IsNative)
	require.Zero(t, info.Version)
	require.Empty(t, info.Bytecode)
	require.Nil(t, info.StorageTypes)
	require.Nil(t, info.Balances)
}

func TestContractInfoFromJSON_RejectsMalformedRoots(t *testing.T) {
	require.Nil(t, ContractInfoFromJSON(nil))
	require.Nil(t, ContractInfoFromJSON("not an object"))
	require.Nil(t, ContractInfoFromJSON([]any{"id"}))
	require.Nil(t, ContractInfoFromJSON(map[string]any{}))
	require.Nil(t, ContractInfoFromJSON(map[string]any{"id": "c1", "bytecode": "not-base64!"}))
	require.Nil(t, ContractInfoFromJSON(map[string]any{"id": "c1", "storage_types": []any{[]any{"short"}}}))
}

func TestContractBalance_RoundTripsAndRejectsNonObjects(t *testing.T) {
	balance := ContractBalance{AssetID: 7, Amount: 42}
	restored := ContractBalanceFromJSON(balance.ToJSON())
	require.NotNil(t, restored)
	require.Equal(t, balance, *restored)

	require.Nil(t, ContractBalanceFromJSON(nil))
	require.Nil(t, ContractBalanceFromJSON("7"))
	require.Nil(t, ContractBalanceFromJSON([]any{}))
}

func TestBalancesFromJSON_DropsZeroAmountEntries(t *testing.T) {
	balances := balancesFromJSON([]any{
		ContractBalance{AssetID: 0, Amount: 100}.ToJSON(),
		ContractBalance{AssetID: 1, Amount: 0}.ToJSON(),
		"garbage",
	})
	require.Equal(t, []ContractBalance{{AssetID: 0, Amount: 100}}, balances)
}
