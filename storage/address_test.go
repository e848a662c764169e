package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeContractAddress_IsDeterministic(t *testing.T) {
	first := MakeContractAddress("addr1", "tx1", []byte{1, 2, 3})
	second := MakeContractAddress("addr1", "tx1", []byte{1, 2, 3})
	require.Equal(t, first, second)
	require.True(t, strings.HasPrefix(first, ContractAddressPrefix))
}

func TestMakeContractAddress_DependsOnAllInputs(t *testing.T) {
	base := MakeContractAddress("addr1", "tx1", []byte{1})
	require.NotEqual(t, base, MakeContractAddress("addr2", "tx1", []byte{1}))
	require.NotEqual(t, base, MakeContractAddress("addr1", "tx2", []byte{1}))
	require.NotEqual(t, base, MakeContractAddress("addr1", "tx1", []byte{2}))
}
