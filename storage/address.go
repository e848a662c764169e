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
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

// ContractAddressPrefix marks base58 contract addresses derived by
// MakeContractAddress.
const ContractAddressPrefix = "CON"

// MakeContractAddress derives a contract address from the creator address,
// the creating transaction id, and the contract bytecode. The derivation is
// sha256 over the concatenated inputs, folded through ripemd160 and encoded
// as base58. Contract ids are otherwise free-form strings; this helper only
// serves callers that want deterministic, collision-resistant ids.
func MakeContractAddress(creatorAddress, txid string, bytecode []byte) string {
	payload := make([]byte, 0, len(creatorAddress)+len(txid)+len(bytecode))
	payload = append(payload, creatorAddress...)
	payload = append(payload, txid...)
	payload = append(payload, bytecode...)
	sum := sha256.Sum256(payload)

	folded := ripemd160.New()
	folded.Write(sum[:])
	return ContractAddressPrefix + base58.Encode(folded.Sum(nil))
}
