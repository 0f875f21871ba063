package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EmptyCodeHash is the keccak256 hash of empty code.
var EmptyCodeHash = crypto.Keccak256Hash(nil)

// IsEmptyCodeHash returns true if the code hash is the zero hash or the hash of empty code.
func IsEmptyCodeHash(codeHash common.Hash) bool {
	return codeHash == common.Hash{} || codeHash == EmptyCodeHash
}

// CodeHash computes the hash under which the code is stored.
func CodeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return EmptyCodeHash
	}
	return crypto.Keccak256Hash(code)
}
