package testutil

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NewAddrKey generates an Ethereum address and its corresponding private key.
func NewAddrKey() (common.Address, *ecdsa.PrivateKey) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, nil
	}

	return crypto.PubkeyToAddress(key.PublicKey), key
}

// GenerateAddress generates an Ethereum address.
func GenerateAddress() common.Address {
	addr, _ := NewAddrKey()
	return addr
}

// GenerateHash generates an Ethereum hash.
func GenerateHash() common.Hash {
	_, key := NewAddrKey()
	return common.BytesToHash(crypto.FromECDSA(key))
}
