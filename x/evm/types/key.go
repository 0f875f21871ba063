package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName string name of module
	ModuleName = "tstore"

	// StoreKey key for the persistent contract data (code and storage state).
	// The module should use a prefix store.
	StoreKey = ModuleName
)

// prefix bytes for the persistent store
const (
	prefixCode = iota + 1
	prefixStorage
	prefixCodeHash
	prefixParams
)

// prefix byte tagging the transient address space.
// Transient slots never reach the KV store, the tag only exists so that the encoded identity
// of a transient slot can never be confused with a persistent storage key.
const (
	prefixTransientStorage = 0x80 + iota
)

// KVStore key prefixes
var (
	KeyPrefixCode     = []byte{prefixCode}
	KeyPrefixStorage  = []byte{prefixStorage}
	KeyPrefixCodeHash = []byte{prefixCodeHash}
	KeyPrefixParams   = []byte{prefixParams}
)

// KeyPrefixTransientStorage is the namespace tag of the transient address space.
var KeyPrefixTransientStorage = []byte{prefixTransientStorage}

// AddressStoragePrefix returns a prefix to iterate over a given account storage.
func AddressStoragePrefix(address common.Address) []byte {
	return append(append([]byte{}, KeyPrefixStorage...), address.Bytes()...)
}

// StateKey defines the full key under which an account state is stored.
func StateKey(address common.Address, key []byte) []byte {
	return append(AddressStoragePrefix(address), key...)
}

// TransientStateKey defines the encoded identity of a transient slot.
// It shares the shape of StateKey but lives under its own namespace tag.
func TransientStateKey(address common.Address, key []byte) []byte {
	bz := make([]byte, 0, len(KeyPrefixTransientStorage)+common.AddressLength+len(key))
	bz = append(bz, KeyPrefixTransientStorage...)
	bz = append(bz, address.Bytes()...)
	return append(bz, key...)
}
