package vm

import (
	"fmt"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/ethereum/go-ethereum/common"
)

// TransientSlot identifies a single transient storage cell.
// The owner is always the contract whose storage context is accessed, never the code address.
type TransientSlot struct {
	Owner common.Address
	Key   common.Hash
}

// ResolveSlot maps the storage owner and the key computed by the contract into a transient slot.
func ResolveSlot(owner common.Address, key common.Hash) TransientSlot {
	return TransientSlot{
		Owner: owner,
		Key:   key,
	}
}

// Bytes returns the encoded identity of the slot, under the transient namespace tag.
func (s TransientSlot) Bytes() []byte {
	return evmtypes.TransientStateKey(s.Owner, s.Key.Bytes())
}

func (s TransientSlot) String() string {
	return fmt.Sprintf("%s/%s", s.Owner.Hex(), s.Key.Hex())
}
