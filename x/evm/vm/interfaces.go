package vm

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// EvmKeeper is the persistent storage backend of the engine.
type EvmKeeper interface {
	GetState(ctx sdk.Context, addr common.Address, key common.Hash) common.Hash
	SetState(ctx sdk.Context, addr common.Address, key common.Hash, value []byte)
	GetCodeHash(ctx sdk.Context, addr common.Address) common.Hash
	GetCode(ctx sdk.Context, codeHash common.Hash) []byte
}
