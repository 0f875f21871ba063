package keeper

import (
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// Keeper grants access to the contract code and persistent storage and drives the transaction execution.
type Keeper struct {
	// Store key required for the prefix KVStore. It is required by:
	// - storing account's Storage State
	// - storing account's Code
	// - storing module params
	storeKey storetypes.StoreKey

	// Tracer used to collect execution traces from the transaction execution
	tracer string
}

// NewKeeper generates new evm module keeper
func NewKeeper(storeKey storetypes.StoreKey, tracer string) *Keeper {
	if storeKey == nil {
		panic("store key is required")
	}

	return &Keeper{
		storeKey: storeKey,
		tracer:   tracer,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+evmtypes.ModuleName)
}

// StoreKey returns the key of the store holding the module state.
func (k Keeper) StoreKey() storetypes.StoreKey {
	return k.storeKey
}

// Tracer returns the name of the tracer used when none is provided to ApplyMessage.
func (k Keeper) Tracer() string {
	return k.tracer
}
