package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// GetParams returns the engine parameters, the default parameters when none were set.
func (k Keeper) GetParams(ctx sdk.Context) evmtypes.Params {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(evmtypes.KeyPrefixParams)
	if len(bz) == 0 {
		return evmtypes.DefaultParams()
	}

	var params evmtypes.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		panic(errorsmod.Wrap(err, "failed to unmarshal params"))
	}
	return params
}

// SetParams validates and stores the engine parameters.
func (k Keeper) SetParams(ctx sdk.Context, params evmtypes.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(params)
	if err != nil {
		return err
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(evmtypes.KeyPrefixParams, bz)
	return nil
}
