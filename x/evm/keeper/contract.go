package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/EscanBE/tstore/x/evm/vm"
)

// DeployContract stores the runtime code at the address after validating it against the rules
// at the block height of the context. Code using transient storage before it is activated is rejected.
func (k *Keeper) DeployContract(ctx sdk.Context, addr common.Address, code []byte) (common.Hash, error) {
	rules := k.GetParams(ctx).Rules(ctx.BlockHeight())
	if err := vm.ValidateCode(code, rules); err != nil {
		return common.Hash{}, errorsmod.Wrapf(err, "failed to deploy contract %s", addr.Hex())
	}

	codeHash := evmtypes.CodeHash(code)
	k.SetCode(ctx, codeHash, code)
	k.SetCodeHash(ctx, addr, codeHash)

	k.Logger(ctx).Debug(
		"contract deployed",
		"address", addr.Hex(),
		"code-hash", codeHash.Hex(),
		"size", len(code),
	)

	return codeHash, nil
}

// GetContractCode returns the code deployed at the address, nil if none.
func (k *Keeper) GetContractCode(ctx sdk.Context, addr common.Address) []byte {
	codeHash := k.GetCodeHash(ctx, addr)
	if evmtypes.IsEmptyCodeHash(codeHash) {
		return nil
	}
	return k.GetCode(ctx, codeHash)
}
