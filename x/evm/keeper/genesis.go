package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// InitGenesis initializes the persistent state based on exported genesis.
// The code of every account is validated against the rules at the block height of the context.
func (k *Keeper) InitGenesis(ctx sdk.Context, data evmtypes.GenesisState) error {
	if err := data.Validate(); err != nil {
		return err
	}

	if err := k.SetParams(ctx, data.Params); err != nil {
		return errorsmod.Wrap(err, "error setting params")
	}

	for _, account := range data.Accounts {
		address := common.HexToAddress(account.Address)

		code, err := account.DecodeCode()
		if err != nil {
			return err
		}
		if len(code) > 0 {
			if _, err := k.DeployContract(ctx, address, code); err != nil {
				return err
			}
		}

		for _, state := range account.Storage {
			value := common.HexToHash(state.Value)
			if value == (common.Hash{}) {
				continue
			}
			k.SetState(ctx, address, common.HexToHash(state.Key), value.Bytes())
		}
	}

	k.Logger(ctx).Info("genesis imported", "accounts", len(data.Accounts))

	return nil
}

// ExportGenesis exports the persistent state, contracts are ordered by address.
func (k *Keeper) ExportGenesis(ctx sdk.Context) *evmtypes.GenesisState {
	accounts := make([]evmtypes.GenesisAccount, 0)
	k.IterateContracts(ctx, func(addr common.Address, codeHash common.Hash) bool {
		accounts = append(accounts, evmtypes.GenesisAccount{
			Address: addr.Hex(),
			Code:    common.Bytes2Hex(k.GetCode(ctx, codeHash)),
			Storage: k.GetAccountStorage(ctx, addr),
		})
		return false
	})

	return evmtypes.NewGenesisState(k.GetParams(ctx), accounts)
}

// GetAccountStorage return state storage associated with an account
func (k *Keeper) GetAccountStorage(ctx sdk.Context, address common.Address) evmtypes.Storage {
	storage := evmtypes.Storage{}

	k.ForEachStorage(ctx, address, func(key, value common.Hash) bool {
		storage = append(storage, evmtypes.NewState(key, value))
		return true
	})

	return storage
}
