package main

import (
	"encoding/json"
	"os"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	sdkdb "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/EscanBE/tstore/constants"
	evmkeeper "github.com/EscanBE/tstore/x/evm/keeper"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// engine is a single block chain state kept in memory, contracts are deployed and executed
// against its working state.
type engine struct {
	ctx    sdk.Context
	keeper *evmkeeper.Keeper
	origin common.Address
	nonce  uint64
}

func newEngine(logger log.Logger, cfg config) (*engine, error) {
	key := storetypes.NewKVStoreKey(evmtypes.StoreKey)

	db := sdkdb.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	header := cmtproto.Header{
		ChainID: constants.ApplicationName,
		Height:  cfg.Height,
		Time:    time.Now().UTC(),
	}
	ctx := sdk.NewContext(cms, header, false, logger)

	keeper := evmkeeper.NewKeeper(key, evmtypes.TracerCall)
	if err := keeper.SetParams(ctx, cfg.Params); err != nil {
		return nil, err
	}

	return &engine{
		ctx:    ctx,
		keeper: keeper,
		origin: cfg.origin(),
	}, nil
}

// deploy stores the code at the next address derived from the origin.
func (e *engine) deploy(code []byte) (common.Address, error) {
	addr := crypto.CreateAddress(e.origin, e.nonce)
	if _, err := e.keeper.DeployContract(e.ctx, addr, code); err != nil {
		return common.Address{}, err
	}
	e.nonce++
	return addr, nil
}

// execute runs a single transaction and commits its changes into the working state.
func (e *engine) execute(msg evmtypes.Message) (*evmtypes.ExecutionResult, *evmtypes.CallTracer, error) {
	tracer := evmtypes.NewCallTracer()
	res, err := e.keeper.ApplyMessage(e.ctx, msg, tracer, true)
	if err != nil {
		return nil, nil, err
	}
	return res, tracer, nil
}

// importGenesis deploys the accounts of the genesis file, the params of the file are replaced
// by the configured ones.
func (e *engine) importGenesis(file string, params evmtypes.Params) error {
	bz, err := os.ReadFile(file)
	if err != nil {
		return errorsmod.Wrapf(err, "failed to read genesis file %s", file)
	}

	var genesis evmtypes.GenesisState
	if err := json.Unmarshal(bz, &genesis); err != nil {
		return errorsmod.Wrapf(evmtypes.ErrInvalidGenesis, "failed to parse genesis file %s: %s", file, err)
	}
	genesis.Params = params

	return e.keeper.InitGenesis(e.ctx, genesis)
}

// exportState returns the persistent state of every contract.
func (e *engine) exportState() *evmtypes.GenesisState {
	return e.keeper.ExportGenesis(e.ctx)
}
