package keeper_test

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/EscanBE/tstore/testutil"
	"github.com/EscanBE/tstore/x/evm/asm"
	evmkeeper "github.com/EscanBE/tstore/x/evm/keeper"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

func (suite *KeeperTestSuite) TestNewKeeper() {
	suite.Require().Panics(func() {
		evmkeeper.NewKeeper(nil, evmtypes.TracerNoOp)
	})

	keeper := evmkeeper.NewKeeper(suite.key, evmtypes.TracerCall)
	suite.Equal(suite.key, keeper.StoreKey())
	suite.Equal(evmtypes.TracerCall, keeper.Tracer())
}

func (suite *KeeperTestSuite) TestState() {
	addr := testutil.GenerateAddress()
	key1 := common.BigToHash(common.Big1)
	key2 := common.BigToHash(common.Big2)
	value := testutil.GenerateHash()

	suite.Equal(common.Hash{}, suite.keeper.GetState(suite.ctx, addr, key1))

	suite.keeper.SetState(suite.ctx, addr, key1, value.Bytes())
	suite.keeper.SetState(suite.ctx, addr, key2, value.Bytes())
	suite.keeper.SetState(suite.ctx, testutil.GenerateAddress(), key1, value.Bytes())
	suite.Equal(value, suite.keeper.GetState(suite.ctx, addr, key1))

	var keys []common.Hash
	suite.keeper.ForEachStorage(suite.ctx, addr, func(key, v common.Hash) bool {
		suite.Equal(value, v)
		keys = append(keys, key)
		return true
	})
	suite.Equal([]common.Hash{key1, key2}, keys, "storage of other accounts must not be visited")

	keys = nil
	suite.keeper.ForEachStorage(suite.ctx, addr, func(key, _ common.Hash) bool {
		keys = append(keys, key)
		return false
	})
	suite.Len(keys, 1, "iteration stops when the callback returns false")

	suite.keeper.SetState(suite.ctx, addr, key1, nil)
	suite.Equal(common.Hash{}, suite.keeper.GetState(suite.ctx, addr, key1))
}

func (suite *KeeperTestSuite) TestCode() {
	addr := testutil.GenerateAddress()
	suite.Equal(evmtypes.EmptyCodeHash, suite.keeper.GetCodeHash(suite.ctx, addr))
	suite.Nil(suite.keeper.GetContractCode(suite.ctx, addr))

	code := asm.MustAssemble("PUSH 1 PUSH 0 TSTORE STOP")
	codeHash, err := suite.keeper.DeployContract(suite.ctx, addr, code)
	suite.Require().NoError(err)
	suite.Equal(evmtypes.CodeHash(code), codeHash)
	suite.Equal(codeHash, suite.keeper.GetCodeHash(suite.ctx, addr))
	suite.Equal(code, suite.keeper.GetCode(suite.ctx, codeHash))
	suite.Equal(code, suite.keeper.GetContractCode(suite.ctx, addr))

	other := testutil.GenerateAddress()
	_, err = suite.keeper.DeployContract(suite.ctx, other, code)
	suite.Require().NoError(err)

	contracts := make(map[common.Address]common.Hash)
	suite.keeper.IterateContracts(suite.ctx, func(addr common.Address, codeHash common.Hash) bool {
		contracts[addr] = codeHash
		return false
	})
	suite.Equal(map[common.Address]common.Hash{addr: codeHash, other: codeHash}, contracts)

	suite.keeper.DeleteCodeHash(suite.ctx, other)
	suite.Equal(evmtypes.EmptyCodeHash, suite.keeper.GetCodeHash(suite.ctx, other))

	suite.keeper.SetCode(suite.ctx, codeHash, nil)
	suite.Nil(suite.keeper.GetCode(suite.ctx, codeHash))
}

func (suite *KeeperTestSuite) TestParams() {
	defaultParams := suite.keeper.GetParams(suite.ctx)
	suite.Require().NoError(defaultParams.Validate())
	suite.Equal(evmtypes.DefaultParams().ExtraEIPs, defaultParams.ExtraEIPs)
	suite.Equal(evmtypes.DefaultParams().MaxCallDepth, defaultParams.MaxCallDepth)
	suite.Require().NotNil(defaultParams.ChainConfig.CancunBlock)
	suite.True(defaultParams.ChainConfig.CancunBlock.IsZero())

	params := evmtypes.DefaultParams()
	params.ChainConfig = evmtypes.PreCancunChainConfig()
	params.ExtraEIPs = []int64{evmtypes.EIP1153}
	params.StepLimit = 100
	suite.Require().NoError(suite.keeper.SetParams(suite.ctx, params))

	got := suite.keeper.GetParams(suite.ctx)
	suite.Equal(params.StepLimit, got.StepLimit)
	suite.Equal(params.ExtraEIPs, got.ExtraEIPs)
	suite.Nil(got.ChainConfig.CancunBlock)
	suite.True(got.IsTransientStorageEnabled(suite.ctx.BlockHeight()), "enabled by extra EIP")

	params.MaxCallDepth = 0
	suite.Require().ErrorIs(suite.keeper.SetParams(suite.ctx, params), evmtypes.ErrInvalidParams)
	suite.Equal(uint64(100), suite.keeper.GetParams(suite.ctx).StepLimit, "invalid params must not be stored")
}

func (suite *KeeperTestSuite) TestApplyMessage() {
	// stores 0x2a into transient slot 0 and persistent slot 0, returns the transient value
	const source = `
		PUSH 0x2a PUSH 0 TSTORE
		PUSH 0x2a PUSH 0 SSTORE
		PUSH 0 TLOAD PUSH 0 MSTORE
		PUSH 32 PUSH 0 RETURN
	`

	suite.Run("commit", func() {
		suite.SetupTest()
		contract, err := suite.deploy(source)
		suite.Require().NoError(err)

		res, err := suite.call(contract, nil)
		suite.Require().NoError(err)
		suite.False(res.Failed(), res.VmError)
		suite.Equal([]uint64{0x2a}, words(res.Ret))
		suite.Equal(uint64(2), res.Usage[evmtypes.CostClassTransient], "one TLOAD and one TSTORE")
		suite.Equal(uint64(1), res.Usage[evmtypes.CostClassPersistentStore])
		suite.NotZero(res.GasEstimate)
		suite.NotZero(res.Steps)

		suite.Equal(common.BigToHash(big.NewInt(0x2a)), suite.keeper.GetState(suite.ctx, contract, common.Hash{}))
	})

	suite.Run("no commit", func() {
		suite.SetupTest()
		contract, err := suite.deploy(source)
		suite.Require().NoError(err)

		res, err := suite.keeper.ApplyMessage(suite.ctx, evmtypes.NewMessage(suite.address, contract, nil), nil, false)
		suite.Require().NoError(err)
		suite.False(res.Failed())
		suite.Equal(common.Hash{}, suite.keeper.GetState(suite.ctx, contract, common.Hash{}), "changes must be discarded")
	})

	suite.Run("static root call", func() {
		suite.SetupTest()
		contract, err := suite.deploy(source)
		suite.Require().NoError(err)

		msg := evmtypes.NewMessage(suite.address, contract, nil)
		msg.Static = true
		res, err := suite.keeper.ApplyMessage(suite.ctx, msg, nil, true)
		suite.Require().NoError(err, "a frame-fatal error is not a transaction error")
		suite.True(res.Failed())
		suite.Contains(res.VmError, evmtypes.ErrStaticContextViolation.Error())
		suite.Empty(res.Ret)
	})

	suite.Run("reverted root frame", func() {
		suite.SetupTest()
		contract, err := suite.deploy(`
			PUSH 1 PUSH 0 SSTORE
			PUSH 0x2a PUSH 0 MSTORE
			PUSH 32 PUSH 0 REVERT
		`)
		suite.Require().NoError(err)

		res, err := suite.call(contract, nil)
		suite.Require().NoError(err)
		suite.True(res.Failed())
		suite.Equal([]uint64{0x2a}, words(res.Ret), "revert data is returned")
		suite.Equal(common.Hash{}, suite.keeper.GetState(suite.ctx, contract, common.Hash{}), "changes of a reverted root frame are discarded")
	})

	suite.Run("call tracer", func() {
		suite.SetupTest()
		contract, err := suite.deploy(source)
		suite.Require().NoError(err)

		tracer := evmtypes.NewCallTracer()
		_, err = suite.keeper.ApplyMessage(suite.ctx, evmtypes.NewMessage(suite.address, contract, nil), tracer, true)
		suite.Require().NoError(err)

		root := tracer.Root()
		suite.Require().NotNil(root)
		suite.Equal(contract, root.To)
		suite.Equal(suite.address, root.From)
		suite.Require().Len(root.TransientWrites, 1)
		suite.Equal(common.BigToHash(common.Big0), root.TransientWrites[0].Key)
		suite.NoError(tracer.TxError())

		bz, err := tracer.GetResult()
		suite.Require().NoError(err)
		suite.Contains(string(bz), `"transientWrites"`)
	})
}

func (suite *KeeperTestSuite) TestApplyMessages() {
	// increments transient slot 0 and returns the new value
	contract, err := suite.deploy(`
		PUSH 0 TLOAD PUSH 1 ADD
		DUP1 PUSH 0 TSTORE
		PUSH 0 MSTORE
		PUSH 32 PUSH 0 RETURN
	`)
	suite.Require().NoError(err)

	msg := evmtypes.NewMessage(suite.address, contract, nil)
	results, err := suite.keeper.ApplyMessages(suite.ctx, []evmtypes.Message{msg, msg, msg}, nil, true)
	suite.Require().NoError(err)
	suite.Require().Len(results, 3)
	for _, res := range results {
		suite.Equal([]uint64{1}, words(res.Ret), "transient values never leak into the next transaction")
	}

	noCode := testutil.GenerateAddress()
	results, err = suite.keeper.ApplyMessages(suite.ctx, []evmtypes.Message{msg, evmtypes.NewMessage(suite.address, noCode, nil)}, nil, true)
	suite.Require().NoError(err, "calling an address without code succeeds")
	suite.Len(results, 2)
	suite.Empty(results[1].Ret)
}
