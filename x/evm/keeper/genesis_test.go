package keeper_test

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/EscanBE/tstore/testutil"
	"github.com/EscanBE/tstore/x/evm/asm"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

func (suite *KeeperTestSuite) TestInitGenesis() {
	// returns persistent slot 1
	code := asm.MustAssemble("PUSH 1 SLOAD PUSH 0 MSTORE PUSH 32 PUSH 0 RETURN")
	contract := testutil.GenerateAddress()

	genesis := evmtypes.DefaultGenesisState()
	genesis.Params.StepLimit = 1000
	genesis.Accounts = []evmtypes.GenesisAccount{
		{
			Address: contract.Hex(),
			Code:    common.Bytes2Hex(code),
			Storage: evmtypes.Storage{
				evmtypes.NewState(common.BigToHash(common.Big1), common.BigToHash(common.Big3)),
				evmtypes.NewState(common.BigToHash(common.Big2), common.Hash{}),
			},
		},
	}
	suite.Require().NoError(suite.keeper.InitGenesis(suite.ctx, *genesis))

	suite.Equal(uint64(1000), suite.keeper.GetParams(suite.ctx).StepLimit)
	suite.Equal(code, suite.keeper.GetContractCode(suite.ctx, contract))
	suite.Equal(
		evmtypes.Storage{evmtypes.NewState(common.BigToHash(common.Big1), common.BigToHash(common.Big3))},
		suite.keeper.GetAccountStorage(suite.ctx, contract),
		"zero values are not stored",
	)

	res, err := suite.call(contract, nil)
	suite.Require().NoError(err)
	suite.Equal([]uint64{3}, words(res.Ret))

	exported := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(exported.Validate())
	suite.Require().Len(exported.Accounts, 1)
	suite.Equal(contract.Hex(), exported.Accounts[0].Address)
	suite.Equal(common.Bytes2Hex(code), exported.Accounts[0].Code)
	suite.Len(exported.Accounts[0].Storage, 1)
	suite.Equal(uint64(1000), exported.Params.StepLimit)
}

func (suite *KeeperTestSuite) TestInitGenesis_Errors() {
	suite.Run("invalid genesis", func() {
		suite.SetupTest()
		err := suite.keeper.InitGenesis(suite.ctx, evmtypes.GenesisState{})
		suite.Require().Error(err)
	})

	suite.Run("transient storage not activated", func() {
		suite.SetupTest()
		genesis := evmtypes.DefaultGenesisState()
		genesis.Params.ChainConfig = evmtypes.PreCancunChainConfig()
		genesis.Params.ExtraEIPs = nil
		genesis.Accounts = []evmtypes.GenesisAccount{
			{
				Address: testutil.GenerateAddress().Hex(),
				Code:    common.Bytes2Hex(asm.MustAssemble("PUSH 1 PUSH 0 TSTORE")),
			},
		}
		err := suite.keeper.InitGenesis(suite.ctx, *genesis)
		suite.Require().ErrorIs(err, evmtypes.ErrUnsupportedFeature)
	})
}
