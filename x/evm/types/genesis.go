package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// GenesisAccount is a contract deployed at genesis, with its persistent storage.
type GenesisAccount struct {
	Address string  `json:"address"`
	Code    string  `json:"code,omitempty"`
	Storage Storage `json:"storage,omitempty"`
}

// GenesisState is the persistent state the engine starts from, transient storage never
// survives a transaction so it is not part of it.
type GenesisState struct {
	Params   Params           `json:"params"`
	Accounts []GenesisAccount `json:"accounts,omitempty"`
}

// Validate performs a basic validation of a GenesisAccount fields.
func (ga GenesisAccount) Validate() error {
	if !common.IsHexAddress(ga.Address) {
		return errorsmod.Wrapf(ErrInvalidGenesis, "invalid address %q", ga.Address)
	}
	if _, err := ga.DecodeCode(); err != nil {
		return err
	}
	return ga.Storage.Validate()
}

// DecodeCode returns the code of the account, the 0x prefix is optional.
func (ga GenesisAccount) DecodeCode() ([]byte, error) {
	if ga.Code == "" {
		return nil, nil
	}

	code := ga.Code
	if !has0xPrefix(code) {
		code = "0x" + code
	}
	bz, err := hexutil.Decode(code)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidGenesis, "invalid code of %s: %s", ga.Address, err)
	}
	return bz, nil
}

// NewGenesisState creates a new genesis state.
func NewGenesisState(params Params, accounts []GenesisAccount) *GenesisState {
	return &GenesisState{
		Accounts: accounts,
		Params:   params,
	}
}

// DefaultGenesisState sets default genesis state.
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Accounts: []GenesisAccount{},
		Params:   DefaultParams(),
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	seenAccounts := make(map[common.Address]bool)
	for _, acc := range gs.Accounts {
		if err := acc.Validate(); err != nil {
			return errorsmod.Wrapf(err, "invalid genesis account %s", acc.Address)
		}

		address := common.HexToAddress(acc.Address)
		if seenAccounts[address] {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicated genesis account %s", acc.Address)
		}
		seenAccounts[address] = true
	}

	return gs.Params.Validate()
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
