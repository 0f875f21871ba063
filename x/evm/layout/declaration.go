package layout

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// VariableDeclaration is the JSON form of a Variable.
type VariableDeclaration struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Transient bool   `json:"transient,omitempty"`
}

// ContractDeclaration is the JSON form of a Contract, bases are referenced by name.
type ContractDeclaration struct {
	Name  string                `json:"name"`
	Bases []string              `json:"bases,omitempty"`
	Vars  []VariableDeclaration `json:"vars"`
}

// ParseContracts decodes a JSON array of contract declarations and returns the contract with the given name,
// its bases linked. A base without declaration is left nil so that Resolve reports it.
func ParseContracts(bz []byte, name string) (*Contract, error) {
	var declarations []ContractDeclaration
	if err := json.Unmarshal(bz, &declarations); err != nil {
		return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "failed to decode contract declarations: %s", err)
	}

	contracts := make(map[string]*Contract, len(declarations))
	for _, declaration := range declarations {
		if _, found := contracts[declaration.Name]; found {
			return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "contract name %s declared twice", declaration.Name)
		}

		contract := &Contract{Name: declaration.Name}
		for _, v := range declaration.Vars {
			contract.Vars = append(contract.Vars, Variable{
				Name:      v.Name,
				Size:      v.Size,
				Transient: v.Transient,
			})
		}
		contracts[declaration.Name] = contract
	}

	for _, declaration := range declarations {
		contract := contracts[declaration.Name]
		for _, base := range declaration.Bases {
			contract.Bases = append(contract.Bases, contracts[base])
		}
	}

	contract, found := contracts[name]
	if !found {
		return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "contract %s is not declared", name)
	}
	return contract, nil
}
