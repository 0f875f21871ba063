package main

import (
	"encoding/json"
	"fmt"
	"os"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/EscanBE/tstore/x/evm/layout"
)

const (
	flagDeclarations = "declarations"
	flagContract     = "contract"
)

// LayoutOutput is the JSON document printed by the layout command.
type LayoutOutput struct {
	Contract  string           `json:"contract"`
	Order     []string         `json:"order"`
	Variables []LayoutVariable `json:"variables"`
}

// LayoutVariable is the resolved location of a state variable.
type LayoutVariable struct {
	Name      string      `json:"name"`
	Slot      common.Hash `json:"slot"`
	Offset    int         `json:"offset"`
	Size      int         `json:"size"`
	Transient bool        `json:"transient"`
}

// NewLayoutCmd returns the command resolving the storage layout of a contract.
func NewLayoutCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Resolve the storage locations of the state variables of a contract",
		Long: `Resolve the storage locations of the state variables of a contract and its bases.

The declarations file is a JSON array of contracts, bases are referenced by name:
  [{"name": "A", "vars": [{"name": "x", "size": 32, "transient": true}]},
   {"name": "C", "bases": ["A"], "vars": [{"name": "w", "size": 32}]}]

Transient and persistent variables are assigned slots independently.`,
		Example: `tstored layout --declarations contracts.json --contract C`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString(flagDeclarations)
			name, _ := cmd.Flags().GetString(flagContract)

			bz, err := os.ReadFile(file)
			if err != nil {
				return errorsmod.Wrapf(err, "failed to read %s", file)
			}

			contract, err := layout.ParseContracts(bz, name)
			if err != nil {
				return err
			}

			resolved, err := layout.Resolve(contract)
			if err != nil {
				return err
			}

			output := LayoutOutput{
				Contract: resolved.Contract,
				Order:    resolved.Order,
			}
			for _, v := range resolved.Names() {
				loc := resolved.MustLookup(v)
				output.Variables = append(output.Variables, LayoutVariable{
					Name:      v,
					Slot:      loc.Slot,
					Offset:    loc.Offset,
					Size:      loc.Size,
					Transient: loc.Transient,
				})
				c.logger.Debug("variable resolved", "name", v, "location", loc.String())
			}

			out, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().String(flagDeclarations, "", "JSON file of the contract declarations")
	cmd.Flags().String(flagContract, "", "Name of the contract to resolve")
	_ = cmd.MarkFlagRequired(flagDeclarations)
	_ = cmd.MarkFlagRequired(flagContract)

	return cmd
}
