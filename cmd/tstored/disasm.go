package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EscanBE/tstore/x/evm/asm"
)

// NewDisasmCmd returns the command printing the disassembly of the code.
func NewDisasmCmd(_ *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm",
		Short: "Print the disassembly of the code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readCode(cmd)
			if err != nil {
				return err
			}

			for _, line := range asm.Disassemble(code) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	addCodeFlags(cmd)

	return cmd
}
