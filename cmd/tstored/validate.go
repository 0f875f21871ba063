package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EscanBE/tstore/x/evm/vm"
)

// NewValidateCmd returns the command validating code against the rules at the configured height.
func NewValidateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the code against the rules activated at the configured height",
		Long: `Validate the code against the rules activated at the configured height.

Code using TLOAD or TSTORE before transient storage is activated, by the Cancun fork
or by the extra EIP 1153, is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readCode(cmd)
			if err != nil {
				return err
			}

			rules := c.config.Params.Rules(c.config.Height)
			if err := vm.ValidateCode(code, rules); err != nil {
				return err
			}

			c.logger.Debug(
				"code validated",
				"height", c.config.Height,
				"transient-storage", rules.HasTransientStorage,
				"push0", rules.HasPush0,
			)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}

	addCodeFlags(cmd)

	return cmd
}
