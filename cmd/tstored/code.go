package main

import (
	"os"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/EscanBE/tstore/x/evm/asm"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

const (
	flagCode = "code"
	flagAsm  = "asm"
)

func addCodeFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagCode, "", "Hex encoded bytecode")
	cmd.Flags().String(flagAsm, "", "Assembly source file")
	cmd.MarkFlagsMutuallyExclusive(flagCode, flagAsm)
	cmd.MarkFlagsOneRequired(flagCode, flagAsm)
}

// readCode returns the bytecode given by either --code or --asm.
func readCode(cmd *cobra.Command) ([]byte, error) {
	if file, _ := cmd.Flags().GetString(flagAsm); file != "" {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "failed to read %s", file)
		}
		return asm.Assemble(string(source))
	}

	code, _ := cmd.Flags().GetString(flagCode)
	return decodeHex(flagCode, code)
}

// decodeHex decodes a hex string, the 0x prefix is optional.
func decodeHex(name, s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	bz, err := hexutil.Decode(s)
	if err != nil {
		return nil, errorsmod.Wrapf(evmtypes.ErrInvalidParams, "%s: %s", name, err)
	}
	return bz, nil
}
