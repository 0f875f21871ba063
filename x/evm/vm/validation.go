package vm

import (
	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// ValidateCode walks the code, skipping PUSH immediates, and rejects the instructions
// the rules do not provide.
// TLOAD and TSTORE on an engine without transient storage fail with ErrUnsupportedFeature.
func ValidateCode(code []byte, rules evmtypes.Rules) error {
	for pc := 0; pc < len(code); pc++ {
		op := OpCode(code[pc])

		switch op {
		case TLOAD, TSTORE:
			if !rules.HasTransientStorage {
				return errorsmod.Wrapf(
					evmtypes.ErrUnsupportedFeature, "%s at position %d requires transient storage (EIP-1153)", op, pc,
				)
			}
		case PUSH0:
			if !rules.HasPush0 {
				return errorsmod.Wrapf(evmtypes.ErrUnsupportedFeature, "%s at position %d requires EIP-3855", op, pc)
			}
		}

		pc += op.pushDataSize()
	}

	return nil
}
