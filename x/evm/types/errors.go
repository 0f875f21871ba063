package types

import (
	errorsmod "cosmossdk.io/errors"
)

const (
	codeErrEngineFailure = uint32(iota) + 2
	codeErrStaticContextViolation
	codeErrUnsupportedFeature
	codeErrJournalConsistency
	codeErrInvalidChainConfig
	codeErrInvalidParams
	codeErrCallDepthExceeded
	codeErrStackUnderflow
	codeErrStackOverflow
	codeErrInvalidJump
	codeErrInvalidOpcode
	codeErrExecutionReverted
	codeErrStepLimitReached
	codeErrInvalidCallType
	codeErrInvalidLayout
	codeErrAsmSyntax
	codeErrTransactionNotActive
	codeErrTransactionActive
	codeErrWriteProtection
	codeErrMemoryLimit
	codeErrReturnDataOutOfBounds
	codeErrInvalidGenesis
)

var (
	// ErrEngineFailure returns an error if the engine reached a state which must never happen
	ErrEngineFailure = errorsmod.Register(ModuleName, codeErrEngineFailure, "engine failure")

	// ErrStaticContextViolation returns an error if a transient write is attempted inside a static context
	ErrStaticContextViolation = errorsmod.Register(ModuleName, codeErrStaticContextViolation, "transient storage write in static context")

	// ErrUnsupportedFeature returns an error if the code uses an instruction the engine configuration does not provide
	ErrUnsupportedFeature = errorsmod.Register(ModuleName, codeErrUnsupportedFeature, "feature is not supported by the engine configuration")

	// ErrJournalConsistency returns an error if the host integration drives the journal out of order
	ErrJournalConsistency = errorsmod.Register(ModuleName, codeErrJournalConsistency, "journal consistency fault")

	// ErrInvalidChainConfig returns an error if the chain configuration is invalid
	ErrInvalidChainConfig = errorsmod.Register(ModuleName, codeErrInvalidChainConfig, "invalid chain configuration")

	// ErrInvalidParams returns an error if the module parameters are invalid
	ErrInvalidParams = errorsmod.Register(ModuleName, codeErrInvalidParams, "invalid params")

	// ErrCallDepthExceeded returns an error if a call exceeds the configured max depth
	ErrCallDepthExceeded = errorsmod.Register(ModuleName, codeErrCallDepthExceeded, "max call depth exceeded")

	// ErrStackUnderflow returns an error if an opcode pops more items than available
	ErrStackUnderflow = errorsmod.Register(ModuleName, codeErrStackUnderflow, "stack underflow")

	// ErrStackOverflow returns an error if an opcode pushes over the stack limit
	ErrStackOverflow = errorsmod.Register(ModuleName, codeErrStackOverflow, "stack limit reached")

	// ErrInvalidJump returns an error if the jump destination is not a JUMPDEST
	ErrInvalidJump = errorsmod.Register(ModuleName, codeErrInvalidJump, "invalid jump destination")

	// ErrInvalidOpcode returns an error if the opcode is not defined
	ErrInvalidOpcode = errorsmod.Register(ModuleName, codeErrInvalidOpcode, "invalid opcode")

	// ErrExecutionReverted returns an error if the frame executed REVERT
	ErrExecutionReverted = errorsmod.Register(ModuleName, codeErrExecutionReverted, "execution reverted")

	// ErrStepLimitReached returns an error if the transaction executed more opcodes than allowed
	ErrStepLimitReached = errorsmod.Register(ModuleName, codeErrStepLimitReached, "step limit reached")

	// ErrInvalidCallType returns an error if the call type is not one of the known call instructions
	ErrInvalidCallType = errorsmod.Register(ModuleName, codeErrInvalidCallType, "invalid call type")

	// ErrInvalidLayout returns an error if a contract storage layout can not be resolved
	ErrInvalidLayout = errorsmod.Register(ModuleName, codeErrInvalidLayout, "invalid storage layout")

	// ErrAsmSyntax returns an error if the assembly source can not be parsed
	ErrAsmSyntax = errorsmod.Register(ModuleName, codeErrAsmSyntax, "assembly syntax error")

	// ErrTransactionNotActive returns an error if the transient state is accessed outside a transaction
	ErrTransactionNotActive = errorsmod.Register(ModuleName, codeErrTransactionNotActive, "no active transaction")

	// ErrTransactionActive returns an error if a transaction is started while another one is still active
	ErrTransactionActive = errorsmod.Register(ModuleName, codeErrTransactionActive, "transaction already active")

	// ErrWriteProtection returns an error if a persistent write or value transfer is attempted inside a static context
	ErrWriteProtection = errorsmod.Register(ModuleName, codeErrWriteProtection, "write protection")

	// ErrMemoryLimit returns an error if a frame expands its memory over the engine limit
	ErrMemoryLimit = errorsmod.Register(ModuleName, codeErrMemoryLimit, "memory limit reached")

	// ErrReturnDataOutOfBounds returns an error if RETURNDATACOPY reads past the last return data
	ErrReturnDataOutOfBounds = errorsmod.Register(ModuleName, codeErrReturnDataOutOfBounds, "return data out of bounds")

	// ErrInvalidGenesis returns an error if the genesis state is invalid
	ErrInvalidGenesis = errorsmod.Register(ModuleName, codeErrInvalidGenesis, "invalid genesis state")
)
