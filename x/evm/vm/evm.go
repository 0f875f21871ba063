package vm

import (
	"cosmossdk.io/log"

	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// EVM executes messages against the persistent state of the context.
// The transient state is only installed when the rules at the block height provide transient storage.
//
// Messages are executed one after another, the EVM is not thread safe.
type EVM struct {
	Config EVMConfig

	ctx    sdk.Context
	keeper EvmKeeper
	rules  evmtypes.Rules
	logger log.Logger
	tracer evmtypes.Tracer

	persistent *persistentState
	transient  *TransactionState

	interpreter *EVMInterpreter

	// validated caches the code validation result per code hash
	validated map[common.Hash]error

	usage           evmtypes.Usage
	steps           uint64
	transientWrites uint64
	rollbacks       uint64

	// fault is the first journal consistency fault, it aborts the whole transaction
	fault error
}

// NewEVM returns a new EVM bound to the given context.
func NewEVM(ctx sdk.Context, keeper EvmKeeper, config EVMConfig) *EVM {
	if config.Tracer == nil {
		config.Tracer = evmtypes.NewNoOpTracer()
	}
	if config.Logger == nil {
		config.Logger = log.NewNopLogger()
	}

	evm := &EVM{
		Config:    config,
		ctx:       ctx,
		keeper:    keeper,
		rules:     config.Params.Rules(ctx.BlockHeight()),
		logger:    config.Logger,
		tracer:    config.Tracer,
		validated: make(map[common.Hash]error),
		usage:     make(evmtypes.Usage),
	}

	if evm.rules.HasTransientStorage {
		evm.transient = NewTransactionState(evm.logger, evm.tracer)
	}

	evm.interpreter = NewEVMInterpreter(evm)

	return evm
}

// Execute runs the message as one transaction.
// The persistent changes are written into the context only if the root frame succeeds,
// the transient state is discarded at the end regardless of the outcome.
func (evm *EVM) Execute(msg evmtypes.Message) (res *evmtypes.ExecutionResult, err error) {
	evm.reset()

	evm.tracer.OnTxStart(msg.From, msg.To)
	if evm.transient != nil {
		if err = evm.transient.BeginTransaction(); err != nil {
			evm.tracer.OnTxEnd(err)
			return nil, err
		}
	}
	defer func() {
		if evm.transient != nil {
			evm.transient.EndTransaction()
		}
		evm.tracer.OnTxEnd(err)
	}()

	if err = evm.validate(evm.persistent.GetCodeHash(msg.To), evm.persistent.GetCode(msg.To)); err != nil {
		return nil, errorsmod.Wrapf(err, "contract %s", msg.To.Hex())
	}

	root := NewRootFrame(msg.From, msg.To, msg.Static)
	ret, vmErr := evm.enter(root, msg.Input)
	if evm.fault != nil {
		return nil, evm.fault
	}

	if vmErr == nil {
		if err = evm.persistent.CommitMultiStore(); err != nil {
			return nil, err
		}
	}

	res = &evmtypes.ExecutionResult{
		Ret:         ret,
		Usage:       evm.usage.Copy(),
		GasEstimate: evm.usage.GasEstimate(),
		Steps:       evm.steps,
	}
	if vmErr != nil {
		res.VmError = vmErr.Error()
	}

	return res, nil
}

// Call executes the code of the target in a child frame of the parent.
// The storage owner and the static flag of the child frame are resolved from the call type.
func (evm *EVM) Call(parent *Frame, callType evmtypes.CallType, target common.Address, input []byte) ([]byte, error) {
	if depth := uint64(parent.Depth() + 1); depth > evm.Config.Params.MaxCallDepth {
		return nil, errorsmod.Wrapf(evmtypes.ErrCallDepthExceeded, "depth %d, limit %d", depth, evm.Config.Params.MaxCallDepth)
	}

	frame, err := NewChildFrame(parent, callType, target)
	if err != nil {
		evm.recordFault(err)
		return nil, err
	}

	return evm.enter(frame, input)
}

// enter runs the frame and closes it, committing or reverting both the persistent branch
// and the transient journal segment of the frame.
func (evm *EVM) enter(frame *Frame, input []byte) (ret []byte, err error) {
	codeHash := evm.persistent.GetCodeHash(frame.Address())
	code := evm.persistent.GetCode(frame.Address())
	if err = evm.validate(codeHash, code); err != nil {
		return nil, err
	}

	snapshot := evm.persistent.Snapshot()
	if evm.transient != nil {
		if err = evm.transient.EnterFrame(frame); err != nil {
			evm.persistent.RevertToSnapshot(snapshot)
			evm.recordFault(err)
			return nil, err
		}
	}
	evm.tracer.OnEnter(frame.Info(input))

	contract := NewContract(frame.Caller(), frame.Address(), code, codeHash, input)
	ret, err = evm.interpreter.Run(contract, frame)
	if err == nil && evm.fault != nil {
		err = evm.fault
	}

	reverted := err != nil
	if reverted {
		evm.persistent.RevertToSnapshot(snapshot)
		evm.rollbacks++
	} else {
		evm.persistent.Commit(snapshot)
	}

	if evm.transient != nil {
		if exitErr := evm.transient.ExitFrame(frame, reverted); exitErr != nil {
			evm.recordFault(exitErr)
			err = exitErr
		}
	} else if reverted {
		frame.state = FrameStateRolledBack
	} else {
		frame.state = FrameStateCommitted
	}

	if err != nil && !errorsmod.IsOf(err, evmtypes.ErrExecutionReverted) {
		ret = nil
	}

	evm.tracer.OnExit(frame.Depth(), ret, err, reverted)

	return ret, err
}

func (evm *EVM) validate(codeHash common.Hash, code []byte) error {
	if err, found := evm.validated[codeHash]; found {
		return err
	}

	err := ValidateCode(code, evm.rules)
	evm.validated[codeHash] = err
	return err
}

// step counts one executed instruction against the step limit of the transaction.
func (evm *EVM) step() error {
	if limit := evm.Config.Params.StepLimit; limit > 0 && evm.steps >= limit {
		return errorsmod.Wrapf(evmtypes.ErrStepLimitReached, "limit %d", limit)
	}
	evm.steps++
	return nil
}

// recordFault keeps the first host integration fault, any other error only reverts the frame.
func (evm *EVM) recordFault(err error) {
	if evm.fault != nil {
		return
	}
	if !errorsmod.IsOf(err, evmtypes.ErrJournalConsistency, evmtypes.ErrTransactionNotActive) {
		return
	}

	evm.fault = err
	evm.logger.Error("transient state fault, aborting transaction", "error", err.Error())
}

func (evm *EVM) reset() {
	evm.persistent = newPersistentState(evm.ctx, evm.keeper)
	evm.usage = make(evmtypes.Usage)
	evm.steps = 0
	evm.transientWrites = 0
	evm.rollbacks = 0
	evm.fault = nil
}

// Rules returns the feature set the EVM was created with.
func (evm *EVM) Rules() evmtypes.Rules {
	return evm.rules
}

// TransientState returns the transient state handle, nil when transient storage is not available.
func (evm *EVM) TransientState() *TransactionState {
	return evm.transient
}

// TransientWrites returns the number of successful TSTORE executed by the last transaction.
func (evm *EVM) TransientWrites() uint64 {
	return evm.transientWrites
}

// Rollbacks returns the number of reverted frames of the last transaction.
func (evm *EVM) Rollbacks() uint64 {
	return evm.rollbacks
}
