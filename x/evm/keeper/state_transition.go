package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/EscanBE/tstore/x/evm/vm"
)

const (
	txStatusSuccess  = "success"
	txStatusReverted = "reverted"
	txStatusError    = "error"
)

// NewEVM generates a new VM bound to the context, using the module params stored at the context.
// The transient state is only installed when transient storage is active at the block height of the context.
func (k *Keeper) NewEVM(ctx sdk.Context, tracer evmtypes.Tracer) *vm.EVM {
	if tracer == nil {
		tracer = evmtypes.NewTracer(k.tracer)
	}

	return vm.NewEVM(ctx, k, vm.EVMConfig{
		Params: k.GetParams(ctx),
		Tracer: tracer,
		Logger: k.Logger(ctx),
	})
}

// ApplyMessage executes the message as one transaction, with a transient state of its own.
//
// # Reverted state
//
// Each frame works on a branch of the persistent state, reverting a frame drops the branch
// and rolls back the journal segment of the frame in the transient state.
// The persistent changes of the transaction are written into the context only if the root frame succeeds
// and only if commit is true. The transient state is discarded at the end regardless of the outcome.
//
// # Errors
//
// A failed root frame is not an error, the reason is available in the result.
// Errors are returned when the code can not be executed with the rules at the block height,
// or the transient state was driven out of order.
func (k *Keeper) ApplyMessage(
	ctx sdk.Context,
	msg evmtypes.Message,
	tracer evmtypes.Tracer,
	commit bool,
) (*evmtypes.ExecutionResult, error) {
	if !commit {
		// discard every change on return
		ctx, _ = ctx.CacheContext()
	}

	evm := k.NewEVM(ctx, tracer)

	res, err := evm.Execute(msg)
	k.emitTelemetry(evm, res, err)

	if err != nil {
		return nil, errorsmod.Wrap(err, "failed to apply message")
	}

	k.Logger(ctx).Debug(
		"message applied",
		"to", msg.To.Hex(),
		"failed", res.Failed(),
		"steps", res.Steps,
		"rollbacks", evm.Rollbacks(),
	)

	return res, nil
}

// ApplyMessages executes the messages one after another, each as its own transaction.
// The execution stops at the first message that could not be applied.
func (k *Keeper) ApplyMessages(
	ctx sdk.Context,
	msgs []evmtypes.Message,
	tracer evmtypes.Tracer,
	commit bool,
) ([]*evmtypes.ExecutionResult, error) {
	if !commit {
		// later messages still observe the changes of the earlier ones
		ctx, _ = ctx.CacheContext()
	}

	results := make([]*evmtypes.ExecutionResult, 0, len(msgs))
	for i, msg := range msgs {
		res, err := k.ApplyMessage(ctx, msg, tracer, true)
		if err != nil {
			return results, errorsmod.Wrapf(err, "message %d", i)
		}
		results = append(results, res)
	}
	return results, nil
}

func (k *Keeper) emitTelemetry(evm *vm.EVM, res *evmtypes.ExecutionResult, err error) {
	status := txStatusSuccess
	if err != nil {
		status = txStatusError
	} else if res.Failed() {
		status = txStatusReverted
	}

	telemetry.IncrCounterWithLabels(
		[]string{evmtypes.ModuleName, "tx", "total"},
		1,
		[]metrics.Label{telemetry.NewLabel("status", status)},
	)

	if evm.Rollbacks() != 0 {
		telemetry.IncrCounter(float32(evm.Rollbacks()), evmtypes.ModuleName, "frame", "rollback")
	}

	if evm.TransientWrites() != 0 {
		telemetry.IncrCounter(float32(evm.TransientWrites()), evmtypes.ModuleName, "tstore", "total")
	}
}
