package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	TracerNoOp = "noop"
	TracerCall = "call"
)

// FrameInfo describes a frame at the moment it is entered.
type FrameInfo struct {
	Depth    int
	CallType CallType
	Caller   common.Address
	Address  common.Address // address of the executing code
	Owner    common.Address // owner of the storage accessed by the frame
	Static   bool
	Input    []byte
}

// Tracer receives the lifecycle events of a transaction execution.
type Tracer interface {
	// OnTxStart is called when the transient state of a new transaction has been initialized
	OnTxStart(origin, to common.Address)

	// OnTxEnd is called after the transient state has been discarded
	OnTxEnd(err error)

	// OnEnter is called when a frame is entered, after its journal checkpoint is taken
	OnEnter(frame FrameInfo)

	// OnExit is called when a frame is destroyed, after its journal segment was committed or rolled back
	OnExit(depth int, output []byte, err error, reverted bool)

	// OnTransientStore is called for every successful transient write
	OnTransientStore(owner common.Address, key, prev, value common.Hash)

	// OnTransientRollback is called when a frame journal segment is replayed
	OnTransientRollback(depth int, entries int)
}

// NewTracer creates a tracer by name, unknown names fall back to the no-op tracer.
func NewTracer(tracer string) Tracer {
	switch tracer {
	case TracerCall:
		return NewCallTracer()
	default:
		return NewNoOpTracer()
	}
}

var _ Tracer = &NoOpTracer{}

// NoOpTracer is an empty implementation of Tracer interface
type NoOpTracer struct{}

// NewNoOpTracer creates a no-op Tracer
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// OnTxStart implements Tracer interface
func (dt NoOpTracer) OnTxStart(_, _ common.Address) {}

// OnTxEnd implements Tracer interface
func (dt NoOpTracer) OnTxEnd(_ error) {}

// OnEnter implements Tracer interface
func (dt NoOpTracer) OnEnter(_ FrameInfo) {}

// OnExit implements Tracer interface
func (dt NoOpTracer) OnExit(_ int, _ []byte, _ error, _ bool) {}

// OnTransientStore implements Tracer interface
func (dt NoOpTracer) OnTransientStore(_ common.Address, _, _, _ common.Hash) {}

// OnTransientRollback implements Tracer interface
func (dt NoOpTracer) OnTransientRollback(_ int, _ int) {}

// CallFrame is one node of the call tree recorded by CallTracer.
type CallFrame struct {
	Type            CallType         `json:"type"`
	From            common.Address   `json:"from"`
	To              common.Address   `json:"to"`
	Owner           common.Address   `json:"owner"`
	Static          bool             `json:"static,omitempty"`
	Input           hexutil.Bytes    `json:"input,omitempty"`
	Output          hexutil.Bytes    `json:"output,omitempty"`
	Error           string           `json:"error,omitempty"`
	Reverted        bool             `json:"reverted,omitempty"`
	TransientWrites []TransientWrite `json:"transientWrites,omitempty"`
	RolledBack      int              `json:"rolledBack,omitempty"`
	Calls           []CallFrame      `json:"calls,omitempty"`
}

// TransientWrite is a transient write observed inside a frame.
type TransientWrite struct {
	Owner common.Address `json:"owner"`
	Key   common.Hash    `json:"key"`
	Prev  common.Hash    `json:"prev"`
	Value common.Hash    `json:"value"`
}

var _ Tracer = &CallTracer{}

// CallTracer tracks the call frames of a transaction.
type CallTracer struct {
	callstack []CallFrame
	err       error
}

// NewCallTracer returns a tracer which builds the call tree of a transaction.
func NewCallTracer() *CallTracer {
	return &CallTracer{}
}

// OnTxStart implements Tracer interface
func (t *CallTracer) OnTxStart(_, _ common.Address) {
	t.callstack = make([]CallFrame, 0, 1)
	t.err = nil
}

// OnTxEnd implements Tracer interface
func (t *CallTracer) OnTxEnd(err error) {
	t.err = err
}

// OnEnter implements Tracer interface
func (t *CallTracer) OnEnter(frame FrameInfo) {
	t.callstack = append(t.callstack, CallFrame{
		Type:   frame.CallType,
		From:   frame.Caller,
		To:     frame.Address,
		Owner:  frame.Owner,
		Static: frame.Static,
		Input:  common.CopyBytes(frame.Input),
	})
}

// OnExit implements Tracer interface
func (t *CallTracer) OnExit(_ int, output []byte, err error, reverted bool) {
	size := len(t.callstack)
	if size == 0 {
		return
	}

	call := t.callstack[size-1]
	call.Output = common.CopyBytes(output)
	call.Reverted = reverted
	if err != nil {
		call.Error = err.Error()
	}

	if size == 1 {
		// keep the root frame
		t.callstack[0] = call
		return
	}

	t.callstack = t.callstack[:size-1]
	t.callstack[size-2].Calls = append(t.callstack[size-2].Calls, call)
}

// OnTransientStore implements Tracer interface
func (t *CallTracer) OnTransientStore(owner common.Address, key, prev, value common.Hash) {
	size := len(t.callstack)
	if size == 0 {
		return
	}
	t.callstack[size-1].TransientWrites = append(t.callstack[size-1].TransientWrites, TransientWrite{
		Owner: owner,
		Key:   key,
		Prev:  prev,
		Value: value,
	})
}

// OnTransientRollback implements Tracer interface
func (t *CallTracer) OnTransientRollback(_ int, entries int) {
	size := len(t.callstack)
	if size == 0 {
		return
	}
	t.callstack[size-1].RolledBack = entries
}

// Root returns the root frame of the last traced transaction, nil when nothing was traced.
func (t *CallTracer) Root() *CallFrame {
	if len(t.callstack) < 1 {
		return nil
	}
	root := t.callstack[0]
	return &root
}

// GetResult returns the json-encoded call tree of the last traced transaction.
func (t *CallTracer) GetResult() (json.RawMessage, error) {
	root := t.Root()
	if root == nil {
		return nil, ErrEngineFailure.Wrap("incorrect number of top-level calls")
	}
	res, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// TxError returns the transaction level error reported by the last OnTxEnd.
func (t *CallTracer) TxError() error {
	return t.err
}
