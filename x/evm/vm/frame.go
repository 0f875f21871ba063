package vm

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/ethereum/go-ethereum/common"
)

// FrameState is the lifecycle state of a call frame.
type FrameState uint8

const (
	FrameStateActive FrameState = iota
	FrameStateCommitted
	FrameStateRolledBack
)

func (s FrameState) String() string {
	switch s {
	case FrameStateActive:
		return "active"
	case FrameStateCommitted:
		return "committed"
	case FrameStateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// Frame is an entry of the call stack.
// The storage owner and the static flag are resolved once, when the frame is created.
type Frame struct {
	callType evmtypes.CallType
	caller   common.Address
	address  common.Address
	owner    common.Address
	static   bool
	depth    int

	marker  int
	entered bool
	state   FrameState
	parent  *Frame
}

// NewRootFrame creates the frame of the external call which starts a transaction.
func NewRootFrame(origin, to common.Address, static bool) *Frame {
	callType := evmtypes.CallTypeCall
	if static {
		callType = evmtypes.CallTypeStaticCall
	}

	return &Frame{
		callType: callType,
		caller:   origin,
		address:  to,
		owner:    to,
		static:   static,
		depth:    0,
	}
}

// NewChildFrame creates the frame of a call instruction executed by the parent frame.
//
//   - CALL and STATICCALL: the target owns the storage, the parent owner is the caller.
//   - DELEGATECALL: parent owner and parent caller are kept.
//   - CALLCODE: parent owner is kept and becomes the caller.
//
// The static flag is inherited and can not be cleared by any descendant.
func NewChildFrame(parent *Frame, callType evmtypes.CallType, target common.Address) (*Frame, error) {
	if parent == nil {
		return nil, errorsmod.Wrap(evmtypes.ErrJournalConsistency, "child frame requires a parent")
	}
	if parent.state != FrameStateActive {
		return nil, errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "parent frame at depth %d is %s", parent.depth, parent.state)
	}

	frame := &Frame{
		callType: callType,
		address:  target,
		static:   parent.static || callType.IsStatic(),
		depth:    parent.depth + 1,
		parent:   parent,
	}

	switch callType {
	case evmtypes.CallTypeCall, evmtypes.CallTypeStaticCall:
		frame.owner = target
		frame.caller = parent.owner
	case evmtypes.CallTypeDelegateCall:
		frame.owner = parent.owner
		frame.caller = parent.caller
	case evmtypes.CallTypeCallCode:
		frame.owner = parent.owner
		frame.caller = parent.owner
	default:
		return nil, callType.Validate()
	}

	return frame, nil
}

func (f *Frame) CallType() evmtypes.CallType {
	return f.callType
}

// Caller returns the msg.sender of the frame.
func (f *Frame) Caller() common.Address {
	return f.caller
}

// Address returns the address of the executing code.
func (f *Frame) Address() common.Address {
	return f.address
}

// Owner returns the address whose storage, persistent and transient, the frame accesses.
func (f *Frame) Owner() common.Address {
	return f.owner
}

func (f *Frame) IsStatic() bool {
	return f.static
}

func (f *Frame) Depth() int {
	return f.depth
}

// Marker returns the journal checkpoint taken when the frame was entered.
func (f *Frame) Marker() int {
	return f.marker
}

func (f *Frame) State() FrameState {
	return f.state
}

func (f *Frame) Parent() *Frame {
	return f.parent
}

// Info returns the tracing view of the frame.
func (f *Frame) Info(input []byte) evmtypes.FrameInfo {
	return evmtypes.FrameInfo{
		Depth:    f.depth,
		CallType: f.callType,
		Caller:   f.caller,
		Address:  f.address,
		Owner:    f.owner,
		Static:   f.static,
		Input:    input,
	}
}
