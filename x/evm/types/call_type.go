package types

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// CallType is the kind of call instruction that created a frame.
type CallType uint8

const (
	// CallTypeCall is a regular message call, the callee owns its own storage.
	CallTypeCall CallType = iota + 1
	// CallTypeStaticCall is a message call which forbids any state mutation in the callee and its descendants.
	CallTypeStaticCall
	// CallTypeDelegateCall executes the callee code in the context of the caller, keeping caller and value.
	CallTypeDelegateCall
	// CallTypeCallCode executes the callee code in the context of the caller, the caller becomes msg.sender.
	CallTypeCallCode
)

var callTypeNames = map[CallType]string{
	CallTypeCall:         "CALL",
	CallTypeStaticCall:   "STATICCALL",
	CallTypeDelegateCall: "DELEGATECALL",
	CallTypeCallCode:     "CALLCODE",
}

func (t CallType) String() string {
	if name, found := callTypeNames[t]; found {
		return name
	}
	return fmt.Sprintf("CallType(%d)", uint8(t))
}

// Validate returns error if the call type is not one of the known call instructions.
func (t CallType) Validate() error {
	if _, found := callTypeNames[t]; !found {
		return errorsmod.Wrapf(ErrInvalidCallType, "unknown call type %d", uint8(t))
	}
	return nil
}

// InheritsStorageOwner returns true if the callee frame keeps the storage owner of the calling frame.
func (t CallType) InheritsStorageOwner() bool {
	return t == CallTypeDelegateCall || t == CallTypeCallCode
}

// IsStatic returns true if the call type itself turns on the static flag.
func (t CallType) IsStatic() bool {
	return t == CallTypeStaticCall
}

// ParseCallType parses the instruction name, case-insensitive.
func ParseCallType(s string) (CallType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for callType, name := range callTypeNames {
		if name == normalized {
			return callType, nil
		}
	}
	return 0, errorsmod.Wrapf(ErrInvalidCallType, "unknown call type %q", s)
}

// MarshalText implements encoding.TextMarshaler, used by the call tracer output.
func (t CallType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
