package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Message is an external call executed as one transaction.
type Message struct {
	From   common.Address
	To     common.Address
	Input  []byte
	Static bool // execute the root frame as a static call
}

// NewMessage creates a new Message
func NewMessage(from, to common.Address, input []byte) Message {
	return Message{
		From:  from,
		To:    to,
		Input: input,
	}
}

// ExecutionResult is the outcome of executing a Message.
type ExecutionResult struct {
	Ret         hexutil.Bytes `json:"ret"`
	VmError     string        `json:"vmError,omitempty"`
	Usage       Usage         `json:"usage"`
	GasEstimate uint64        `json:"gasEstimate"`
	Steps       uint64        `json:"steps"`
}

// Failed returns true if the root frame reverted.
func (r *ExecutionResult) Failed() bool {
	return len(r.VmError) > 0
}
