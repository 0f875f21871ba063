// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// errStopToken is an internal token indicating interpreter loop termination,
// never returned to outside callers.
var errStopToken = errors.New("stop token")

// ScopeContext contains the things that are per-call, such as stack and memory,
// but not transients like pc.
type ScopeContext struct {
	Memory   *Memory
	Stack    *Stack
	Contract *Contract
	Frame    *Frame
}

// EVMInterpreter represents an EVM interpreter
type EVMInterpreter struct {
	evm   *EVM
	table *JumpTable

	returnData []byte // Last CALL's return data for subsequent reuse
}

// NewEVMInterpreter returns a new instance of the Interpreter.
func NewEVMInterpreter(evm *EVM) *EVMInterpreter {
	return &EVMInterpreter{
		evm:   evm,
		table: NewJumpTable(evm.rules),
	}
}

// Run loops and evaluates the contract's code with the given input data and returns
// the return byte-slice and an error if one occurred.
//
// Any error returned by the interpreter reverts the frame. Only ErrExecutionReverted
// keeps the returned data as output for the caller.
func (in *EVMInterpreter) Run(contract *Contract, frame *Frame) (ret []byte, err error) {
	// Reset the previous call's return data. It's unimportant to preserve the old buffer
	// as every returning call will return new data anyway.
	in.returnData = nil

	// Don't bother with the execution if there's no code.
	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op    OpCode        // current opcode
		mem   = NewMemory() // bound memory
		stack = newstack()  // local stack
		scope = &ScopeContext{
			Memory:   mem,
			Stack:    stack,
			Contract: contract,
			Frame:    frame,
		}
		// For optimisation reason we're using uint64 as the program counter.
		// It's theoretically possible to go above 2^64. The YP defines the PC
		// to be uint256. Practically much less so feasible.
		pc  = uint64(0) // program counter
		res []byte      // result of the opcode execution function
	)

	// The Interpreter main run loop (contextual). This loop runs until either an
	// explicit STOP, RETURN or REVERT is executed, an error occurred during
	// the execution of one of the operations or until the step limit is reached.
	for {
		if err = in.evm.step(); err != nil {
			break
		}

		// Get the operation from the jump table and validate the stack to ensure there are
		// enough stack items available to perform the operation.
		op = contract.GetOp(pc)
		operation := in.table[op]
		if sLen := stack.len(); sLen < operation.minStack {
			return nil, errorsmod.Wrapf(evmtypes.ErrStackUnderflow, "stack %d, required %d", sLen, operation.minStack)
		} else if sLen > operation.maxStack {
			return nil, errorsmod.Wrapf(evmtypes.ErrStackOverflow, "stack %d, limit %d", sLen, operation.maxStack)
		}

		if operation.memorySize != nil {
			memSize, overflow := operation.memorySize(stack)
			if overflow || memSize > maxMemorySize {
				return nil, errorsmod.Wrapf(evmtypes.ErrMemoryLimit, "%s requires more than %d bytes", op, maxMemorySize)
			}
			mem.Resize(toWordSize(memSize) * 32)
		}

		if !operation.dynamicCost {
			in.evm.usage.Add(operation.costClass)
		}

		// execute the operation
		res, err = operation.execute(&pc, in, scope)
		if err != nil {
			break
		}
		pc++
	}

	if err == errStopToken {
		err = nil // clear stop token error
	}

	return res, err
}
