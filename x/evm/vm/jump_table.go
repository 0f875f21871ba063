// Copyright 2015 The go-ethereum Authors
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
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	ethparams "github.com/ethereum/go-ethereum/params"
)

type (
	executionFunc  func(pc *uint64, interpreter *EVMInterpreter, scope *ScopeContext) ([]byte, error)
	memorySizeFunc func(*Stack) (size uint64, overflow bool)
)

type operation struct {
	// execute is the operation function
	execute executionFunc
	// costClass is the pricing class reported for the operation
	costClass evmtypes.CostClass

	// minStack tells how many stack items are required
	minStack int
	// maxStack specifies the max length the stack can have for this operation
	// to not overflow the stack.
	maxStack int

	// memorySize returns the memory size required for the operation
	memorySize memorySizeFunc

	// dynamicCost is set when the operation reports its cost class itself
	dynamicCost bool
}

// JumpTable contains the EVM opcodes supported at a given fork.
type JumpTable [256]*operation

func minStack(pops, push int) int {
	return pops
}

func maxStack(pop, push int) int {
	return int(ethparams.StackLimit) + pop - push
}

func minSwapStack(n int) int {
	return minStack(n, n)
}

func maxSwapStack(n int) int {
	return maxStack(n, n)
}

func minDupStack(n int) int {
	return minStack(n, n+1)
}

func maxDupStack(n int) int {
	return maxStack(n, n+1)
}

// NewJumpTable returns the instruction set enabled by the rules.
func NewJumpTable(rules evmtypes.Rules) *JumpTable {
	jt := newBaseInstructionSet()
	if rules.HasPush0 {
		enable3855(&jt)
	}
	if rules.HasTransientStorage {
		enable1153(&jt)
	}

	// Fill all unassigned slots with opUndefined.
	for i, entry := range jt {
		if entry == nil {
			jt[i] = &operation{execute: opUndefined, maxStack: maxStack(0, 0)}
		}
	}

	return &jt
}

// enable3855 applies EIP-3855 (PUSH0 opcode)
func enable3855(jt *JumpTable) {
	// New opcode
	jt[PUSH0] = &operation{
		execute:   opPush0,
		costClass: evmtypes.CostClassCompute,
		minStack:  minStack(0, 1),
		maxStack:  maxStack(0, 1),
	}
}

// enable1153 applies EIP-1153 "Transient Storage"
// - Adds TLOAD that reads from transient storage
// - Adds TSTORE that writes to transient storage
func enable1153(jt *JumpTable) {
	jt[TLOAD] = &operation{
		execute:   opTload,
		costClass: evmtypes.CostClassTransient,
		minStack:  minStack(1, 1),
		maxStack:  maxStack(1, 1),
	}

	jt[TSTORE] = &operation{
		execute:   opTstore,
		costClass: evmtypes.CostClassTransient,
		minStack:  minStack(2, 0),
		maxStack:  maxStack(2, 0),
	}
}

// newBaseInstructionSet returns the instructions available on every engine configuration.
func newBaseInstructionSet() JumpTable {
	tbl := JumpTable{
		STOP: {
			execute:   opStop,
			costClass: evmtypes.CostClassZero,
			minStack:  minStack(0, 0),
			maxStack:  maxStack(0, 0),
		},
		ADD: {
			execute:   opAdd,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		MUL: {
			execute:   opMul,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		SUB: {
			execute:   opSub,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		DIV: {
			execute:   opDiv,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		MOD: {
			execute:   opMod,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		LT: {
			execute:   opLt,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		GT: {
			execute:   opGt,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		EQ: {
			execute:   opEq,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		ISZERO: {
			execute:   opIszero,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(1, 1),
			maxStack:  maxStack(1, 1),
		},
		AND: {
			execute:   opAnd,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		OR: {
			execute:   opOr,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		XOR: {
			execute:   opXor,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		NOT: {
			execute:   opNot,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(1, 1),
			maxStack:  maxStack(1, 1),
		},
		SHL: {
			execute:   opSHL,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		SHR: {
			execute:   opSHR,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(2, 1),
			maxStack:  maxStack(2, 1),
		},
		ADDRESS: {
			execute:   opAddress,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(0, 1),
			maxStack:  maxStack(0, 1),
		},
		CALLER: {
			execute:   opCaller,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(0, 1),
			maxStack:  maxStack(0, 1),
		},
		CALLDATALOAD: {
			execute:   opCallDataLoad,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(1, 1),
			maxStack:  maxStack(1, 1),
		},
		CALLDATASIZE: {
			execute:   opCallDataSize,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(0, 1),
			maxStack:  maxStack(0, 1),
		},
		RETURNDATASIZE: {
			execute:   opReturnDataSize,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(0, 1),
			maxStack:  maxStack(0, 1),
		},
		RETURNDATACOPY: {
			execute:    opReturnDataCopy,
			costClass:  evmtypes.CostClassCompute,
			minStack:   minStack(3, 0),
			maxStack:   maxStack(3, 0),
			memorySize: memoryReturnDataCopy,
		},
		POP: {
			execute:   opPop,
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(1, 0),
			maxStack:  maxStack(1, 0),
		},
		MLOAD: {
			execute:    opMload,
			costClass:  evmtypes.CostClassCompute,
			minStack:   minStack(1, 1),
			maxStack:   maxStack(1, 1),
			memorySize: memoryMLoad,
		},
		MSTORE: {
			execute:    opMstore,
			costClass:  evmtypes.CostClassCompute,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			memorySize: memoryMStore,
		},
		SLOAD: {
			execute:     opSload,
			costClass:   evmtypes.CostClassPersistentLoad,
			minStack:    minStack(1, 1),
			maxStack:    maxStack(1, 1),
			dynamicCost: true,
		},
		SSTORE: {
			execute:   opSstore,
			costClass: evmtypes.CostClassPersistentStore,
			minStack:  minStack(2, 0),
			maxStack:  maxStack(2, 0),
		},
		JUMP: {
			execute:   opJump,
			costClass: evmtypes.CostClassJump,
			minStack:  minStack(1, 0),
			maxStack:  maxStack(1, 0),
		},
		JUMPI: {
			execute:   opJumpi,
			costClass: evmtypes.CostClassJump,
			minStack:  minStack(2, 0),
			maxStack:  maxStack(2, 0),
		},
		JUMPDEST: {
			execute:   opJumpdest,
			costClass: evmtypes.CostClassZero,
			minStack:  minStack(0, 0),
			maxStack:  maxStack(0, 0),
		},
		CALL: {
			execute:    opCall,
			costClass:  evmtypes.CostClassCall,
			minStack:   minStack(7, 1),
			maxStack:   maxStack(7, 1),
			memorySize: memoryCall,
		},
		CALLCODE: {
			execute:    opCallCode,
			costClass:  evmtypes.CostClassCall,
			minStack:   minStack(7, 1),
			maxStack:   maxStack(7, 1),
			memorySize: memoryCall,
		},
		RETURN: {
			execute:    opReturn,
			costClass:  evmtypes.CostClassZero,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			memorySize: memoryReturn,
		},
		DELEGATECALL: {
			execute:    opDelegateCall,
			costClass:  evmtypes.CostClassCall,
			minStack:   minStack(6, 1),
			maxStack:   maxStack(6, 1),
			memorySize: memoryDelegateCall,
		},
		STATICCALL: {
			execute:    opStaticCall,
			costClass:  evmtypes.CostClassCall,
			minStack:   minStack(6, 1),
			maxStack:   maxStack(6, 1),
			memorySize: memoryDelegateCall,
		},
		REVERT: {
			execute:    opRevert,
			costClass:  evmtypes.CostClassZero,
			minStack:   minStack(2, 0),
			maxStack:   maxStack(2, 0),
			memorySize: memoryRevert,
		},
		INVALID: {
			execute:   opUndefined,
			costClass: evmtypes.CostClassZero,
			minStack:  minStack(0, 0),
			maxStack:  maxStack(0, 0),
		},
	}

	for i := 1; i <= 32; i++ {
		tbl[PUSH1+OpCode(i-1)] = &operation{
			execute:   makePush(uint64(i), i),
			costClass: evmtypes.CostClassCompute,
			minStack:  minStack(0, 1),
			maxStack:  maxStack(0, 1),
		}
	}

	for i := 1; i <= 16; i++ {
		tbl[DUP1+OpCode(i-1)] = &operation{
			execute:   makeDup(int64(i)),
			costClass: evmtypes.CostClassCompute,
			minStack:  minDupStack(i),
			maxStack:  maxDupStack(i),
		}
		tbl[SWAP1+OpCode(i-1)] = &operation{
			execute:   makeSwap(int64(i)),
			costClass: evmtypes.CostClassCompute,
			minStack:  minSwapStack(i + 1),
			maxStack:  maxSwapStack(i + 1),
		}
	}

	return tbl
}
