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

import "fmt"

// OpCode is an EVM opcode
type OpCode byte

// IsPush specifies if an opcode is a PUSH opcode.
func (op OpCode) IsPush() bool {
	return PUSH0 <= op && op <= PUSH32
}

// pushDataSize returns the number of immediate bytes following the opcode in the code.
func (op OpCode) pushDataSize() int {
	if PUSH1 <= op && op <= PUSH32 {
		return int(op-PUSH1) + 1
	}
	return 0
}

// 0x0 range - arithmetic ops.
const (
	STOP OpCode = 0x0
	ADD  OpCode = 0x1
	MUL  OpCode = 0x2
	SUB  OpCode = 0x3
	DIV  OpCode = 0x4
	MOD  OpCode = 0x6
)

// 0x10 range - comparison and bitwise ops.
const (
	LT     OpCode = 0x10
	GT     OpCode = 0x11
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15
	AND    OpCode = 0x16
	OR     OpCode = 0x17
	XOR    OpCode = 0x18
	NOT    OpCode = 0x19
	SHL    OpCode = 0x1b
	SHR    OpCode = 0x1c
)

// 0x30 range - closure state.
const (
	ADDRESS        OpCode = 0x30
	CALLER         OpCode = 0x33
	CALLDATALOAD   OpCode = 0x35
	CALLDATASIZE   OpCode = 0x36
	RETURNDATASIZE OpCode = 0x3d
	RETURNDATACOPY OpCode = 0x3e
)

// 0x50 range - 'storage' and execution.
const (
	POP      OpCode = 0x50
	MLOAD    OpCode = 0x51
	MSTORE   OpCode = 0x52
	SLOAD    OpCode = 0x54
	SSTORE   OpCode = 0x55
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	JUMPDEST OpCode = 0x5b
	TLOAD    OpCode = 0x5c
	TSTORE   OpCode = 0x5d
	PUSH0    OpCode = 0x5f
)

// 0x60 range - pushes.
const (
	PUSH1 OpCode = 0x60 + iota
	PUSH2
	PUSH3
	PUSH4
	PUSH5
	PUSH6
	PUSH7
	PUSH8
	PUSH9
	PUSH10
	PUSH11
	PUSH12
	PUSH13
	PUSH14
	PUSH15
	PUSH16
	PUSH17
	PUSH18
	PUSH19
	PUSH20
	PUSH21
	PUSH22
	PUSH23
	PUSH24
	PUSH25
	PUSH26
	PUSH27
	PUSH28
	PUSH29
	PUSH30
	PUSH31
	PUSH32
)

// 0x80 range - dups.
const (
	DUP1 OpCode = 0x80 + iota
	DUP2
	DUP3
	DUP4
	DUP5
	DUP6
	DUP7
	DUP8
	DUP9
	DUP10
	DUP11
	DUP12
	DUP13
	DUP14
	DUP15
	DUP16
)

// 0x90 range - swaps.
const (
	SWAP1 OpCode = 0x90 + iota
	SWAP2
	SWAP3
	SWAP4
	SWAP5
	SWAP6
	SWAP7
	SWAP8
	SWAP9
	SWAP10
	SWAP11
	SWAP12
	SWAP13
	SWAP14
	SWAP15
	SWAP16
)

// 0xf0 range - closures.
const (
	CALL         OpCode = 0xf1
	CALLCODE     OpCode = 0xf2
	RETURN       OpCode = 0xf3
	DELEGATECALL OpCode = 0xf4
	STATICCALL   OpCode = 0xfa
	REVERT       OpCode = 0xfd
	INVALID      OpCode = 0xfe
)

var opCodeToString = map[OpCode]string{
	STOP:           "STOP",
	ADD:            "ADD",
	MUL:            "MUL",
	SUB:            "SUB",
	DIV:            "DIV",
	MOD:            "MOD",
	LT:             "LT",
	GT:             "GT",
	EQ:             "EQ",
	ISZERO:         "ISZERO",
	AND:            "AND",
	OR:             "OR",
	XOR:            "XOR",
	NOT:            "NOT",
	SHL:            "SHL",
	SHR:            "SHR",
	ADDRESS:        "ADDRESS",
	CALLER:         "CALLER",
	CALLDATALOAD:   "CALLDATALOAD",
	CALLDATASIZE:   "CALLDATASIZE",
	RETURNDATASIZE: "RETURNDATASIZE",
	RETURNDATACOPY: "RETURNDATACOPY",
	POP:            "POP",
	MLOAD:          "MLOAD",
	MSTORE:         "MSTORE",
	SLOAD:          "SLOAD",
	SSTORE:         "SSTORE",
	JUMP:           "JUMP",
	JUMPI:          "JUMPI",
	JUMPDEST:       "JUMPDEST",
	TLOAD:          "TLOAD",
	TSTORE:         "TSTORE",
	PUSH0:          "PUSH0",
	PUSH1:          "PUSH1",
	PUSH2:          "PUSH2",
	PUSH3:          "PUSH3",
	PUSH4:          "PUSH4",
	PUSH5:          "PUSH5",
	PUSH6:          "PUSH6",
	PUSH7:          "PUSH7",
	PUSH8:          "PUSH8",
	PUSH9:          "PUSH9",
	PUSH10:         "PUSH10",
	PUSH11:         "PUSH11",
	PUSH12:         "PUSH12",
	PUSH13:         "PUSH13",
	PUSH14:         "PUSH14",
	PUSH15:         "PUSH15",
	PUSH16:         "PUSH16",
	PUSH17:         "PUSH17",
	PUSH18:         "PUSH18",
	PUSH19:         "PUSH19",
	PUSH20:         "PUSH20",
	PUSH21:         "PUSH21",
	PUSH22:         "PUSH22",
	PUSH23:         "PUSH23",
	PUSH24:         "PUSH24",
	PUSH25:         "PUSH25",
	PUSH26:         "PUSH26",
	PUSH27:         "PUSH27",
	PUSH28:         "PUSH28",
	PUSH29:         "PUSH29",
	PUSH30:         "PUSH30",
	PUSH31:         "PUSH31",
	PUSH32:         "PUSH32",
	DUP1:           "DUP1",
	DUP2:           "DUP2",
	DUP3:           "DUP3",
	DUP4:           "DUP4",
	DUP5:           "DUP5",
	DUP6:           "DUP6",
	DUP7:           "DUP7",
	DUP8:           "DUP8",
	DUP9:           "DUP9",
	DUP10:          "DUP10",
	DUP11:          "DUP11",
	DUP12:          "DUP12",
	DUP13:          "DUP13",
	DUP14:          "DUP14",
	DUP15:          "DUP15",
	DUP16:          "DUP16",
	SWAP1:          "SWAP1",
	SWAP2:          "SWAP2",
	SWAP3:          "SWAP3",
	SWAP4:          "SWAP4",
	SWAP5:          "SWAP5",
	SWAP6:          "SWAP6",
	SWAP7:          "SWAP7",
	SWAP8:          "SWAP8",
	SWAP9:          "SWAP9",
	SWAP10:         "SWAP10",
	SWAP11:         "SWAP11",
	SWAP12:         "SWAP12",
	SWAP13:         "SWAP13",
	SWAP14:         "SWAP14",
	SWAP15:         "SWAP15",
	SWAP16:         "SWAP16",
	CALL:           "CALL",
	CALLCODE:       "CALLCODE",
	RETURN:         "RETURN",
	DELEGATECALL:   "DELEGATECALL",
	STATICCALL:     "STATICCALL",
	REVERT:         "REVERT",
	INVALID:        "INVALID",
}

func (op OpCode) String() string {
	if s, ok := opCodeToString[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode 0x%x not defined", int(op))
}

var stringToOp = make(map[string]OpCode, len(opCodeToString))

func init() {
	for op, name := range opCodeToString {
		stringToOp[name] = op
	}
}

// StringToOp finds the opcode whose name is stored in `str`.
func StringToOp(str string) (OpCode, bool) {
	op, found := stringToOp[str]
	return op, found
}
