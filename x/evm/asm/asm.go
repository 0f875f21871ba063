// Package asm provides a small text assembler for EVM programs and the matching disassembler.
//
// Syntax:
//
//	; comment until the end of the line
//	PUSH 0x2a        ; auto-sized push
//	PUSH2 1000       ; explicitly sized push, decimal or hex
//	loop:            ; label, emitted as JUMPDEST
//	@loop            ; pushes the label offset (PUSH2)
//	PUSH @loop       ; same as above
//	JUMP
package asm

import (
	"fmt"
	"math/big"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/EscanBE/tstore/x/evm/vm"
)

// labelRefSize is the width of the push emitted for a label reference.
const labelRefSize = 2

// instruction is a single parsed instruction of the source.
type instruction struct {
	line  int
	op    vm.OpCode
	label string // label definition, emitted as JUMPDEST
	ref   string // label reference, resolved into the push data
	data  []byte // push data, right-aligned into the push width
	size  int    // push width, 0 for non-push instructions
}

func (ins instruction) len() int {
	return 1 + ins.size
}

// Assemble compiles the source into bytecode.
func Assemble(source string) ([]byte, error) {
	instructions, err := parse(source)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]int)
	var pc int
	for _, ins := range instructions {
		if ins.label != "" {
			if _, found := labels[ins.label]; found {
				return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: label %q defined twice", ins.line, ins.label)
			}
			labels[ins.label] = pc
		}
		pc += ins.len()
	}

	code := make([]byte, 0, pc)
	for _, ins := range instructions {
		code = append(code, byte(ins.op))
		if ins.size == 0 {
			continue
		}

		data := ins.data
		if ins.ref != "" {
			offset, found := labels[ins.ref]
			if !found {
				return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: undefined label %q", ins.line, ins.ref)
			}
			data = big.NewInt(int64(offset)).Bytes()
			if len(data) > ins.size {
				return nil, errorsmod.Wrapf(
					evmtypes.ErrAsmSyntax, "line %d: offset %d of label %q does not fit into %s", ins.line, offset, ins.ref, ins.op,
				)
			}
		}

		padded := make([]byte, ins.size)
		copy(padded[ins.size-len(data):], data)
		code = append(code, padded...)
	}

	return code, nil
}

// MustAssemble is like Assemble but panics on error.
func MustAssemble(source string) []byte {
	code, err := Assemble(source)
	if err != nil {
		panic(err)
	}
	return code
}

func parse(source string) ([]instruction, error) {
	var instructions []instruction

	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		if idx := strings.IndexByte(line, ';'); idx >= 0 {
			line = line[:idx]
		}

		tokens := strings.Fields(line)
		for t := 0; t < len(tokens); t++ {
			token := tokens[t]

			switch {
			case strings.HasSuffix(token, ":"):
				name := strings.TrimSuffix(token, ":")
				if !isLabelName(name) {
					return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: invalid label %q", lineNo, token)
				}
				instructions = append(instructions, instruction{line: lineNo, op: vm.JUMPDEST, label: name})

			case strings.HasPrefix(token, "@"):
				ins, err := labelRef(lineNo, token, labelRefSize)
				if err != nil {
					return nil, err
				}
				instructions = append(instructions, ins)

			default:
				mnemonic := strings.ToUpper(token)
				if mnemonic == "PUSH" || (strings.HasPrefix(mnemonic, "PUSH") && mnemonic != "PUSH0") {
					if t+1 >= len(tokens) {
						return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: %s requires an argument", lineNo, mnemonic)
					}
					t++
					ins, err := push(lineNo, mnemonic, tokens[t])
					if err != nil {
						return nil, err
					}
					instructions = append(instructions, ins)
					continue
				}

				op, found := vm.StringToOp(mnemonic)
				if !found {
					return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: unknown instruction %q", lineNo, token)
				}
				instructions = append(instructions, instruction{line: lineNo, op: op})
			}
		}
	}

	return instructions, nil
}

func push(lineNo int, mnemonic, arg string) (instruction, error) {
	size := 0
	if mnemonic != "PUSH" {
		op, found := vm.StringToOp(mnemonic)
		if !found || !op.IsPush() {
			return instruction{}, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: unknown instruction %q", lineNo, mnemonic)
		}
		size = int(op-vm.PUSH1) + 1
	}

	if strings.HasPrefix(arg, "@") {
		if size == 0 {
			size = labelRefSize
		}
		return labelRef(lineNo, arg, size)
	}

	value, err := parseValue(arg)
	if err != nil {
		return instruction{}, errorsmod.Wrapf(err, "line %d", lineNo)
	}

	data := value.Bytes()
	if size == 0 {
		size = len(data)
		if size == 0 {
			size = 1
		}
	}
	if len(data) > size {
		return instruction{}, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: value %s does not fit into %s", lineNo, arg, mnemonic)
	}

	return instruction{line: lineNo, op: vm.PUSH1 + vm.OpCode(size-1), data: data, size: size}, nil
}

func labelRef(lineNo int, token string, size int) (instruction, error) {
	name := strings.TrimPrefix(token, "@")
	if !isLabelName(name) {
		return instruction{}, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "line %d: invalid label reference %q", lineNo, token)
	}
	return instruction{line: lineNo, op: vm.PUSH1 + vm.OpCode(size-1), ref: name, size: size}, nil
}

func parseValue(arg string) (*uint256.Int, error) {
	bigValue, ok := new(big.Int).SetString(arg, 0)
	if !ok || bigValue.Sign() < 0 {
		return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "invalid value %q", arg)
	}

	value, overflow := uint256.FromBig(bigValue)
	if overflow {
		return nil, errorsmod.Wrapf(evmtypes.ErrAsmSyntax, "value %q exceeds 256 bits", arg)
	}
	return value, nil
}

func isLabelName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Disassemble returns one line per instruction, prefixed by the offset of the instruction.
// Truncated push data at the end of the code is printed as is.
func Disassemble(code []byte) []string {
	var lines []string

	for pc := 0; pc < len(code); pc++ {
		op := vm.OpCode(code[pc])

		if op.IsPush() && op != vm.PUSH0 {
			size := int(op-vm.PUSH1) + 1
			end := pc + 1 + size
			if end > len(code) {
				end = len(code)
			}
			lines = append(lines, fmt.Sprintf("%05d: %s %s", pc, op, hexutil.Encode(code[pc+1:end])))
			pc += size
			continue
		}

		lines = append(lines, fmt.Sprintf("%05d: %s", pc, op))
	}

	return lines
}
