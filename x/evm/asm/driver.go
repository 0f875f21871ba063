package asm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// RepeatCallSource generates a driver contract which calls the target n times without input
// within the same transaction. The outputs, each of the given size, are concatenated into the
// return data. The driver reverts as soon as one of the calls fails.
func RepeatCallSource(target common.Address, n, size int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		// CALL(gas, addr, value, inOffset, inSize, retOffset, retSize)
		_, _ = fmt.Fprintf(&sb, "PUSH %d PUSH %d PUSH 0 PUSH 0 PUSH 0 PUSH20 %s PUSH 0 CALL\n", size, i*size, target.Hex())
		sb.WriteString("ISZERO @fail JUMPI\n")
	}
	_, _ = fmt.Fprintf(&sb, "PUSH %d PUSH 0 RETURN\n", n*size)
	sb.WriteString("fail: PUSH 0 PUSH 0 REVERT\n")
	return sb.String()
}
