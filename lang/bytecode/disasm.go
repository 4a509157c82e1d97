package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble renders code as one "offset: Mnemonic operands" line per
// instruction, stopping at the terminator or at the first instruction that
// runs past the end of the block. It is the inverse of Assemble and is
// used for "the code block that caused the crash" style error reports.
func Disassemble(code []byte) string {
	var b strings.Builder
	index := 0
	for index < len(code) {
		op := Opcode(code[index])
		if op == OpInvalid {
			break
		}
		if !ValidOpcode(op) {
			fmt.Fprintf(&b, "%04x: <invalid opcode 0x%02x>\n", index, code[index])
			break
		}

		length := InstructionLength(op)
		if index+length > len(code) {
			fmt.Fprintf(&b, "%04x: <instruction runs past end of block>\n", index)
			break
		}

		fmt.Fprintf(&b, "%04x: %s\n", index, formatInstruction(code, index, op))
		index += length
	}
	return b.String()
}

func formatInstruction(code []byte, at int, op Opcode) string {
	switch {
	case op == OpMov:
		return fmt.Sprintf("Mov r%d %d", code[at+1], int32(binary.LittleEndian.Uint32(code[at+2:at+6])))
	case op == OpConstant:
		return fmt.Sprintf("Constant r%d %d", code[at+1], binary.LittleEndian.Uint16(code[at+2:at+4]))
	case op == OpPush || op == OpPop:
		return fmt.Sprintf("%s r%d", op, code[at+1])
	case isBinaryOp(op) || op == OpRead || op == OpWrite:
		return fmt.Sprintf("%s r%d r%d", op, code[at+1], code[at+2])
	case isJump(op):
		return fmt.Sprintf("%s %04x", op, binary.LittleEndian.Uint16(code[at+1:at+3]))
	case op == OpRet:
		return "Ret"
	default:
		return op.String()
	}
}
