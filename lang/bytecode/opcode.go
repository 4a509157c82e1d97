// Package bytecode implements the fixed-length register bytecode machine:
// a 10-register processor, a word-addressed memory, a data stack, a
// constants pool, a static validator, a disassembler and a small textual
// assembler. Grounded on original_source/bytecode.{hpp,cpp}; construction
// follows db47h-ngaro's functional-options vm.Option idiom.
package bytecode

import "fmt"

// Opcode is a single bytecode instruction tag. Opcode 0 is reserved both as
// "invalid" and as the code block terminator.
type Opcode uint8

const (
	OpInvalid Opcode = iota
	OpMov
	OpConstant
	OpPush
	OpPop
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpRead
	OpWrite
	OpJmp
	OpJz
	OpJnz
	OpJn
	OpJnn
	OpRet
)

var opcodeNames = [...]string{
	OpInvalid: "invalid", OpMov: "Mov", OpConstant: "Constant",
	OpPush: "Push", OpPop: "Pop",
	OpAdd: "Add", OpSub: "Sub", OpMult: "Mult", OpDiv: "Div", OpMod: "Mod",
	OpAnd: "And", OpOr: "Or", OpXor: "Xor",
	OpRead: "Read", OpWrite: "Write",
	OpJmp: "Jmp", OpJz: "Jz", OpJnz: "Jnz", OpJn: "Jn", OpJnn: "Jnn",
	OpRet: "Ret",
}

func (op Opcode) String() string {
	if int(op) < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
	return opcodeNames[op]
}

// ValidOpcode reports whether op is one of the defined, non-zero opcodes.
func ValidOpcode(op Opcode) bool { return op >= OpMov && op <= OpRet }

// instructionBytes gives each opcode's fixed total length in bytes,
// opcode byte included. Push/Pop are 2 bytes per the distilled spec's
// opcode table; original_source/bytecode.hpp's "-> 3" comment on the same
// line disagrees with its own data-driven instruction_bytes table used at
// runtime, and the table, not the comment, is load-bearing there too.
var instructionBytes = [...]int{
	OpInvalid:  1,
	OpMov:      6,
	OpConstant: 4,
	OpPush:     2,
	OpPop:      2,
	OpAdd:      3,
	OpSub:      3,
	OpMult:     3,
	OpDiv:      3,
	OpMod:      3,
	OpAnd:      3,
	OpOr:       3,
	OpXor:      3,
	OpRead:     3,
	OpWrite:    3,
	OpJmp:      3,
	OpJz:       3,
	OpJnz:      3,
	OpJn:       3,
	OpJnn:      3,
	OpRet:      1,
}

// InstructionLength returns op's fixed byte length, including the opcode
// byte itself.
func InstructionLength(op Opcode) int { return instructionBytes[op] }

// isJump reports whether op is one of the five jump opcodes.
func isJump(op Opcode) bool { return op >= OpJmp && op <= OpJnn }

// isBinaryOp reports whether op is one of the r1 <- r1 op r2 opcodes.
func isBinaryOp(op Opcode) bool { return op >= OpAdd && op <= OpXor }

// RInvalid is the invalid register id; valid registers are numbered 1..10.
const RInvalid = 0
const RegisterCount = 10

// ValidRegister reports whether r names one of the 10 processor registers.
func ValidRegister(r uint8) bool { return r >= 1 && r <= RegisterCount }
