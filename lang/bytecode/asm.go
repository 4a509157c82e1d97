package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is the result of assembling a textual program: a constants pool
// and a terminated code block.
type Program struct {
	Constants []int32
	Code      []byte
}

var mnemonicToOp = map[string]Opcode{
	"mov": OpMov, "constant": OpConstant,
	"push": OpPush, "pop": OpPop,
	"add": OpAdd, "sub": OpSub, "mult": OpMult, "div": OpDiv, "mod": OpMod,
	"and": OpAnd, "or": OpOr, "xor": OpXor,
	"read": OpRead, "write": OpWrite,
	"jmp": OpJmp, "jz": OpJz, "jnz": OpJnz, "jn": OpJn, "jnn": OpJnn,
	"ret": OpRet,
}

// Assemble parses a "constants:"/"code:" sectioned textual program (the
// same format Disassemble's instruction lines use, adapted with an offset
// column Assemble ignores on input) into a Program. This is the format the
// -test-bytecode self-test harness round-trips through Disassemble and
// Assemble.
func Assemble(src string) (*Program, error) {
	var constants []int32
	var codeLines []string
	section := ""

	for lineNum, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch line {
		case "constants:":
			section = "constants"
			continue
		case "code:":
			section = "code"
			continue
		}

		switch section {
		case "constants":
			v, err := strconv.ParseInt(line, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid constant %q: %w", lineNum+1, line, err)
			}
			constants = append(constants, int32(v))

		case "code":
			codeLines = append(codeLines, line)

		default:
			return nil, fmt.Errorf("line %d: %q is outside of a constants:/code: section", lineNum+1, line)
		}
	}

	code, err := assembleCode(codeLines)
	if err != nil {
		return nil, err
	}
	return &Program{Constants: constants, Code: code}, nil
}

func assembleCode(lines []string) ([]byte, error) {
	var buf []byte
	for i, line := range lines {
		// Tolerate a leading "%04x:" offset column, as produced by
		// Disassemble, by dropping everything up to and including the
		// first colon if the line looks like one.
		if idx := strings.Index(line, ":"); idx >= 0 && looksLikeOffset(line[:idx]) {
			line = strings.TrimSpace(line[idx+1:])
		}

		// Commas between operands are accepted but not required, matching
		// how the reference assembler's own Tests table writes operands.
		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) == 0 {
			continue
		}
		op, ok := mnemonicToOp[strings.ToLower(fields[0])]
		if !ok {
			return nil, fmt.Errorf("code line %d: unknown mnemonic %q", i+1, fields[0])
		}
		args := fields[1:]

		var err error
		switch {
		case op == OpMov:
			buf, err = emitMov(buf, args)
		case op == OpConstant:
			buf, err = emitConstant(buf, args)
		case op == OpPush || op == OpPop:
			buf, err = emitRegOnly(buf, op, args)
		case isBinaryOp(op) || op == OpRead || op == OpWrite:
			buf, err = emitTwoRegs(buf, op, args)
		case isJump(op):
			buf, err = emitJump(buf, op, args)
		case op == OpRet:
			buf = append(buf, byte(op))
		}
		if err != nil {
			return nil, fmt.Errorf("code line %d: %w", i+1, err)
		}
	}
	buf = append(buf, byte(OpInvalid))
	return buf, nil
}

func looksLikeOffset(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

func emitMov(buf []byte, args []string) ([]byte, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("Mov needs 2 operands, got %d", len(args))
	}
	reg, err := parseRegister(args[0])
	if err != nil {
		return nil, err
	}
	imm, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid immediate %q: %w", args[1], err)
	}
	buf = append(buf, byte(OpMov), reg)
	buf = appendLE32(buf, uint32(int32(imm)))
	return buf, nil
}

func emitConstant(buf []byte, args []string) ([]byte, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("Constant needs 2 operands, got %d", len(args))
	}
	reg, err := parseRegister(args[0])
	if err != nil {
		return nil, err
	}
	idx, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid constant index %q: %w", args[1], err)
	}
	buf = append(buf, byte(OpConstant), reg)
	buf = appendLE16(buf, uint16(idx))
	return buf, nil
}

func emitRegOnly(buf []byte, op Opcode, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s needs 1 operand, got %d", op, len(args))
	}
	reg, err := parseRegister(args[0])
	if err != nil {
		return nil, err
	}
	return append(buf, byte(op), reg), nil
}

func emitTwoRegs(buf []byte, op Opcode, args []string) ([]byte, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s needs 2 operands, got %d", op, len(args))
	}
	r1, err := parseRegister(args[0])
	if err != nil {
		return nil, err
	}
	r2, err := parseRegister(args[1])
	if err != nil {
		return nil, err
	}
	return append(buf, byte(op), r1, r2), nil
}

func emitJump(buf []byte, op Opcode, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s needs 1 operand, got %d", op, len(args))
	}
	target, err := strconv.ParseUint(strings.TrimPrefix(args[0], "0x"), 16, 16)
	if err != nil {
		target, err = strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid jump target %q: %w", args[0], err)
		}
	}
	buf = append(buf, byte(op))
	buf = appendLE16(buf, uint16(target))
	return buf, nil
}

func parseRegister(s string) (byte, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "r"))
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid register %q: %w", s, err)
	}
	if !ValidRegister(uint8(n)) {
		return 0, fmt.Errorf("register r%d out of range 1..10", n)
	}
	return byte(n), nil
}

func appendLE16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
