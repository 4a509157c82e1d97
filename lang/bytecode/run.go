package bytecode

import "encoding/binary"

// Run executes the machine's code block from its current PC until Ret,
// returning a *RuntimeError on any fatal condition. Reaching the end of
// the code block (pc == len(code)) without a Ret is itself fatal.
func (m *Machine) Run() error {
	code := m.Code

	for int(m.Proc.PC) < len(code) {
		pc := int(m.Proc.PC)
		op := Opcode(code[pc])
		if !ValidOpcode(op) {
			return m.fatal(pc, "undefined opcode %d", code[pc])
		}
		length := InstructionLength(op)
		if pc+length > len(code) {
			return m.fatal(pc, "instruction runs past end of code block")
		}

		switch {
		case op == OpMov:
			reg, ok := m.Proc.reg(code[pc+1])
			if !ok {
				return m.fatal(pc, "invalid register %d", code[pc+1])
			}
			*reg = int32(binary.LittleEndian.Uint32(code[pc+2 : pc+6]))

		case op == OpConstant:
			reg, ok := m.Proc.reg(code[pc+1])
			if !ok {
				return m.fatal(pc, "invalid register %d", code[pc+1])
			}
			idx := binary.LittleEndian.Uint16(code[pc+2 : pc+4])
			if int(idx) >= len(m.Constants) {
				return m.fatal(pc, "constant index %d out of bounds (%d constants)", idx, len(m.Constants))
			}
			*reg = m.Constants[idx]

		case op == OpPush:
			reg, ok := m.Proc.reg(code[pc+1])
			if !ok {
				return m.fatal(pc, "invalid register %d", code[pc+1])
			}
			if err := m.Stack.Push(*reg); err != nil {
				return m.fatal(pc, "%s", err)
			}

		case op == OpPop:
			reg, ok := m.Proc.reg(code[pc+1])
			if !ok {
				return m.fatal(pc, "invalid register %d", code[pc+1])
			}
			v, err := m.Stack.Pop()
			if err != nil {
				return m.fatal(pc, "%s", err)
			}
			*reg = v

		case isBinaryOp(op):
			if err := m.binaryOp(pc, op); err != nil {
				return err
			}

		case op == OpRead:
			target, ok1 := m.Proc.reg(code[pc+1])
			addrReg, ok2 := m.Proc.reg(code[pc+2])
			if !ok1 || !ok2 {
				return m.fatal(pc, "invalid register operand")
			}
			v, err := m.Memory.Read(*addrReg)
			if err != nil {
				return m.fatal(pc, "%s", err)
			}
			*target = v

		case op == OpWrite:
			source, ok1 := m.Proc.reg(code[pc+1])
			addrReg, ok2 := m.Proc.reg(code[pc+2])
			if !ok1 || !ok2 {
				return m.fatal(pc, "invalid register operand")
			}
			if err := m.Memory.Write(*addrReg, *source); err != nil {
				return m.fatal(pc, "%s", err)
			}

		case op == OpJmp:
			m.Proc.PC = int32(binary.LittleEndian.Uint16(code[pc+1 : pc+3]))
			continue

		case op == OpJz:
			if m.Proc.Zero {
				m.Proc.PC = int32(binary.LittleEndian.Uint16(code[pc+1 : pc+3]))
				continue
			}

		case op == OpJnz:
			if !m.Proc.Zero {
				m.Proc.PC = int32(binary.LittleEndian.Uint16(code[pc+1 : pc+3]))
				continue
			}

		case op == OpJn:
			if m.Proc.Negative {
				m.Proc.PC = int32(binary.LittleEndian.Uint16(code[pc+1 : pc+3]))
				continue
			}

		case op == OpJnn:
			if !m.Proc.Negative {
				m.Proc.PC = int32(binary.LittleEndian.Uint16(code[pc+1 : pc+3]))
				continue
			}

		case op == OpRet:
			m.Proc.PC += int32(length)
			return nil
		}

		m.Proc.PC += int32(length)
	}

	return m.fatal(int(m.Proc.PC), "reached end of code block before returning")
}

// binaryOp executes one r1 <- r1 op r2 instruction and updates the flags.
//
// Flag update quirk (preserved exactly): if the result is nonzero, Zero is
// cleared and Negative is set from the result's sign; if the result is
// zero, Zero is set but Negative is left untouched from whatever it was
// before this instruction. original_source/bytecode.cpp's
// binary_operation has exactly this asymmetry.
func (m *Machine) binaryOp(pc int, op Opcode) error {
	r1, ok1 := m.Proc.reg(m.Code[pc+1])
	r2, ok2 := m.Proc.reg(m.Code[pc+2])
	if !ok1 || !ok2 {
		return m.fatal(pc, "invalid register operand")
	}

	switch op {
	case OpAdd:
		*r1 = *r1 + *r2
	case OpSub:
		*r1 = *r1 - *r2
	case OpMult:
		*r1 = *r1 * *r2
	case OpDiv:
		if *r2 == 0 {
			return m.fatal(pc, "division by zero")
		}
		*r1 = *r1 / *r2
	case OpMod:
		if *r2 == 0 {
			return m.fatal(pc, "division by zero")
		}
		*r1 = *r1 % *r2
	case OpAnd:
		*r1 = *r1 & *r2
	case OpOr:
		*r1 = *r1 | *r2
	case OpXor:
		*r1 = *r1 ^ *r2
	}

	if *r1 != 0 {
		m.Proc.Zero = false
		m.Proc.Negative = *r1 < 0
	} else {
		m.Proc.Zero = true
	}
	return nil
}
