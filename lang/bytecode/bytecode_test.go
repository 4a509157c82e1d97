package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/bytecode"
)

const addProgram = `constants:
1
41
code:
constant r1, 0
constant r2, 1
add r1, r2
ret
`

func TestAssembleRunAddsConstants(t *testing.T) {
	prog, err := bytecode.Assemble(addProgram)
	require.NoError(t, err)
	require.NoError(t, bytecode.Validate(prog.Code, 16, len(prog.Constants)))

	m := bytecode.New(prog.Code, bytecode.Constants(prog.Constants))
	require.NoError(t, m.Run())
	assert.Equal(t, int32(42), m.Proc.Registers[1])
}

func TestDisassembleAssembleRoundtrips(t *testing.T) {
	prog, err := bytecode.Assemble(addProgram)
	require.NoError(t, err)

	text := bytecode.Disassemble(prog.Code)
	reassembled, err := bytecode.Assemble("constants:\n1\n41\ncode:\n" + text)
	require.NoError(t, err)
	assert.Equal(t, prog.Code, reassembled.Code)
}

func TestRunDivisionByZeroIsFatal(t *testing.T) {
	prog, err := bytecode.Assemble(`constants:
10
0
code:
constant r1, 0
constant r2, 1
div r1, r2
ret
`)
	require.NoError(t, err)

	m := bytecode.New(prog.Code, bytecode.Constants(prog.Constants))
	err = m.Run()
	assert.Error(t, err)
	var rerr *bytecode.RuntimeError
	assert.ErrorAs(t, err, &rerr)
}

func TestValidateRejectsBadRegister(t *testing.T) {
	// Mov targeting register 0 (RInvalid).
	code := []byte{byte(bytecode.OpMov), 0, 1, 0, 0, 0, byte(bytecode.OpRet), byte(bytecode.OpInvalid)}
	err := bytecode.Validate(code, 16, 0)
	assert.Error(t, err)
}

func TestValidateRejectsStackUnderflow(t *testing.T) {
	code := []byte{byte(bytecode.OpPop), 1, byte(bytecode.OpRet), byte(bytecode.OpInvalid)}
	err := bytecode.Validate(code, 16, 0)
	assert.Error(t, err)
}

func TestValidateRejectsOutOfRangeConstantIndex(t *testing.T) {
	code := []byte{byte(bytecode.OpConstant), 1, 5, 0, byte(bytecode.OpRet), byte(bytecode.OpInvalid)}
	err := bytecode.Validate(code, 16, 1)
	assert.Error(t, err)
}

func TestMemoryReadWriteBounds(t *testing.T) {
	mem := bytecode.NewMemory(4)
	require.NoError(t, mem.Write(3, 7))
	v, err := mem.Read(3)
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	assert.Error(t, mem.Write(4, 1))
	_, err = mem.Read(4)
	assert.Error(t, err)
}

func TestStackPushPopOverflowUnderflow(t *testing.T) {
	s := bytecode.NewStack(2)
	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	assert.Error(t, s.Push(3))

	v, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)

	_, _ = s.Pop()
	_, err = s.Pop()
	assert.Error(t, err)
}
