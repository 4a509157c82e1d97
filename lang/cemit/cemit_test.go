package cemit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/cemit"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/scanner"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(src), sink)
	require.True(t, ok)
	chunk, pok := parser.Parse("t", toks, sink)
	require.True(t, pok)

	var buf strings.Builder
	require.NoError(t, cemit.Emit(&buf, chunk.Stmts))
	return buf.String()
}

func TestEmitProcedureSignatureAndReturn(t *testing.T) {
	out := emit(t, "proc add(a: int, b: int) int { return a + b }")
	assert.Contains(t, out, "#include <stdlib.h>")
	assert.Contains(t, out, "int add(int a, int b) {")
	assert.Contains(t, out, "return a + b;")
}

func TestEmitReturnsFirstValueOnlyForMultiReturn(t *testing.T) {
	out := emit(t, "proc pair() int, int { return 1, 2 }")
	assert.Contains(t, out, "return 1;")
	assert.NotContains(t, out, "return 1, 2;")
}

func TestEmitIfElseAsCControlFlow(t *testing.T) {
	out := emit(t, `proc f(a: int) int { if a == 0 { return 1 } else { return 0 } }`)
	assert.Contains(t, out, "if (a == 0) {")
	assert.Contains(t, out, "else {")
}

func TestEmitVarDeclWithInitializer(t *testing.T) {
	out := emit(t, `var s: string = "hi";`)
	assert.Contains(t, out, `char* s = "hi";`)
}
