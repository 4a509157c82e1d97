package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/ir"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/resolver"
	"github.com/mua900/pebble/lang/scanner"
)

func TestTranslateBracketsProcedureBodyInScopeMarkers(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("proc f(a: int) int { return a + 1 }"), sink)
	require.True(t, ok)
	chunk, pok := parser.Parse("t", toks, sink)
	require.True(t, pok)
	_, rok := resolver.New(sink).Resolve(chunk)
	require.True(t, rok)

	instrs := ir.Translate(chunk.Stmts)
	require.Len(t, instrs, 3)
	assert.Equal(t, ir.ScopeStart, instrs[0].Op)
	assert.Equal(t, ir.Add, instrs[1].Op)
	assert.Equal(t, ir.ScopeEnd, instrs[2].Op)
	assert.Greater(t, instrs[1].Operand1, 0, "left operand should be the parameter's value id")
	assert.Equal(t, 0, instrs[1].Operand2, "literal operand contributes value id 0")
}

func TestTranslateCallEmitsParamThenCall(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("proc g(a: int) int { return a }\nproc f() int { return g(1) }"), sink)
	require.True(t, ok)
	chunk, pok := parser.Parse("t", toks, sink)
	require.True(t, pok)
	_, rok := resolver.New(sink).Resolve(chunk)
	require.True(t, rok)

	instrs := ir.Translate(chunk.Stmts)
	var sawParam, sawCall bool
	for _, in := range instrs {
		if in.Op == ir.Param {
			sawParam = true
		}
		if in.Op == ir.Call {
			assert.True(t, sawParam, "param must be emitted before call")
			sawCall = true
			assert.Equal(t, 1, in.Operand2, "call arity")
		}
	}
	assert.True(t, sawParam)
	assert.True(t, sawCall)
}
