package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/scanner"
	"github.com/mua900/pebble/lang/token"
)

func parseExpr(t *testing.T, src string) (ast.Expr, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(src), sink)
	require.True(t, ok)
	e, _ := parser.ParseExpr("t", toks, sink)
	return e, sink
}

func TestParseExprFoldsConstantArithmetic(t *testing.T) {
	e, sink := parseExpr(t, "1 + 2 * 3")
	assert.False(t, sink.HasErrors())
	lit, ok := e.(*ast.LiteralExpr)
	if assert.True(t, ok, "expected a folded literal, got %T", e) {
		assert.Equal(t, int64(7), lit.Value.Int)
	}
}

func TestParseExprFoldsComparison(t *testing.T) {
	e, sink := parseExpr(t, "3 < 4")
	assert.False(t, sink.HasErrors())
	lit, ok := e.(*ast.LiteralExpr)
	if assert.True(t, ok) {
		assert.True(t, lit.Value.Bool)
	}
}

func TestParseExprKeepsVariableUnfolded(t *testing.T) {
	e, sink := parseExpr(t, "x + 1")
	assert.False(t, sink.HasErrors())
	_, ok := e.(*ast.BinaryExpr)
	assert.True(t, ok, "expected an unfolded binary expression, got %T", e)
}

func TestParseVarDecl(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("var x: int = 41 + 1;"), sink)
	require.True(t, ok)

	chunk, pok := parser.Parse("t", toks, sink)
	assert.True(t, pok)
	require.Len(t, chunk.Stmts, 1)

	decl, ok := chunk.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, token.INT_TYPE, decl.Type)

	lit, ok := decl.Init.(*ast.LiteralExpr)
	if assert.True(t, ok) {
		assert.Equal(t, int64(42), lit.Value.Int)
	}
}

func TestParseProcDecl(t *testing.T) {
	sink := &diag.Sink{}
	src := "proc add(a: int, b: int) int { return a + b }"
	toks, ok := scanner.Lex("t", []byte(src), sink)
	require.True(t, ok)

	chunk, pok := parser.Parse("t", toks, sink)
	assert.True(t, pok)
	require.Len(t, chunk.Stmts, 1)

	proc, ok := chunk.Stmts[0].(*ast.ProcDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "add", proc.Name)
	require.Len(t, proc.Params, 2)
	assert.Equal(t, "a", proc.Params[0].Name)
	require.Len(t, proc.Returns, 1)
	assert.Equal(t, token.INT_TYPE, proc.Returns[0].Type)
	require.Len(t, proc.Body.Stmts, 1)
}

func TestParseReportsUnexpectedToken(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(")"), sink)
	require.True(t, ok)

	_, pok := parser.Parse("t", toks, sink)
	assert.False(t, pok)
	assert.True(t, sink.HasErrors())
}
