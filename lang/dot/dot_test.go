package dot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/dot"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/scanner"
)

func TestWriteExprTreeLabelsBinaryAndLeaves(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("x + 1"), sink)
	require.True(t, ok)
	expr, pok := parser.ParseExpr("t", toks, sink)
	require.True(t, pok)

	var buf strings.Builder
	require.NoError(t, dot.WriteExprTree(&buf, expr))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph ExprTree {\n"))
	assert.Contains(t, out, `label="Binary +"`)
	assert.Contains(t, out, `label="Variable x"`)
	assert.Contains(t, out, `label="Literal 1"`)
	assert.Contains(t, out, "node0 -> node1")
	assert.Contains(t, out, "node0 -> node2")
}

func TestWriteExprTreeRejectsNilRoot(t *testing.T) {
	var buf strings.Builder
	err := dot.WriteExprTree(&buf, nil)
	assert.Error(t, err)
}
