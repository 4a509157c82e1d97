package resolver_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/resolver"
	"github.com/mua900/pebble/lang/scanner"
)

func resolveSrc(t *testing.T, src string) ([]*resolver.Environment, bool, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(src), sink)
	require.True(t, ok)
	chunk, pok := parser.Parse("t", toks, sink)
	require.True(t, pok)
	envs, rok := resolver.New(sink).Resolve(chunk)
	return envs, rok, sink
}

func TestResolveBindsVariableID(t *testing.T) {
	envs, ok, sink := resolveSrc(t, "var x: int = 1;")
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())

	v, found := envs[0].GetVariable("x")
	require.True(t, found)
	assert.Equal(t, 1, v.VarID)
}

func TestResolveProcedureGetsItsOwnScope(t *testing.T) {
	envs, ok, _ := resolveSrc(t, "proc f(a: int) int { return a }")
	assert.True(t, ok)
	require.Len(t, envs, 2)

	proc, found := envs[0].GetProcedure("f")
	require.True(t, found)
	assert.Equal(t, 1, proc.ProcScope)
	assert.Equal(t, -1, envs[0].ParentIndex)
	assert.Equal(t, 0, envs[proc.ProcScope].ParentIndex)

	param, found := envs[proc.ProcScope].GetVariable("a")
	require.True(t, found)
	assert.Equal(t, "a", param.Name)
}

func TestResolveReportsUndeclaredVariable(t *testing.T) {
	_, ok, sink := resolveSrc(t, "proc f() int { return y }")
	assert.False(t, ok)
	assert.True(t, sink.HasErrors())
}

func TestResolveNestedProcedureSeesEnclosingScope(t *testing.T) {
	src := `proc outer(x: int) int {
	proc inner() int {
		return x
	}
	return inner()
}`
	_, ok, sink := resolveSrc(t, src)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

func TestDumpEnvironmentsListsBindings(t *testing.T) {
	envs, ok, _ := resolveSrc(t, "proc f(a: int) int { return a }")
	assert.True(t, ok)

	var buf bytes.Buffer
	resolver.DumpEnvironments(&buf, envs)
	out := buf.String()
	assert.Contains(t, out, "global scope:")
	assert.Contains(t, out, "proc f ->")
	assert.Contains(t, out, "var a ->")
}
