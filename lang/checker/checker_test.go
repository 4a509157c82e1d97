package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mua900/pebble/lang/checker"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/resolver"
	"github.com/mua900/pebble/lang/scanner"
)

func check(t *testing.T, src string) (bool, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(src), sink)
	require.True(t, ok)
	chunk, pok := parser.Parse("t", toks, sink)
	require.True(t, pok)
	envs, _ := resolver.New(sink).Resolve(chunk)
	return checker.New(envs, sink).Check(chunk), sink
}

func TestCheckAcceptsMatchingReturnType(t *testing.T) {
	ok, sink := check(t, "proc add(a: int, b: int) int { return a + b }")
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
}

func TestCheckRejectsReturnTypeMismatch(t *testing.T) {
	ok, sink := check(t, `proc greeting() int { return "hi" }`)
	assert.False(t, ok)
	assert.True(t, sink.HasErrors())
}

func TestCheckRejectsWrongReturnArity(t *testing.T) {
	ok, _ := check(t, "proc f() int { return }")
	assert.False(t, ok)
}

func TestCheckRejectsNonBooleanIfCondition(t *testing.T) {
	ok, _ := check(t, "proc f(n: int) int { if n { return n } return 0 }")
	assert.False(t, ok)
}

func TestCheckAcceptsBooleanIfCondition(t *testing.T) {
	ok, _ := check(t, "proc f(n: int) int { if n == 0 { return 0 } return n }")
	assert.True(t, ok)
}

func TestCheckVisitsBothIfBranchesEvenWhenThenFails(t *testing.T) {
	// The then-branch's bad return must not hide the else-branch's own error:
	// both are separately-detectable failures.
	ok, sink := check(t, `proc f(n: int) int {
		if n == 0 { return "bad" } else { return "also bad" }
	}`)
	assert.False(t, ok)
	assert.Len(t, sink.Entries(), 2)
}

func TestCheckCallArityMismatchIsRejected(t *testing.T) {
	ok, _ := check(t, `proc add(a: int, b: int) int { return a + b }
proc f() int { return add(1) }`)
	assert.False(t, ok)
}

func TestCheckCallArgumentTypeMismatchIsRejected(t *testing.T) {
	ok, _ := check(t, `proc add(a: int, b: int) int { return a + b }
proc f() int { return add(1, "two") }`)
	assert.False(t, ok)
}
