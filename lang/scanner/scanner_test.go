package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/scanner"
	"github.com/mua900/pebble/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexPunctuationAndKeywords(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("var x: int = 1 + 2;"), sink)
	assert.True(t, ok)
	assert.False(t, sink.HasErrors())
	assert.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.COLON, token.INT_TYPE, token.ASSIGN,
		token.INT, token.PLUS, token.INT, token.SEMI, token.END,
	}, kinds(toks))
}

func TestLexTwoCharacterOperators(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("a == b != c <= d >= e"), sink)
	assert.True(t, ok)
	assert.Equal(t, []token.Kind{
		token.IDENT, token.EQ, token.IDENT, token.NEQ, token.IDENT,
		token.LE, token.IDENT, token.GE, token.IDENT, token.END,
	}, kinds(toks))
}

func TestLexStringLiteral(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte(`"hello"`), sink)
	assert.True(t, ok)
	if assert.Len(t, toks, 2) {
		assert.Equal(t, token.STRING, toks[0].Kind)
		assert.Equal(t, "hello", toks[0].Literal.Str)
	}
}

func TestLexUnterminatedStringIsAnError(t *testing.T) {
	sink := &diag.Sink{}
	_, ok := scanner.Lex("t", []byte(`"oops`), sink)
	assert.False(t, ok)
	assert.True(t, sink.HasErrors())
}

func TestLexUnknownCharacterIsAnError(t *testing.T) {
	sink := &diag.Sink{}
	_, ok := scanner.Lex("t", []byte("$"), sink)
	assert.False(t, ok)
	assert.True(t, sink.HasErrors())
}

func TestLexComments(t *testing.T) {
	sink := &diag.Sink{}
	toks, ok := scanner.Lex("t", []byte("// a comment\nvar x: int = 1 // trailing\n"), sink)
	assert.True(t, ok)
	assert.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.COLON, token.INT_TYPE, token.ASSIGN, token.INT, token.END,
	}, kinds(toks))
}
