// Package scanner implements the lexer: a single pass over a byte stream
// producing a token list terminated by END.
package scanner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/token"
)

const maxConsecutiveUnknown = 100

// scanner holds the mutable lexing state for one source file.
type scanner struct {
	file string
	src  []byte
	sink *diag.Sink

	off  int // index of the next unread byte
	line int // current 1-based line

	unknownRun int
	hadError   bool
}

func newScanner(file string, src []byte, sink *diag.Sink) *scanner {
	return &scanner{file: file, src: src, sink: sink, line: 1}
}

func (s *scanner) atEnd() bool { return s.off >= len(s.src) }

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.off]
}

func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

func (s *scanner) advance() byte {
	b := s.src[s.off]
	s.off++
	if b == '\n' {
		s.line++
	}
	return b
}

func (s *scanner) advanceIf(b byte) bool {
	if s.peek() != b {
		return false
	}
	s.advance()
	return true
}

func (s *scanner) errorf(line int, format string, args ...any) {
	s.hadError = true
	s.sink.Errorf(token.Pos{Line: line}, "lexer", format, args...)
}

// Lex tokenizes src in a single pass and returns the token list, always
// terminated by an END token, and whether the lex succeeded (false if any
// unknown-character or unterminated-string error was seen).
func Lex(file string, src []byte, sink *diag.Sink) ([]token.Token, bool) {
	s := newScanner(file, src, sink)
	var toks []token.Token

	for {
		s.skipWhitespaceAndComments()
		if s.atEnd() {
			toks = append(toks, token.Token{Kind: token.END, Line: s.line, Offset: s.off})
			return toks, !s.hadError
		}

		startOff := s.off
		startLine := s.line
		b := s.advance()

		switch {
		case isIdentStart(b):
			s.unknownRun = 0
			toks = append(toks, s.scanIdent(startOff, startLine))
			continue
		case isDigit(b):
			s.unknownRun = 0
			toks = append(toks, s.scanNumber(startOff, startLine))
			continue
		case b == '"':
			s.unknownRun = 0
			toks = append(toks, s.scanString(startOff, startLine))
			continue
		}

		var kind token.Kind
		switch b {
		case '.':
			kind = token.DOT
		case ',':
			kind = token.COMMA
		case ':':
			kind = token.COLON
		case ';':
			kind = token.SEMI
		case '(':
			kind = token.LPAREN
		case ')':
			kind = token.RPAREN
		case '{':
			kind = token.LBRACE
		case '}':
			kind = token.RBRACE
		case '+':
			kind = token.PLUS
		case '-':
			kind = token.MINUS
		case '*':
			kind = token.STAR
		case '/':
			kind = token.SLASH
		case '%':
			kind = token.PERCENT
		case '#':
			kind = token.HASH
		case '=':
			if s.advanceIf('=') {
				kind = token.EQ
			} else {
				kind = token.ASSIGN
			}
		case '!':
			if s.advanceIf('=') {
				kind = token.NEQ
			} else {
				kind = token.BANG
			}
		case '<':
			if s.advanceIf('=') {
				kind = token.LE
			} else {
				kind = token.LT
			}
		case '>':
			if s.advanceIf('=') {
				kind = token.GE
			} else {
				kind = token.GT
			}
		default:
			s.errorf(startLine, "unexpected character %q", b)
			s.unknownRun++
			if s.unknownRun >= maxConsecutiveUnknown {
				s.errorf(startLine, "too many consecutive unknown characters, aborting lex")
				toks = append(toks, token.Token{Kind: token.END, Line: s.line, Offset: s.off})
				return toks, !s.hadError
			}
			continue
		}
		s.unknownRun = 0
		toks = append(toks, token.Token{
			Kind:   kind,
			Lexeme: string(s.src[startOff:s.off]),
			Line:   startLine,
			Offset: startOff,
		})
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			if s.peekAt(1) == '/' {
				s.skipLineComment()
			} else if s.peekAt(1) == '*' {
				s.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (s *scanner) scanIdent(startOff, startLine int) token.Token {
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
	lexeme := string(s.src[startOff:s.off])
	kind, _ := token.Lookup(lexeme)
	tok := token.Token{Kind: kind, Lexeme: lexeme, Line: startLine, Offset: startOff}
	switch kind {
	case token.TRUE:
		tok.Literal = token.BoolLit(true)
	case token.FALSE:
		tok.Literal = token.BoolLit(false)
	}
	return tok
}

// FileTokens is one source file's scan result, used by ScanFiles to
// preserve per-file ordering across the concurrent fan-out.
type FileTokens struct {
	File     string
	Tokens   []token.Token
	HadError bool
}

// ScanFiles lexes each of files concurrently (one goroutine per file, via
// golang.org/x/sync/errgroup), then returns results in the same order as
// files. This is purely an I/O-parallelism optimization: each file's own
// lex is exactly the single-threaded Lex above, and a shared diag.Sink per
// file keeps diagnostics attributable without any cross-file locking
// requirement. The first file-read error cancels the group via ctx.
func ScanFiles(ctx context.Context, sinks []*diag.Sink, files []string, read func(string) ([]byte, error)) ([]FileTokens, error) {
	if len(sinks) != len(files) {
		return nil, fmt.Errorf("scanner: sinks and files length mismatch")
	}
	results := make([]FileTokens, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			src, err := read(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			toks, ok := Lex(file, src, sinks[i])
			results[i] = FileTokens{File: file, Tokens: toks, HadError: !ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
