package scanner

import (
	"strconv"

	"github.com/mua900/pebble/lang/token"
)

// scanNumber scans a numeric literal: optional integer digits, optional '.'
// followed by digits makes it a real, otherwise it is an integer. startOff
// points at the first digit already consumed by the caller.
func (s *scanner) scanNumber(startOff, startLine int) token.Token {
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}

	isFloat := false
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.advance() // consume '.'
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}

	lexeme := string(s.src[startOff:s.off])
	tok := token.Token{Lexeme: lexeme, Line: startLine, Offset: startOff}
	if isFloat {
		tok.Kind = token.FLOAT
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			s.errorf(startLine, "invalid float literal %q", lexeme)
		}
		tok.Literal = token.FloatLit(v)
	} else {
		tok.Kind = token.INT
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			s.errorf(startLine, "invalid integer literal %q", lexeme)
		}
		tok.Literal = token.IntLit(v)
	}
	return tok
}
