package scanner

import "github.com/mua900/pebble/lang/token"

// scanString scans a "..." string literal. The opening quote was already
// consumed by the caller. The lexeme is intentionally left empty per the
// data model; only Literal carries the interior bytes.
func (s *scanner) scanString(startOff, startLine int) token.Token {
	var content []byte
	for {
		if s.atEnd() {
			s.errorf(startLine, "unterminated string literal")
			break
		}
		b := s.peek()
		if b == '"' {
			s.advance()
			break
		}
		content = append(content, s.advance())
	}
	return token.Token{
		Kind:    token.STRING,
		Line:    startLine,
		Offset:  startOff,
		Literal: token.StringLit(string(content)),
	}
}
