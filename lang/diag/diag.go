// Package diag implements the single-threaded, write-only diagnostic sink
// shared by the compiler stages: lexer, parser, resolver and type checker
// all accumulate into the same kind of Sink, and downstream stages are
// gated on HasErrors. The bytecode validator reports through its own
// ValidationError instead.
package diag

import (
	"fmt"
	"io"

	"github.com/mua900/pebble/lang/token"
)

// Severity distinguishes errors (which gate downstream stages) from
// warnings (which do not).
type Severity uint8

const (
	SevError Severity = iota
	SevWarning
)

// Entry is a single diagnostic: an error or a warning at a source position.
type Entry struct {
	Severity Severity
	Pos      token.Pos
	Where    string // stage or construct name, e.g. "parser", may be empty
	Msg      string
}

func (e Entry) String() string {
	if e.Severity == SevWarning {
		return fmt.Sprintf("WARNING: at line %d %s", e.Pos.Line, e.Msg)
	}
	if e.Where != "" {
		return fmt.Sprintf("[line:%d], %s: %s", e.Pos.Line, e.Where, e.Msg)
	}
	return fmt.Sprintf("[line:%d]: %s", e.Pos.Line, e.Msg)
}

// Sink accumulates diagnostics in encounter order. A Sink is not safe for
// concurrent use; each source file's pipeline is single-threaded (see the
// module's concurrency model), so no locking is attempted.
type Sink struct {
	entries []Entry
}

// Errorf records an error-severity diagnostic.
func (s *Sink) Errorf(pos token.Pos, where, format string, args ...any) {
	s.entries = append(s.entries, Entry{Severity: SevError, Pos: pos, Where: where, Msg: fmt.Sprintf(format, args...)})
}

// Warnf records a warning-severity diagnostic.
func (s *Sink) Warnf(pos token.Pos, format string, args ...any) {
	s.entries = append(s.entries, Entry{Severity: SevWarning, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
// Warnings do not gate downstream stages.
func (s *Sink) HasErrors() bool {
	for _, e := range s.entries {
		if e.Severity == SevError {
			return true
		}
	}
	return false
}

// Entries returns the accumulated diagnostics in encounter order. The
// caller must not modify the returned slice.
func (s *Sink) Entries() []Entry { return s.entries }

// Reset clears all accumulated diagnostics, for reuse across REPL inputs.
func (s *Sink) Reset() { s.entries = s.entries[:0] }

// Print writes every accumulated diagnostic to w, one per line, in
// encounter order (deterministic given the same input, per the testable
// property).
func (s *Sink) Print(w io.Writer) {
	for _, e := range s.entries {
		fmt.Fprintln(w, e.String())
	}
}
