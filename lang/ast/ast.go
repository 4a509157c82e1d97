// Package ast defines the abstract syntax tree produced by the parser: a
// tagged-node tree (no virtual dispatch) where every expression and
// statement variant carries a common position header, per the "cyclic
// references" and "tagged nodes" design notes: environments are referenced
// by index, never by owning pointer, and node variants are plain structs
// dispatched on Go's own type switch rather than an interface hierarchy of
// behaviors.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mua900/pebble/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Node implements fmt.Formatter so it can print a description of itself.
	// Supported verbs are 'v' and 's'; the '#' flag prints child counts.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk visits the node's direct children in source order.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST. Every statement carries a
// back-reference to the environment it was declared in, filled by the
// resolver's first pass; until then it is 0, the global environment's
// index.
type Stmt interface {
	Node
	stmt()
	Scope() int
	SetScope(idx int)
}

// Chunk is the root of a parsed file: a sequence of top-level statements.
type Chunk struct {
	Name  string
	Stmts []Stmt
	EOF   token.Pos
}

func (n *Chunk) Format(f fmt.State, verb rune) { format(f, verb, n, "chunk "+n.Name, nil) }
func (n *Chunk) Span() (start, end token.Pos) {
	if len(n.Stmts) == 0 {
		return n.EOF, n.EOF
	}
	s, _ := n.Stmts[0].Span()
	_, e := n.Stmts[len(n.Stmts)-1].Span()
	return s, e
}
func (n *Chunk) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// format is the shared label-rendering helper used by every node's Format
// method: it pads/truncates the label to the requested width and appends a
// "{key=val, ...}" counts suffix when the '#' flag is set.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		switch {
		case len(runes) >= w:
			runes = runes[:w]
		case minus:
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		case !plus:
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// stmtBase implements the Scope back-reference shared by every statement
// variant.
type stmtBase struct {
	scope int
}

func (b *stmtBase) stmt()         {}
func (b *stmtBase) Scope() int    { return b.scope }
func (b *stmtBase) SetScope(i int) { b.scope = i }
