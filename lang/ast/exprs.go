package ast

import (
	"fmt"

	"github.com/mua900/pebble/lang/token"
)

type (
	// BinaryExpr represents a binary operation, e.g. x + y.
	BinaryExpr struct {
		Left  Expr
		OpPos token.Pos
		Op    token.Kind
		Right Expr
	}

	// UnaryExpr represents a unary operation, e.g. -x or !x.
	UnaryExpr struct {
		OpPos   token.Pos
		Op      token.Kind
		Operand Expr
	}

	// GroupingExpr represents a parenthesized expression.
	GroupingExpr struct {
		Lparen token.Pos
		Inner  Expr
		Rparen token.Pos
	}

	// VariableExpr represents a reference to a variable or procedure by
	// name. VarID is 0 until the resolver runs.
	VariableExpr struct {
		Name    string
		NamePos token.Pos
		VarID   int
	}

	// LiteralExpr represents a literal constant.
	LiteralExpr struct {
		ValuePos token.Pos
		Value    token.Value
	}

	// CallExpr represents a procedure call. Callee is a chain terminating in
	// a VariableExpr naming the procedure (see the resolver's callee-chain
	// walk). ProcID is 0 until the resolver runs.
	CallExpr struct {
		Callee Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
		ProcID int
	}

	// MemberExpr represents a member access, e.g. x.y. Structure semantics
	// are deferred (see the type checker's Non-goal).
	MemberExpr struct {
		Object    Expr
		Dot       token.Pos
		Member    string
		MemberPos token.Pos
	}
)

func (*BinaryExpr) expr()   {}
func (*UnaryExpr) expr()    {}
func (*GroupingExpr) expr() {}
func (*VariableExpr) expr() {}
func (*LiteralExpr) expr()  {}
func (*CallExpr) expr()     {}
func (*MemberExpr) expr()   {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.String(), nil)
}
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

func (n *UnaryExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Op.String(), nil)
}
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Operand.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Operand) }

func (n *GroupingExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "grouping", nil) }
func (n *GroupingExpr) Span() (start, end token.Pos) {
	return n.Lparen, n.Rparen
}
func (n *GroupingExpr) Walk(v Visitor) { Walk(v, n.Inner) }

func (n *VariableExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "variable "+n.Name, map[string]int{"id": n.VarID})
}
func (n *VariableExpr) Span() (start, end token.Pos) {
	return n.NamePos, n.NamePos
}
func (n *VariableExpr) Walk(_ Visitor) {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "literal "+n.Value.String(), nil)
}
func (n *LiteralExpr) Span() (start, end token.Pos) { return n.ValuePos, n.ValuePos }
func (n *LiteralExpr) Walk(_ Visitor)                {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args), "proc_id": n.ProcID})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Callee.Span()
	return start, n.Rparen
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *MemberExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "member ."+n.Member, nil)
}
func (n *MemberExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	return start, n.MemberPos
}
func (n *MemberExpr) Walk(v Visitor) { Walk(v, n.Object) }

// Unwrap strips any GroupingExpr wrappers, returning the innermost
// expression.
func Unwrap(e Expr) Expr {
	for {
		g, ok := e.(*GroupingExpr)
		if !ok {
			return e
		}
		e = g.Inner
	}
}
