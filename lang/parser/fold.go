package parser

import (
	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/token"
	"github.com/mua900/pebble/lang/types"
)

// fold evaluates literal-only subtrees of e at parse time, replacing them
// with a single LiteralExpr. Folding is idempotent: fold(fold(e)) == fold(e)
// for any e whose folding succeeds, since a fully-folded tree contains no
// adjacent literal operands left to re-fold.
func (p *Parser) fold(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		left := p.fold(n.Left)
		right := p.fold(n.Right)
		n.Left, n.Right = left, right

		ll, lok := left.(*ast.LiteralExpr)
		rl, rok := right.(*ast.LiteralExpr)
		if !lok || !rok {
			return n
		}
		if folded := p.foldBinary(n, ll.Value, rl.Value); folded != nil {
			return folded
		}
		return n

	case *ast.UnaryExpr:
		operand := p.fold(n.Operand)
		n.Operand = operand
		lit, ok := operand.(*ast.LiteralExpr)
		if !ok {
			return n
		}
		return p.foldUnary(n, lit.Value)

	case *ast.GroupingExpr:
		n.Inner = p.fold(n.Inner)
		if lit, ok := n.Inner.(*ast.LiteralExpr); ok {
			return &ast.LiteralExpr{ValuePos: lit.ValuePos, Value: lit.Value}
		}
		return n

	case *ast.CallExpr:
		n.Callee = p.fold(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = p.fold(a)
		}
		return n

	case *ast.MemberExpr:
		n.Object = p.fold(n.Object)
		return n

	default:
		return e
	}
}

func valueTypeID(v token.Value) types.ID { return types.FromValueKind(v.Kind) }

func isNumericValue(v token.Value) bool {
	return v.Kind == token.IntValue || v.Kind == token.FloatValue
}

// foldBinary returns a folded LiteralExpr, or nil if the operator/operand
// combination cannot be folded (either because the operator has no fold
// rule, because an integer division or modulo by zero is left for run
// time, or because a type error was reported and the caller should keep
// the unfolded node so the type checker can still see it). Arithmetic,
// ==/!=, the ordering comparisons and and/or all have fold rules.
func (p *Parser) foldBinary(n *ast.BinaryExpr, l, r token.Value) *ast.LiteralExpr {
	at := n.OpPos
	switch n.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if !isNumericValue(l) || !isNumericValue(r) || l.Kind != r.Kind {
			p.errorf(tokAt(at), "cannot use binary operator %s on given types: %s %s",
				n.Op, valueTypeID(l), valueTypeID(r))
			return nil
		}
		return p.foldArith(n, l, r)

	case token.EQ, token.NEQ:
		if l.Kind != r.Kind {
			p.errorf(tokAt(at), "type mismatch for operands of %s: %s %s", n.Op, valueTypeID(l), valueTypeID(r))
			return nil
		}
		eq := l.Equal(r)
		if n.Op == token.NEQ {
			eq = !eq
		}
		return &ast.LiteralExpr{ValuePos: at, Value: token.BoolLit(eq)}

	case token.LT, token.GT, token.LE, token.GE:
		if !isNumericValue(l) || !isNumericValue(r) || l.Kind != r.Kind {
			p.errorf(tokAt(at), "cannot use binary operator %s on given types: %s %s",
				n.Op, valueTypeID(l), valueTypeID(r))
			return nil
		}
		return &ast.LiteralExpr{ValuePos: at, Value: token.BoolLit(compareNumeric(n.Op, l, r))}

	case token.AND, token.OR:
		if l.Kind != token.BoolValue || r.Kind != token.BoolValue {
			p.errorf(tokAt(at), "operands of %s must be boolean", n.Op)
			return nil
		}
		var result bool
		if n.Op == token.AND {
			result = l.Bool && r.Bool
		} else {
			result = l.Bool || r.Bool
		}
		return &ast.LiteralExpr{ValuePos: at, Value: token.BoolLit(result)}

	default:
		return nil
	}
}

func compareNumeric(op token.Kind, l, r token.Value) bool {
	var lf, rf float64
	if l.Kind == token.IntValue {
		lf, rf = float64(l.Int), float64(r.Int)
	} else {
		lf, rf = l.Real, r.Real
	}
	switch op {
	case token.LT:
		return lf < rf
	case token.GT:
		return lf > rf
	case token.LE:
		return lf <= rf
	case token.GE:
		return lf >= rf
	default:
		return false
	}
}

func (p *Parser) foldArith(n *ast.BinaryExpr, l, r token.Value) *ast.LiteralExpr {
	at := n.OpPos
	if n.Op == token.SLASH || n.Op == token.PERCENT {
		zero := (l.Kind == token.IntValue && r.Int == 0) || (l.Kind == token.FloatValue && r.Real == 0)
		if zero {
			p.sink.Warnf(at, "division by zero")
		}
	}
	if l.Kind == token.IntValue {
		var v int64
		switch n.Op {
		case token.PLUS:
			v = l.Int + r.Int
		case token.MINUS:
			v = l.Int - r.Int
		case token.STAR:
			v = l.Int * r.Int
		case token.SLASH:
			if r.Int == 0 {
				return nil
			}
			v = l.Int / r.Int
		case token.PERCENT:
			if r.Int == 0 {
				return nil
			}
			v = l.Int % r.Int
		}
		return &ast.LiteralExpr{ValuePos: at, Value: token.IntLit(v)}
	}

	var v float64
	switch n.Op {
	case token.PLUS:
		v = l.Real + r.Real
	case token.MINUS:
		v = l.Real - r.Real
	case token.STAR:
		v = l.Real * r.Real
	case token.SLASH:
		v = l.Real / r.Real
	case token.PERCENT:
		v = floatMod(l.Real, r.Real)
	}
	return &ast.LiteralExpr{ValuePos: at, Value: token.FloatLit(v)}
}

func floatMod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	m := a - b*float64(int64(a/b))
	return m
}

func (p *Parser) foldUnary(n *ast.UnaryExpr, v token.Value) ast.Expr {
	at := n.OpPos
	switch n.Op {
	case token.MINUS:
		switch v.Kind {
		case token.IntValue:
			return &ast.LiteralExpr{ValuePos: at, Value: token.IntLit(-v.Int)}
		case token.FloatValue:
			return &ast.LiteralExpr{ValuePos: at, Value: token.FloatLit(-v.Real)}
		default:
			p.errorf(tokAt(at), "cannot apply operator '-' on type %s", valueTypeID(v))
			return n
		}
	case token.BANG:
		if v.Kind != token.BoolValue {
			p.errorf(tokAt(at), "cannot apply operator '!' on type %s", valueTypeID(v))
			return n
		}
		return &ast.LiteralExpr{ValuePos: at, Value: token.BoolLit(!v.Bool)}
	default:
		return n
	}
}

// tokAt builds a throwaway token carrying only a position, for errorf's
// positional argument when no real token is at hand during folding.
func tokAt(pos token.Pos) token.Token {
	return token.Token{Line: pos.Line, Offset: pos.Offset}
}
