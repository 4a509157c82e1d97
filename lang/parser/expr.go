package parser

import (
	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/token"
)

// parseExpr is the grammar's `expr` entry point; every expression it
// returns is passed through fold before returning to the caller.
func (p *Parser) parseExpr() ast.Expr {
	return p.fold(p.parseOr())
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OR) {
		opTok := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseArith()
	for p.check(token.AND) {
		opTok := p.advance()
		right := p.parseArith()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

func (p *Parser) parseArith() ast.Expr {
	left := p.parseFactor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		opTok := p.advance()
		right := p.parseFactor()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

// parseFactor is the grammar's multiplicative level (* / %). The modulo
// operator is not shown in the distilled grammar table even though it is
// listed among the binary operators; it is placed here, alongside * and /,
// since nothing in the spec suggests it should bind differently.
func (p *Parser) parseFactor() ast.Expr {
	left := p.parseCompare()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		opTok := p.advance()
		right := p.parseCompare()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

func (p *Parser) parseCompare() ast.Expr {
	left := p.parseEqcmp()
	for p.check(token.LT) || p.check(token.GT) || p.check(token.LE) || p.check(token.GE) {
		opTok := p.advance()
		right := p.parseEqcmp()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

func (p *Parser) parseEqcmp() ast.Expr {
	left := p.parseUnary()
	for p.check(token.EQ) || p.check(token.NEQ) {
		opTok := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Left: left, OpPos: opTok.Pos(), Op: opTok.Kind, Right: right}
	}
	return left
}

// parseUnary implements `unary := ('-'|'!')? call`, with nested unaries
// forbidden: a second leading '-' or '!' after the first is an error, not a
// recursive unary.
func (p *Parser) parseUnary() ast.Expr {
	if p.check(token.MINUS) || p.check(token.BANG) {
		opTok := p.advance()
		if p.check(token.MINUS) || p.check(token.BANG) {
			p.errorf(p.cur(), "nested unary operators are not allowed")
		}
		operand := p.parseCall()
		return &ast.UnaryExpr{OpPos: opTok.Pos(), Op: opTok.Kind, Operand: operand}
	}
	return p.parseCall()
}

// parseCall implements `call := member ('(' arglist? ')')?`.
func (p *Parser) parseCall() ast.Expr {
	e := p.parseMember()
	if p.check(token.LPAREN) {
		lparen := p.advance().Pos()
		var args []ast.Expr
		if !p.check(token.RPAREN) {
			args = append(args, p.parseExpr())
			for p.match(token.COMMA) {
				args = append(args, p.parseExpr())
			}
		}
		rparen := p.expect(token.RPAREN, "')'").Pos()
		e = &ast.CallExpr{Callee: e, Lparen: lparen, Args: args, Rparen: rparen}
	}
	return e
}

// parseMember implements `member := primary ('.' IDENT)?`.
func (p *Parser) parseMember() ast.Expr {
	e := p.parsePrimary()
	if p.check(token.DOT) {
		dot := p.advance().Pos()
		m := p.expect(token.IDENT, "identifier")
		e = &ast.MemberExpr{Object: e, Dot: dot, Member: m.Lexeme, MemberPos: m.Pos()}
	}
	return e
}

// parsePrimary implements `primary := NUMBER | STRING | 'true' | 'false' |
// IDENT | '(' expr ')'`.
func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		p.advance()
		return &ast.LiteralExpr{ValuePos: t.Pos(), Value: t.Literal}
	case token.IDENT:
		p.advance()
		return &ast.VariableExpr{Name: t.Lexeme, NamePos: t.Pos()}
	case token.LPAREN:
		lparen := p.advance().Pos()
		inner := p.parseExpr()
		rparen := p.expect(token.RPAREN, "')'").Pos()
		return &ast.GroupingExpr{Lparen: lparen, Inner: inner, Rparen: rparen}
	default:
		p.errorf(t, "expected an expression, got %s", t)
		p.advance()
		return &ast.LiteralExpr{ValuePos: t.Pos(), Value: token.NilLit()}
	}
}
