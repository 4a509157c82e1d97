// Package parser implements the recursive-descent, precedence-climbing
// parser: tokens to a statement/expression tree, with on-the-fly constant
// folding (see fold.go) and the error-recovery strategy described in the
// distilled spec's Parser section.
package parser

import (
	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/token"
)

// Parser holds the mutable parsing state for one file.
type Parser struct {
	file string
	toks []token.Token
	pos  int
	sink *diag.Sink

	hadParseError     bool
	currentScopeDepth int
}

// Parse parses a complete token stream into a Chunk. The returned bool is
// true on success (no parse error was reported).
func Parse(file string, toks []token.Token, sink *diag.Sink) (*ast.Chunk, bool) {
	p := &Parser{file: file, toks: toks, sink: sink}
	chunk := &ast.Chunk{Name: file}

	for !p.atEnd() {
		if p.check(token.SEMI) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			chunk.Stmts = append(chunk.Stmts, stmt)
		}
	}
	chunk.EOF = p.cur().Pos()

	if p.currentScopeDepth != 0 {
		p.errorf(p.cur(), "mismatched braces: %d unclosed", p.currentScopeDepth)
	}
	return chunk, !p.hadParseError
}

// ParseExpr parses a single expression (for -parse-expr / REPL mode),
// applying the same constant folding as a normal expression parse.
func ParseExpr(file string, toks []token.Token, sink *diag.Sink) (ast.Expr, bool) {
	p := &Parser{file: file, toks: toks, sink: sink}
	e := p.parseExpr()
	return e, !p.hadParseError
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) atEnd() bool { return p.cur().Kind == token.END }

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, else reports an
// error naming what was expected and returns the current token without
// consuming it; no tokens are skipped.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorf(p.cur(), "expected %s, got %s", what, p.cur())
	return p.cur()
}

func (p *Parser) errorf(at token.Token, format string, args ...any) {
	p.hadParseError = true
	p.sink.Errorf(at.Pos(), "parser", format, args...)
}

// recover implements error-recovery strategy (a)+(b): skip to the next ';'
// (consuming it) or to the next token that starts a statement, whichever
// comes first.
func (p *Parser) recover() {
	for !p.atEnd() {
		if p.check(token.SEMI) {
			p.advance()
			return
		}
		if startsStatement(p.cur().Kind) {
			return
		}
		p.advance()
	}
}

// skipToGlobalScope implements error-recovery strategy (c): skip tokens,
// tracking brace depth the same way parseBlock does, until
// currentScopeDepth is back to 0 (global scope) or the input ends. Used
// after a malformed procedure declaration; for a proc nested inside a
// block this also skips the enclosing blocks' closing braces. A proc
// declaration at the top level has currentScopeDepth already
// at 0, so this is a no-op there; the tokens already consumed while
// attempting to parse the declaration are enough to make progress.
func (p *Parser) skipToGlobalScope() {
	for !p.atEnd() && p.currentScopeDepth != 0 {
		switch p.cur().Kind {
		case token.LBRACE:
			p.currentScopeDepth++
		case token.RBRACE:
			p.currentScopeDepth--
		}
		p.advance()
	}
}

func startsStatement(k token.Kind) bool {
	switch k {
	case token.IF, token.FOR, token.VAR, token.PROC, token.LBRACE,
		token.RETURN, token.IMPORT, token.IDENT, token.RBRACE:
		return true
	default:
		return false
	}
}

func startsExpr(k token.Kind) bool {
	switch k {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE,
		token.IDENT, token.LPAREN, token.MINUS, token.BANG:
		return true
	default:
		return false
	}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur().Kind {
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.VAR:
		return p.parseVarDecl()
	case token.PROC:
		return p.parseProcDecl()
	case token.LBRACE:
		return p.parseBlock()
	case token.RETURN:
		return p.parseReturn()
	case token.IMPORT:
		return p.parseImport()
	case token.IDENT:
		return p.parseIdentStartStatement()
	default:
		if startsExpr(p.cur().Kind) {
			return p.parseExprStmt()
		}
		p.errorf(p.cur(), "unexpected token %s at start of statement", p.cur())
		p.recover()
		return nil
	}
}

func (p *Parser) parseIf() ast.Stmt {
	ifPos := p.advance().Pos()
	cond := p.parseExpr()
	then := p.parseStatement()
	if then == nil {
		return nil
	}
	s := &ast.IfStmt{If: ifPos, Cond: cond, Then: then}
	if p.match(token.ELSE) {
		s.Else = p.parseStatement()
	}
	return s
}

func (p *Parser) parseFor() ast.Stmt {
	forPos := p.advance().Pos()
	cond := p.parseExpr()
	p.expect(token.SEMI, "';'")
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return &ast.ForStmt{For: forPos, Cond: cond, Body: body}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	varPos := p.advance().Pos()
	name := p.expect(token.IDENT, "identifier")
	p.expect(token.COLON, "':'")
	typeTok := p.expectTypeName()

	s := &ast.VarDeclStmt{
		Var: varPos, Name: name.Lexeme, NamePos: name.Pos(),
		Type: typeTok.Kind, TypePos: typeTok.Pos(),
	}
	if p.match(token.ASSIGN) {
		s.Init = p.parseExpr()
	}
	s.Semi = p.expect(token.SEMI, "';'").Pos()
	return s
}

func (p *Parser) expectTypeName() token.Token {
	if token.IsPrimitiveTypeName(p.cur().Kind) {
		return p.advance()
	}
	p.errorf(p.cur(), "expected a type name, got %s", p.cur())
	return p.cur()
}

func (p *Parser) parseProcDecl() ast.Stmt {
	procPos := p.advance().Pos()
	name := p.expect(token.IDENT, "identifier")

	s := &ast.ProcDeclStmt{Proc: procPos, Name: name.Lexeme, NamePos: name.Pos()}

	if p.match(token.LPAREN) {
		if !p.check(token.RPAREN) {
			for {
				pname := p.expect(token.IDENT, "identifier")
				p.expect(token.COLON, "':'")
				ptype := p.expectTypeName()
				s.Params = append(s.Params, ast.Param{
					Name: pname.Lexeme, NamePos: pname.Pos(),
					Type: ptype.Kind, TypePos: ptype.Pos(),
				})
				if !p.match(token.COMMA) {
					break
				}
			}
		}
		p.expect(token.RPAREN, "')'")
	}

	for !p.check(token.LBRACE) && !p.atEnd() {
		if token.IsPrimitiveTypeName(p.cur().Kind) {
			t := p.advance()
			s.Returns = append(s.Returns, ast.Param{Type: t.Kind, TypePos: t.Pos()})
		} else if p.check(token.IDENT) {
			rname := p.advance()
			p.expect(token.COLON, "':'")
			rtype := p.expectTypeName()
			s.Returns = append(s.Returns, ast.Param{
				Name: rname.Lexeme, NamePos: rname.Pos(),
				Type: rtype.Kind, TypePos: rtype.Pos(),
			})
		} else {
			p.errorf(p.cur(), "expected a return type or '{'")
			p.skipToGlobalScope()
			return nil
		}
		if !p.match(token.COMMA) {
			break
		}
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	s.Body = body.(*ast.BlockStmt)
	return s
}

func (p *Parser) parseBlock() ast.Stmt {
	lbrace := p.expect(token.LBRACE, "'{'").Pos()
	p.currentScopeDepth++

	block := &ast.BlockStmt{Lbrace: lbrace}
	for !p.check(token.RBRACE) && !p.atEnd() {
		if p.check(token.SEMI) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	block.Rbrace = p.expect(token.RBRACE, "'}'").Pos()
	p.currentScopeDepth--
	return block
}

func (p *Parser) parseReturn() ast.Stmt {
	retPos := p.advance().Pos()
	s := &ast.ReturnStmt{Return: retPos}
	if startsExpr(p.cur().Kind) {
		s.Results = append(s.Results, p.parseExpr())
		for p.match(token.COMMA) {
			s.Results = append(s.Results, p.parseExpr())
		}
	}
	if p.check(token.SEMI) {
		s.Semi = p.advance().Pos()
	}
	return s
}

func (p *Parser) parseImport() ast.Stmt {
	importPos := p.advance().Pos()
	name := p.expect(token.IDENT, "identifier")
	semi := p.expect(token.SEMI, "';'").Pos()
	return &ast.ImportStmt{Import: importPos, Name: name.Lexeme, NamePos: name.Pos(), Semi: semi}
}

// parseIdentStartStatement implements the statement-start ambiguity
// resolution: after seeing IDENT, peek the next token — '=' means assign,
// '.' or '(' means expression-statement, otherwise it is an error.
func (p *Parser) parseIdentStartStatement() ast.Stmt {
	next := p.peekAt(1).Kind
	switch next {
	case token.ASSIGN:
		return p.parseAssign()
	case token.DOT, token.LPAREN:
		return p.parseExprStmt()
	default:
		p.errorf(p.cur(), "unexpected token %s after identifier %q", p.peekAt(1), p.cur().Lexeme)
		p.recover()
		return nil
	}
}

func (p *Parser) parseAssign() ast.Stmt {
	target := p.advance()
	assignPos := p.advance().Pos() // '='
	rhs := p.parseExpr()
	semi := p.expect(token.SEMI, "';'").Pos()
	return &ast.AssignStmt{
		Target: target.Lexeme, TargetPos: target.Pos(),
		Assign: assignPos, Rhs: rhs, Semi: semi,
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	e := p.parseExpr()
	semi := p.expect(token.SEMI, "';'").Pos()
	return &ast.ExprStmt{X: e, Semi: semi}
}
