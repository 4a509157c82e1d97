// Package ir implements a three-address-code skeleton: a translator that
// walks the resolved and type-checked statement tree and emits one
// instruction per internal (non-leaf) expression node. It does not lower
// IR to bytecode, and nothing else in the module compiles source to
// bytecode either: bytecode is only produced by the bytecode package's
// textual assembler. Grounded on original_source/ir.{hpp,cpp}, which ships the same
// opcode set and the same "translate walks the tree, every case breaks
// without emitting" skeleton this package fills in only as far as
// instruction emission, not as far as a real value-numbering allocator.
package ir

import (
	"fmt"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/token"
)

// Op is a three-address-code opcode.
type Op int

const (
	Invalid Op = iota
	ScopeStart
	ScopeEnd
	Call  // Operand1 -> procedure id, Operand2 -> arity
	Param // Operand1 -> argument value id
	Add
	Sub
	Mult
	Div
	Mod
	Negate
	Not
)

var opNames = [...]string{
	Invalid: "invalid", ScopeStart: "scope-start", ScopeEnd: "scope-end",
	Call: "call", Param: "param",
	Add: "add", Sub: "sub", Mult: "mult", Div: "div", Mod: "mod",
	Negate: "negate", Not: "not",
}

func (o Op) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// Instr is a single three-address instruction. Each kind of node uses at
// most two integer operands to carry its relevant data, exactly like the
// reference IR_Instr layout: a binary op's Operand1/Operand2 are its
// left/right value ids, a unary op's Operand1 is its operand's value id, a
// call's Operand1/Operand2 are its procedure id and arity, and a param's
// Operand1 is the argument's value id.
type Instr struct {
	Op       Op
	ID       int // value id this instruction produces, 0 if it produces none
	Operand1 int
	Operand2 int
}

func (i Instr) String() string {
	return fmt.Sprintf("%%%d = %s %d, %d", i.ID, i.Op, i.Operand1, i.Operand2)
}

type translator struct {
	nextID int
	instrs []Instr
}

// Translate walks stmts in order and returns the flat instruction list.
func Translate(stmts []ast.Stmt) []Instr {
	t := &translator{nextID: 1}
	for _, s := range stmts {
		t.stmt(s)
	}
	return t.instrs
}

func (t *translator) emit(op Op, operand1, operand2 int) int {
	id := t.nextID
	t.nextID++
	t.instrs = append(t.instrs, Instr{Op: op, ID: id, Operand1: operand1, Operand2: operand2})
	return id
}

func (t *translator) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		if n.Init != nil {
			t.expr(n.Init)
		}

	case *ast.ProcDeclStmt:
		t.emit(ScopeStart, 0, 0)
		for _, inner := range n.Body.Stmts {
			t.stmt(inner)
		}
		t.emit(ScopeEnd, 0, 0)

	case *ast.AssignStmt:
		t.expr(n.Rhs)

	case *ast.BlockStmt:
		t.emit(ScopeStart, 0, 0)
		for _, inner := range n.Stmts {
			t.stmt(inner)
		}
		t.emit(ScopeEnd, 0, 0)

	case *ast.IfStmt:
		t.expr(n.Cond)
		t.stmt(n.Then)
		if n.Else != nil {
			t.stmt(n.Else)
		}

	case *ast.ForStmt:
		t.expr(n.Cond)
		t.stmt(n.Body)

	case *ast.ExprStmt:
		t.expr(n.X)

	case *ast.ReturnStmt:
		for _, r := range n.Results {
			t.expr(r)
		}

	case *ast.ImportStmt:
		// No semantics: nothing to translate.
	}
}

// expr translates e and returns the value id a consumer should use to refer
// to its result. Leaf nodes (literals, variables) produce no instruction of
// their own and are substituted as-is, per the reference translator's
// comment; a literal's value id is 0 (not a real instruction result) since
// encoding literal values into the three-address form is left for the
// lowering stage this skeleton does not implement.
func (t *translator) expr(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		l := t.expr(n.Left)
		r := t.expr(n.Right)
		op := binaryOp(n.Op)
		return t.emit(op, l, r)

	case *ast.UnaryExpr:
		v := t.expr(n.Operand)
		return t.emit(unaryOp(n.Op), v, 0)

	case *ast.GroupingExpr:
		// Grouping only forces precedence at parse time; it generates
		// nothing of its own.
		return t.expr(n.Inner)

	case *ast.LiteralExpr:
		return 0

	case *ast.VariableExpr:
		return n.VarID

	case *ast.CallExpr:
		for _, a := range n.Args {
			v := t.expr(a)
			t.emit(Param, v, 0)
		}
		return t.emit(Call, n.ProcID, len(n.Args))

	case *ast.MemberExpr:
		// Structure member access needs offset/indirection instructions
		// this skeleton does not generate yet (Non-goal).
		return t.expr(n.Object)

	default:
		return 0
	}
}

func binaryOp(op token.Kind) Op {
	switch op {
	case token.PLUS:
		return Add
	case token.MINUS:
		return Sub
	case token.STAR:
		return Mult
	case token.SLASH:
		return Div
	case token.PERCENT:
		return Mod
	default:
		// Comparisons, equality and boolean and/or have no three-address
		// lowering in this opcode set.
		return Invalid
	}
}

func unaryOp(op token.Kind) Op {
	switch op {
	case token.MINUS:
		return Negate
	case token.BANG:
		return Not
	default:
		return Invalid
	}
}
