package ast

import (
	"fmt"

	"github.com/mua900/pebble/lang/token"
)

// Param is a single name:type entry in a procedure's parameter or return
// list. Name is empty for a bare-TYPE entry in a return list.
type Param struct {
	Name    string
	NamePos token.Pos
	Type    token.Kind
	TypePos token.Pos
}

type (
	// VarDeclStmt declares a variable: var x : int = 3;
	VarDeclStmt struct {
		stmtBase
		Var     token.Pos
		Name    string
		NamePos token.Pos
		Type    token.Kind
		TypePos token.Pos
		Init    Expr // nil if no initializer
		Semi    token.Pos
		VarID   int
	}

	// ProcDeclStmt declares a procedure.
	ProcDeclStmt struct {
		stmtBase
		Proc    token.Pos
		Name    string
		NamePos token.Pos
		Params  []Param
		Returns []Param
		Body    *BlockStmt
		ProcID  int
		// ProcScope is the index, in the resolver's environment vector, of
		// this procedure's own scope (where its parameters and locals live).
		ProcScope int
		// IsNested is true when the enclosing environment index is > 1.
		// A procedure declared directly in environment 1 (the first child
		// of the global scope) is not flagged, although it is not top-level.
		IsNested bool
	}

	// IfStmt is a conditional; Else is nil if there is no else clause.
	IfStmt struct {
		stmtBase
		If   token.Pos
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// ForStmt is the language's only loop form: a while-loop spelled with
	// the for keyword, condition followed by a trailing semicolon, no
	// init/step clauses.
	ForStmt struct {
		stmtBase
		For  token.Pos
		Cond Expr
		Body Stmt
	}

	// AssignStmt assigns to an already-declared variable: x = expr;
	AssignStmt struct {
		stmtBase
		Target    string
		TargetPos token.Pos
		Assign    token.Pos
		Rhs       Expr
		Semi      token.Pos
		VarID     int
	}

	// BlockStmt is a brace-delimited sequence of statements and introduces
	// its own child environment.
	BlockStmt struct {
		stmtBase
		Lbrace token.Pos
		Stmts  []Stmt
		Rbrace token.Pos
	}

	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		stmtBase
		X    Expr
		Semi token.Pos
	}

	// ImportStmt parses but has no semantics (Non-goal).
	ImportStmt struct {
		stmtBase
		Import  token.Pos
		Name    string
		NamePos token.Pos
		Semi    token.Pos
	}

	// ReturnStmt returns zero or more values from the enclosing procedure.
	ReturnStmt struct {
		stmtBase
		Return  token.Pos
		Results []Expr
		Semi    token.Pos
	}
)

func (n *VarDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "var-decl "+n.Name, map[string]int{"id": n.VarID})
}
func (n *VarDeclStmt) Span() (start, end token.Pos) {
	if n.Semi.IsValid() {
		return n.Var, n.Semi
	}
	return n.Var, n.TypePos
}
func (n *VarDeclStmt) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

func (n *ProcDeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "proc-decl "+n.Name, map[string]int{"id": n.ProcID, "params": len(n.Params)})
}
func (n *ProcDeclStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Proc, end
}
func (n *ProcDeclStmt) Walk(v Visitor) { Walk(v, n.Body) }

func (n *IfStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "if", nil) }
func (n *IfStmt) Span() (start, end token.Pos) {
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}

func (n *ForStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "for", nil) }
func (n *ForStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.For, end
}
func (n *ForStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}

func (n *AssignStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "assign "+n.Target, map[string]int{"id": n.VarID})
}
func (n *AssignStmt) Span() (start, end token.Pos) {
	return n.TargetPos, n.Semi
}
func (n *AssignStmt) Walk(v Visitor) { Walk(v, n.Rhs) }

func (n *BlockStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *BlockStmt) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace }
func (n *BlockStmt) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr-stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.Semi
}
func (n *ExprStmt) Walk(v Visitor) { Walk(v, n.X) }

func (n *ImportStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "import "+n.Name, nil)
}
func (n *ImportStmt) Span() (start, end token.Pos) { return n.Import, n.Semi }
func (n *ImportStmt) Walk(_ Visitor)                {}

func (n *ReturnStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "return", map[string]int{"results": len(n.Results)})
}
func (n *ReturnStmt) Span() (start, end token.Pos) { return n.Return, n.Semi }
func (n *ReturnStmt) Walk(v Visitor) {
	for _, r := range n.Results {
		Walk(v, r)
	}
}
