package resolver

import (
	"fmt"
	"io"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/types"
)

// Resolver walks a parsed Chunk twice: collectDeclaration binds every
// declaration into its Environment and stamps every statement's Scope;
// resolveStmtReferences then walks again, resolving every variable and call
// expression against the Environment forest built by the first pass. This
// mirrors the reference implementation's Resolver::resolve almost exactly.
type Resolver struct {
	envs []*Environment
	sink *diag.Sink
}

// New creates a Resolver that will report into sink.
func New(sink *diag.Sink) *Resolver {
	return &Resolver{sink: sink}
}

// Resolve runs both passes over chunk and returns the resulting Environment
// forest (index 0 is the global environment) along with whether resolution
// succeeded (no error was reported).
func (r *Resolver) Resolve(chunk *ast.Chunk) ([]*Environment, bool) {
	r.envs = []*Environment{newEnvironment(-1)}

	for _, s := range chunk.Stmts {
		r.collectDeclaration(s, 0)
	}
	for _, s := range chunk.Stmts {
		r.resolveStmtReferences(s)
	}

	return r.envs, !r.sink.HasErrors()
}

// Environments returns the Environment forest built by the last Resolve
// call.
func (r *Resolver) Environments() []*Environment { return r.envs }

// DumpEnvironments prints every Environment in envs, global first, each
// labeled with its ordinal position and its parent's. Grounded on
// Resolver::dump_environments in the reference resolver.
func DumpEnvironments(w io.Writer, envs []*Environment) {
	if len(envs) == 0 {
		return
	}
	fmt.Fprintln(w, "global scope:")
	envs[0].Dump(w)

	for i := 1; i < len(envs); i++ {
		fmt.Fprintf(w, "environment %d, child of %d\n", i, envs[i].ParentIndex)
		envs[i].Dump(w)
	}
}

func (r *Resolver) newChildEnv(parent int) int {
	r.envs = append(r.envs, newEnvironment(parent))
	return len(r.envs) - 1
}

// collectDeclaration is resolver pass 1: it stamps stmt's scope and binds
// any declaration it introduces.
func (r *Resolver) collectDeclaration(stmt ast.Stmt, envIdx int) {
	stmt.SetScope(envIdx)

	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		declType, _ := types.FromPrimitiveTypeName(s.Type)
		s.VarID = r.envs[envIdx].BindVariable(s.Name, Variable{Name: s.Name, Type: declType})

	case *ast.ProcDeclStmt:
		childIdx := r.newChildEnv(envIdx)
		for _, inner := range s.Body.Stmts {
			r.collectDeclaration(inner, childIdx)
		}
		s.Body.SetScope(childIdx)

		var params []Variable
		for _, p := range s.Params {
			pt, _ := types.FromPrimitiveTypeName(p.Type)
			vid := r.envs[childIdx].BindVariable(p.Name, Variable{Name: p.Name, Type: pt})
			params = append(params, Variable{VarID: vid, Name: p.Name, Type: pt})
		}

		var rets []types.ID
		for _, rp := range s.Returns {
			rt, _ := types.FromPrimitiveTypeName(rp.Type)
			rets = append(rets, rt)
		}

		s.IsNested = envIdx > 1
		s.ProcScope = childIdx
		s.ProcID = r.envs[envIdx].BindProcedure(s.Name, Procedure{
			Name: s.Name, Params: params, Returns: rets, Body: s.Body,
			ProcScope: childIdx, IsNested: s.IsNested,
		})

	case *ast.BlockStmt:
		childIdx := r.newChildEnv(envIdx)
		for _, inner := range s.Stmts {
			r.collectDeclaration(inner, childIdx)
		}
		stmt.SetScope(childIdx)

	case *ast.IfStmt:
		r.collectDeclaration(s.Then, envIdx)
		if s.Else != nil {
			r.collectDeclaration(s.Else, envIdx)
		}

	case *ast.ForStmt:
		r.collectDeclaration(s.Body, envIdx)

	default:
		// AssignStmt, ExprStmt, ImportStmt, ReturnStmt introduce no
		// declaration; the scope stamp above is all pass 1 does for them.
	}
}

// resolveStmtReferences is resolver pass 2.
func (r *Resolver) resolveStmtReferences(stmt ast.Stmt) {
	scope := stmt.Scope()

	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Init != nil {
			r.resolveExpr(s.Init, scope)
		}

	case *ast.ProcDeclStmt:
		for _, inner := range s.Body.Stmts {
			r.resolveStmtReferences(inner)
		}

	case *ast.IfStmt:
		r.resolveExpr(s.Cond, scope)
		r.resolveStmtReferences(s.Then)
		if s.Else != nil {
			r.resolveStmtReferences(s.Else)
		}

	case *ast.ForStmt:
		r.resolveExpr(s.Cond, scope)
		r.resolveStmtReferences(s.Body)

	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			r.resolveStmtReferences(inner)
		}

	case *ast.ExprStmt:
		r.resolveExpr(s.X, scope)

	case *ast.AssignStmt:
		r.resolveExpr(s.Rhs, scope)
		if v, ok := r.lookupVariable(scope, s.Target); ok {
			s.VarID = v.VarID
		} else {
			r.sink.Errorf(s.TargetPos, "resolver", "use of undeclared variable %s", s.Target)
		}

	case *ast.ImportStmt:
		// Parses but has no semantics (Non-goal).

	case *ast.ReturnStmt:
		for _, e := range s.Results {
			r.resolveExpr(e, scope)
		}
	}
}

func (r *Resolver) resolveExpr(e ast.Expr, scope int) {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		r.resolveExpr(n.Left, scope)
		r.resolveExpr(n.Right, scope)

	case *ast.UnaryExpr:
		r.resolveExpr(n.Operand, scope)

	case *ast.GroupingExpr:
		r.resolveExpr(n.Inner, scope)

	case *ast.VariableExpr:
		if v, ok := r.lookupVariable(scope, n.Name); ok {
			n.VarID = v.VarID
		} else {
			r.sink.Errorf(n.NamePos, "resolver", "use of undeclared variable %s", n.Name)
		}

	case *ast.LiteralExpr:
		// no references to resolve

	case *ast.CallExpr:
		r.resolveCallee(n, scope)
		for _, a := range n.Args {
			r.resolveExpr(a, scope)
		}

	case *ast.MemberExpr:
		// Structure semantics deferred; only the left/object side is
		// resolved.
		r.resolveExpr(n.Object, scope)
	}
}

// resolveCallee walks the callee chain down to its terminal VariableExpr
// naming the procedure, exactly as the reference resolver does, and sets
// n.ProcID from the matching declaration.
func (r *Resolver) resolveCallee(n *ast.CallExpr, scope int) {
	callee := n.Callee
	for {
		switch c := callee.(type) {
		case *ast.CallExpr:
			callee = c.Callee
			continue
		case *ast.MemberExpr:
			callee = c.Object
			continue
		case *ast.GroupingExpr:
			callee = c.Inner
			continue
		}
		break
	}

	ve, ok := callee.(*ast.VariableExpr)
	if !ok {
		pos, _ := n.Callee.Span()
		r.sink.Errorf(pos, "resolver", "malformed call expression")
		return
	}
	if proc, ok := r.lookupProcedure(scope, ve.Name); ok {
		n.ProcID = proc.ProcID
	} else {
		r.sink.Errorf(ve.NamePos, "resolver", "use of undeclared procedure %s", ve.Name)
	}
}

func (r *Resolver) lookupVariable(scope int, name string) (Variable, bool) {
	for search := scope; ; {
		env := r.envs[search]
		if v, ok := env.GetVariable(name); ok {
			return v, true
		}
		if env.ParentIndex == -1 {
			return Variable{}, false
		}
		search = env.ParentIndex
	}
}

func (r *Resolver) lookupProcedure(scope int, name string) (Procedure, bool) {
	for search := scope; ; {
		env := r.envs[search]
		if p, ok := env.GetProcedure(name); ok {
			return p, true
		}
		if env.ParentIndex == -1 {
			return Procedure{}, false
		}
		search = env.ParentIndex
	}
}
