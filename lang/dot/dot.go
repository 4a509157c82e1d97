// Package dot implements the Graphviz dump utility invoked by
// -generate-dot-file: a recursive walk of a single expression tree that
// emits "digraph ExprTree { ... }" source. Grounded on
// original_source/graph.cpp's expression_tree_to_dot, with the iterative
// DArray-stack traversal there replaced by ordinary recursion.
package dot

import (
	"fmt"
	"io"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/token"
)

// WriteExprTree writes a Graphviz digraph for root to w, one node per
// expression and one edge per parent/child relationship.
func WriteExprTree(w io.Writer, root ast.Expr) error {
	if root == nil {
		return fmt.Errorf("cannot graph a nil expression")
	}
	fmt.Fprintln(w, "digraph ExprTree {")
	g := &grapher{w: w}
	g.node(root, -1)
	fmt.Fprintln(w, "}")
	return nil
}

type grapher struct {
	w      io.Writer
	nextID int
}

func (g *grapher) node(e ast.Expr, parent int) {
	id := g.nextID
	g.nextID++
	if parent >= 0 {
		fmt.Fprintf(g.w, "  node%d -> node%d\n", parent, id)
	}

	switch n := e.(type) {
	case *ast.BinaryExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Binary %s\"]\n", id, n.Op)
		g.node(n.Left, id)
		g.node(n.Right, id)

	case *ast.UnaryExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Unary %s\"]\n", id, n.Op)
		g.node(n.Operand, id)

	case *ast.GroupingExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Grouping\"]\n", id)
		g.node(n.Inner, id)

	case *ast.VariableExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Variable %s\"]\n", id, n.Name)

	case *ast.LiteralExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Literal %s\"]\n", id, literalLabel(n.Value))

	case *ast.CallExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Call\"]\n", id)
		g.node(n.Callee, id)
		for _, a := range n.Args {
			g.node(a, id)
		}

	case *ast.MemberExpr:
		fmt.Fprintf(g.w, "  node%d [label=\"Member %s\"]\n", id, n.Member)
		g.node(n.Object, id)

	default:
		fmt.Fprintf(g.w, "  node%d [label=\"?\"]\n", id)
	}
}

func literalLabel(v token.Value) string {
	switch v.Kind {
	case token.IntValue:
		return fmt.Sprintf("%d", v.Int)
	case token.FloatValue:
		return fmt.Sprintf("%g", v.Real)
	case token.StringValue:
		return v.Str
	case token.BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return "nil"
	}
}
