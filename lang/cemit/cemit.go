// Package cemit implements the partial C transpiler invoked by -c-output:
// a quick-prototyping, not-fully-general lowering of the statement tree to
// C source text. Grounded on original_source/c_emitter.{hpp,cpp}, including
// its explicit limitations (multi-value returns are not given a generated
// struct type; they reuse the first declared return type, matching that
// file's own "@todo" rather than inventing a richer scheme here).
package cemit

import (
	"fmt"
	"io"
	"strings"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/token"
)

// Emit writes a C translation unit for program to w.
func Emit(w io.Writer, program []ast.Stmt) error {
	if _, err := io.WriteString(w, "#include <stdlib.h>\n#include <stdio.h>\n#include <string.h>\n\n"); err != nil {
		return err
	}
	for _, stmt := range program {
		if err := translateStatement(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

func cTypeName(k token.Kind) string {
	switch k {
	case token.INT_TYPE:
		return "int"
	case token.FLOAT_TYPE:
		return "double"
	case token.STRING_TYPE:
		return "char*"
	default:
		return "void"
	}
}

func translateStatement(w io.Writer, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Init != nil {
			fmt.Fprintf(w, "%s %s = %s;\n", cTypeName(s.Type), s.Name, expressionString(s.Init))
		} else {
			fmt.Fprintf(w, "%s %s;\n", cTypeName(s.Type), s.Name)
		}
		return nil

	case *ast.ProcDeclStmt:
		returnType := "void"
		if len(s.Returns) > 0 {
			// Multiple return values would need a generated struct type; this
			// transpiler is explicitly partial and just takes the first.
			returnType = cTypeName(s.Returns[0].Type)
		}
		var params []string
		for _, p := range s.Params {
			params = append(params, fmt.Sprintf("%s %s", cTypeName(p.Type), p.Name))
		}
		fmt.Fprintf(w, "%s %s(%s) {\n", returnType, s.Name, strings.Join(params, ", "))
		for _, inner := range s.Body.Stmts {
			if err := translateStatement(w, inner); err != nil {
				return err
			}
		}
		fmt.Fprint(w, "}\n")
		return nil

	case *ast.AssignStmt:
		fmt.Fprintf(w, "%s = %s;\n", s.Target, expressionString(s.Rhs))
		return nil

	case *ast.BlockStmt:
		fmt.Fprint(w, "{\n")
		for _, inner := range s.Stmts {
			if err := translateStatement(w, inner); err != nil {
				return err
			}
		}
		fmt.Fprint(w, "}\n")
		return nil

	case *ast.IfStmt:
		fmt.Fprintf(w, "if (%s) {\n", expressionString(s.Cond))
		if err := translateStatement(w, s.Then); err != nil {
			return err
		}
		fmt.Fprint(w, "}\n")
		if s.Else != nil {
			fmt.Fprint(w, "else {\n")
			if err := translateStatement(w, s.Else); err != nil {
				return err
			}
			fmt.Fprint(w, "}\n")
		}
		return nil

	case *ast.ForStmt:
		fmt.Fprintf(w, "while (%s) {\n", expressionString(s.Cond))
		if err := translateStatement(w, s.Body); err != nil {
			return err
		}
		fmt.Fprint(w, "}\n")
		return nil

	case *ast.ImportStmt:
		// No C equivalent for this language's import system yet.
		return nil

	case *ast.ExprStmt:
		fmt.Fprintf(w, "%s;\n", expressionString(s.X))
		return nil

	case *ast.ReturnStmt:
		if len(s.Results) == 0 {
			fmt.Fprint(w, "return;\n")
			return nil
		}
		// Only the first result is representable without a generated
		// struct return type (see ProcDeclStmt above).
		fmt.Fprintf(w, "return %s;\n", expressionString(s.Results[0]))
		return nil

	default:
		return nil
	}
}

func expressionString(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return literalString(n.Value)
	case *ast.VariableExpr:
		return n.Name
	case *ast.GroupingExpr:
		return "(" + expressionString(n.Inner) + ")"
	case *ast.UnaryExpr:
		return cOperator(n.Op) + expressionString(n.Operand)
	case *ast.BinaryExpr:
		return expressionString(n.Left) + " " + cOperator(n.Op) + " " + expressionString(n.Right)
	case *ast.CallExpr:
		var args []string
		for _, a := range n.Args {
			args = append(args, expressionString(a))
		}
		return expressionString(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.MemberExpr:
		return expressionString(n.Object) + "." + n.Member
	default:
		return ""
	}
}

func literalString(v token.Value) string {
	switch v.Kind {
	case token.IntValue:
		return fmt.Sprintf("%d", v.Int)
	case token.FloatValue:
		return fmt.Sprintf("%g", v.Real)
	case token.StringValue:
		return fmt.Sprintf("%q", v.Str)
	case token.BoolValue:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return "0"
	}
}

func cOperator(op token.Kind) string {
	switch op {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.EQ:
		return "=="
	case token.NEQ:
		return "!="
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LE:
		return "<="
	case token.GE:
		return ">="
	case token.AND:
		return "&&"
	case token.OR:
		return "||"
	case token.BANG:
		return "!"
	default:
		return "?"
	}
}
