package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/cemit"
	"github.com/mua900/pebble/lang/checker"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/resolver"
	"github.com/mua900/pebble/lang/scanner"
)

// compileFiles runs the full pipeline over c.files, stopping early
// according to the -lexer-only/-parse-only flags or after the first stage
// of a file that reports an error, and reports whether any
// file produced a diagnostic error (not itself a reason to fail the
// process, per the exit-status rule) alongside any I/O error opening
// input or output files (which is).
func (c *Cmd) compileFiles(ctx context.Context, stdio mainer.Stdio) (ok bool, err error) {
	out, closeOut, err := c.openOutput(stdio)
	if err != nil {
		return false, err
	}
	defer closeOut()

	sinks := make([]*diag.Sink, len(c.files))
	for i := range sinks {
		sinks[i] = &diag.Sink{}
	}

	results, err := scanner.ScanFiles(ctx, sinks, c.files, os.ReadFile)
	if err != nil {
		return false, err
	}

	clean := true
	for i, res := range results {
		if c.DumpLexerOutput {
			for _, tok := range res.Tokens {
				fmt.Fprintln(out, tok.String())
			}
		}
		if res.HadError {
			clean = false
		}
		if c.LexerOnly || sinks[i].HasErrors() {
			continue
		}

		if c.ParseExpr {
			expr, pok := parser.ParseExpr(res.File, res.Tokens, sinks[i])
			if !pok {
				clean = false
			}
			if c.PrintAST && expr != nil {
				printExpr(out, expr, c.Verbose)
			}
			continue
		}

		chunk, pok := parser.Parse(res.File, res.Tokens, sinks[i])
		if !pok {
			clean = false
		}
		if c.PrintAST {
			(&ast.Printer{Output: out, Pos: c.Verbose}).Print(chunk)
		}
		if c.ParseOnly || !pok {
			continue
		}

		envs, rok := resolver.New(sinks[i]).Resolve(chunk)
		if !rok {
			clean = false
			continue
		}

		if !checker.New(envs, sinks[i]).Check(chunk) {
			clean = false
			continue
		}

		if c.COutput {
			if err := cemit.Emit(out, chunk.Stmts); err != nil {
				return clean, err
			}
		}
	}

	for _, sink := range sinks {
		sink.Print(stdio.Stderr)
	}
	return clean, nil
}

func (c *Cmd) openOutput(stdio mainer.Stdio) (io.Writer, func(), error) {
	if c.Stdout || c.OutputFile == "" {
		return stdio.Stdout, func() {}, nil
	}
	f, err := os.Create(c.OutputFile)
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening output file %s: %w", c.OutputFile, err)
	}
	return f, func() { f.Close() }, nil
}

func printExpr(out io.Writer, expr ast.Expr, pos bool) {
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) {
		if dir == ast.VisitExit {
			return
		}
		if pos {
			start, _ := n.Span()
			fmt.Fprintf(out, "%s: %v\n", start, n)
		} else {
			fmt.Fprintf(out, "%v\n", n)
		}
	}), expr)
}
