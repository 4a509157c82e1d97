package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"

	"github.com/mua900/pebble/lang/ast"
	"github.com/mua900/pebble/lang/diag"
	"github.com/mua900/pebble/lang/dot"
	"github.com/mua900/pebble/lang/parser"
	"github.com/mua900/pebble/lang/scanner"
)

// repl reads one expression per line from stdio.Stdin, printing its parsed
// form (with -ast) and, on the first successful parse when -generate-dot-file
// is set, writing a Graphviz dump of that expression before exiting. A "q"
// or "quit" line, or EOF, ends the loop.
func (c *Cmd) repl(ctx context.Context, stdio mainer.Stdio) error {
	in := bufio.NewScanner(stdio.Stdin)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(stdio.Stdout, "> ")
		if !in.Scan() {
			return nil
		}
		line := strings.TrimSpace(in.Text())
		if line == "q" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		sink := &diag.Sink{}
		toks, lok := scanner.Lex("<stdin>", []byte(line), sink)
		if !lok {
			sink.Print(stdio.Stderr)
			continue
		}

		expr, pok := parser.ParseExpr("<stdin>", toks, sink)
		sink.Print(stdio.Stderr)
		if !pok {
			continue
		}

		if c.PrintAST {
			printExpr(stdio.Stdout, expr, c.Verbose)
		}

		if c.GenerateDotFile != "" {
			if err := writeDotFile(c.GenerateDotFile, expr); err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				return err
			}
			// Interactive mode's -generate-dot-file produces one file then exits.
			return nil
		}
	}
}

func writeDotFile(name string, expr ast.Expr) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("opening dot file %s: %w", name, err)
	}
	defer f.Close()
	return dot.WriteExprTree(f, expr)
}
