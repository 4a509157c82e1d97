// Package maincmd implements the pebble CLI: the single command-line
// surface "pebble [options] filename..." described by the external
// interfaces. Its flag parsing and Stdio/exit-code plumbing are grounded
// on nenuphar's internal/maincmd/maincmd.go, adapted from that teacher's
// subcommand dispatch (each subcommand a reflect-discovered method) to a
// flat options-plus-filenames shape, since this CLI has no subcommands.
package maincmd

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"

	"github.com/mua900/pebble/internal/config"
)

const binName = "pebble"

var (
	shortUsage = fmt.Sprintf("usage: %s [<option>...] <filename>...\nRun '%[1]s --help' for details.\n", binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <filename>...

Compiler and all-in-one tool for the %[1]s programming language.

With no filename, reads expressions interactively from stdin.

Options (unrecognized arguments are treated as additional filenames):
       --help                    Print usage and exit.
       -o <name>                 Set output file name.
       -stdout                   Send output to stdout.
       -v, -verbose              Verbose logging.
       -dump-lexer-output        Print tokens.
       -parse-expr               Interpret input as a single expression.
       -lexer-only               Stop after lexing.
       -parse-only               Stop after parsing.
       -ast                      Print the AST.
       -c-output                 Run the partial C transpiler.
       -generate-dot-file <name> Emit a Graphviz file for the expression
                                 tree (interactive mode only).
       -test-bytecode            Run the bytecode self-tests.
       -test-typecheck           Run the type-checker self-tests.
       -test-name-resolution     Run the resolver self-tests.
`, binName)
)

// Cmd holds every CLI flag; mainer.Parser populates it from struct tags.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"help"`
	Verbose bool `flag:"v,verbose"`

	OutputFile string `flag:"o"`
	Stdout     bool   `flag:"stdout"`

	DumpLexerOutput bool `flag:"dump-lexer-output"`
	ParseExpr       bool `flag:"parse-expr"`
	LexerOnly       bool `flag:"lexer-only"`
	ParseOnly       bool `flag:"parse-only"`
	PrintAST        bool `flag:"ast"`
	COutput         bool `flag:"c-output"`

	GenerateDotFile    string `flag:"generate-dot-file"`
	TestBytecode       bool   `flag:"test-bytecode"`
	TestTypecheck      bool   `flag:"test-typecheck"`
	TestNameResolution bool   `flag:"test-name-resolution"`

	files []string
}

// SetArgs is called by mainer.Parser with the positional arguments left
// after flag parsing.
func (c *Cmd) SetArgs(args []string) { c.files = append(c.files, args...) }

// SetFlags is called by mainer.Parser with which flags were set; unused
// here since every flag here is independently meaningful on its own.
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate always succeeds: there is no required subcommand, and an empty
// file list just means interactive mode.
func (c *Cmd) Validate() error { return nil }

// Main is the CLI entry point, called by cmd/pebble/main.go.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	if opts, err := config.Load("pebble.yaml"); err == nil {
		c.Verbose = c.Verbose || opts.Verbose
		if c.OutputFile == "" {
			c.OutputFile = opts.OutputFile
		}
		c.Stdout = c.Stdout || opts.Stdout
		if c.GenerateDotFile == "" {
			c.GenerateDotFile = opts.GenerateDot
		}
	}

	// args[0] is the program name; mainer.Parser.Parse expects it present
	// and skips it itself, so only args[1:] is scanned for filenames.
	var progName, progArgs []string
	if len(args) > 0 {
		progName, progArgs = args[:1], args[1:]
	}
	flagArgs, fileArgs := splitKnownFlags(progArgs, c)
	flagArgs = append(progName, flagArgs...)

	p := mainer.Parser{EnvVars: false, EnvPrefix: "PEBBLE_"}
	if err := p.Parse(flagArgs, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}
	c.files = append(c.files, fileArgs...)

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	switch {
	case c.TestBytecode:
		return runSelfTest(stdio, selfTestBytecode)
	case c.TestTypecheck:
		return runSelfTest(stdio, selfTestTypecheck)
	case c.TestNameResolution:
		return runSelfTest(stdio, selfTestNameResolution)
	}

	if len(c.files) == 0 {
		if err := c.repl(ctx, stdio); err != nil {
			return mainer.Failure
		}
		return mainer.Success
	}

	ok, err := c.compileFiles(ctx, stdio)
	if err != nil {
		// Failure to open an input/output file: the only condition the
		// spec wants reflected in the exit code.
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.Failure
	}
	_ = ok // diagnostic errors during compilation do not change the exit code
	return mainer.Success
}

// splitKnownFlags pre-scans args, routing anything that is not one of v's
// declared `flag:"..."` names (or the value of such a flag) into the
// returned fileArgs, and everything else into flagArgs for mainer.Parser.
// This implements the "unknown args are additional filenames" leniency
// mainer.Parser does not provide on its own.
func splitKnownFlags(args []string, v any) (flagArgs, fileArgs []string) {
	flagsTakingValue, boolFlags := declaredFlags(v)

	for i := 0; i < len(args); i++ {
		a := args[i]
		name, ok := flagName(a)
		if !ok {
			fileArgs = append(fileArgs, a)
			continue
		}
		if boolFlags[name] {
			flagArgs = append(flagArgs, a)
			continue
		}
		if flagsTakingValue[name] {
			flagArgs = append(flagArgs, a)
			if i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
			continue
		}
		// Not a declared flag at all: treat as a filename, dashes included.
		fileArgs = append(fileArgs, a)
	}
	return flagArgs, fileArgs
}

func flagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false
	}
	return strings.TrimLeft(arg, "-"), true
}

// declaredFlags reflects over v's `flag:"a,b"` struct tags, splitting
// boolean flags (which take no value) from flags whose field type means
// they consume the following argument.
func declaredFlags(v any) (takesValue, boolFlag map[string]bool) {
	takesValue = map[string]bool{}
	boolFlag = map[string]bool{}

	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("flag")
		if tag == "" {
			continue
		}
		isBool := f.Type.Kind() == reflect.Bool
		for _, name := range strings.Split(tag, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if isBool {
				boolFlag[name] = true
			} else {
				takesValue[name] = true
			}
		}
	}
	return takesValue, boolFlag
}
