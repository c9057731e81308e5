// Package repl implements cactus's interactive Read-Eval-Print Loop: one
// line in, one evaluation, one line of feedback out, using readline for
// history/editing and fatih/color for diagnostic coloring, the way the
// teacher's REPL does.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/amaji/cactus/eval"
	"github.com/amaji/cactus/parser"
	"github.com/amaji/cactus/scanner"
)

var (
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
)

// Prompt is written to standard output, flushed, before each read.
const Prompt = "> "

// Repl is a configured interactive session. Banner and Version are purely
// cosmetic, printed once at startup.
type Repl struct {
	Banner  string
	Version string
}

// New returns a Repl with the given startup banner and version string.
func New(banner, version string) *Repl {
	return &Repl{Banner: banner, Version: version}
}

func (r *Repl) printBanner(writer io.Writer) {
	if r.Banner != "" {
		greenColor.Fprintln(writer, r.Banner)
	}
	if r.Version != "" {
		yellowColor.Fprintf(writer, "cactus %s\n", r.Version)
	}
}

// Start runs the loop until an empty line, the literal "exit", or EOF is
// read. Errors are written to stderr and never stop the loop.
func (r *Repl) Start(stderr io.Writer, writer io.Writer) error {
	r.printBanner(writer)

	rl, err := readline.NewEx(&readline.Config{Prompt: Prompt, Stdout: writer, Stderr: stderr})
	if err != nil {
		return err
	}
	defer rl.Close()

	interp := eval.New(writer)

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl+D) or read error
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" || line == "exit" {
			return nil
		}
		rl.SaveHistory(line)

		r.evalLine(interp, line, writer, stderr)
	}
}

// evalLine scans, parses, and runs one line of input. A line that parses
// as a single expression statement has its value printed for debugging,
// per spec.md §6; anything else is just executed for its side effects.
func (r *Repl) evalLine(interp *eval.Evaluator, line string, writer, stderr io.Writer) {
	tokens, err := scanner.ScanTokens(line)
	if err != nil {
		redColor.Fprintln(stderr, err.(*scanner.Error).Report())
		return
	}

	stmts, err := parser.New(tokens).Parse()
	if err != nil {
		redColor.Fprintln(stderr, err.(*parser.Error).Report())
		return
	}

	if len(stmts) == 1 {
		if exprStmt, ok := stmts[0].(*parser.ExprStmt); ok {
			value, err := interp.EvalExpr(exprStmt.Expression)
			if err != nil {
				redColor.Fprintln(stderr, err.(*eval.Error).Report())
				return
			}
			yellowColor.Fprintln(writer, value.String())
			return
		}
	}

	if err := interp.Interpret(stmts); err != nil {
		redColor.Fprintln(stderr, err.(*eval.Error).Report())
	}
}
