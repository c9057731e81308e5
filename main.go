// Command cactus is the scanner/parser/evaluator pipeline's CLI entry
// point: no arguments opens a REPL, one argument runs a source file, and
// anything else prints usage and exits 64.
package main

import (
	"fmt"
	"os"

	"github.com/amaji/cactus/eval"
	"github.com/amaji/cactus/file"
	"github.com/amaji/cactus/parser"
	"github.com/amaji/cactus/repl"
	"github.com/amaji/cactus/scanner"
)

const version = "0.1.0"

const banner = `cactus - a tree-walking scripting language`

func main() {
	switch len(os.Args) {
	case 1:
		session := repl.New(banner, version)
		if err := session.Start(os.Stderr, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Println("usage: cactus [script]")
		os.Exit(64)
	}
}

// runFile executes one source file end to end and returns the process
// exit code: 0 on success, non-zero if scanning, parsing, or evaluation
// failed.
func runFile(path string) int {
	src, err := file.ReadSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tokens, err := scanner.ScanTokens(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.(*scanner.Error).Report())
		return 1
	}

	stmts, err := parser.New(tokens).Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.(*parser.Error).Report())
		return 1
	}

	interp := eval.New(os.Stdout)
	if err := interp.Interpret(stmts); err != nil {
		fmt.Fprintln(os.Stderr, err.(*eval.Error).Report())
		return 1
	}
	return 0
}
