// Command lox is the CLI entry point for the lox-lang interpreter.
//
// Usage:
//
//	lox run    [-x] [-c config] <file>   Run a source file
//	lox tokens [-j] <file>               Print tokens (-j: as JSON)
//	lox parse  [-s] <file>               Print AST as JSON (-s: as source)
//	lox ast    <file>                    Print AST in prefix form
//	lox repl   [-c config]               Start interactive REPL
//	lox <file>                           Same as "lox run <file>"
//	lox                                  Same as "lox repl"
package main

import (
	"fmt"
	"io"
	"lox-lang/internal/ast"
	"lox-lang/internal/config"
	"lox-lang/internal/lexer"
	"lox-lang/internal/parser"
	"lox-lang/internal/runtime"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
)

// Exit statuses follow sysexits.h.
const (
	exitOK      = 0
	exitUsage   = 64 // EX_USAGE
	exitSyntax  = 65 // EX_DATAERR
	exitNoInput = 66 // EX_NOINPUT
	exitRuntime = 70 // EX_SOFTWARE
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries the output streams shared by all subcommands.
type cli struct {
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}

	if len(args) == 0 {
		return c.cmdRepl([]string{"repl"})
	}

	switch args[0] {
	case "run":
		return c.cmdRun(args)
	case "tokens":
		return c.cmdTokens(args)
	case "parse":
		return c.cmdParse(args)
	case "ast":
		return c.cmdAST(args)
	case "repl":
		return c.cmdRepl(args)
	case "help", "-h", "--help":
		c.usage()
		return exitOK
	default:
		if _, err := os.Stat(args[0]); err == nil {
			return c.cmdRun(append([]string{"run"}, args...))
		}
		fmt.Fprintf(c.stderr, "error: unknown command '%s'\n", args[0])
		c.usage()
		return exitUsage
	}
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  lox run    [-x] [-c config] <file>   Run a source file (-x: trace statements)")
	fmt.Fprintln(c.stderr, "  lox tokens [-j] <file>               Tokenize and print tokens (-j: JSON)")
	fmt.Fprintln(c.stderr, "  lox parse  [-s] <file>               Parse and print AST (JSON, -s: source)")
	fmt.Fprintln(c.stderr, "  lox ast    <file>                    Parse and print AST in prefix form")
	fmt.Fprintln(c.stderr, "  lox repl   [-c config]               Start interactive REPL")
}

// flags parses the options of a subcommand. args[0] is the subcommand name.
// It returns the options that were set and the remaining positional arguments.
func (c *cli) flags(args []string, spec string) (map[rune]string, []string, bool) {
	opts, optind, err := getopt.Getopts(args, spec)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %s: %v\n", args[0], err)
		c.usage()
		return nil, nil, false
	}
	set := make(map[rune]string, len(opts))
	for _, opt := range opts {
		set[opt.Option] = opt.Value
	}
	return set, args[optind:], true
}

// fileArg parses flags and requires exactly one file argument, whose
// contents are returned.
func (c *cli) fileArg(args []string, spec string) (map[rune]string, string, string, int) {
	opts, rest, ok := c.flags(args, spec)
	if !ok {
		return nil, "", "", exitUsage
	}
	if len(rest) != 1 {
		fmt.Fprintf(c.stderr, "error: %s: expected exactly one file argument\n", args[0])
		c.usage()
		return nil, "", "", exitUsage
	}
	source, err := os.ReadFile(rest[0])
	if err != nil {
		fmt.Fprintf(c.stderr, "error: cannot read file %s: %v\n", rest[0], err)
		return nil, "", "", exitNoInput
	}
	return opts, rest[0], string(source), exitOK
}

// loadConfig reads the config named by -c (or the default locations) and
// applies its colour setting.
func (c *cli) loadConfig(opts map[rune]string) (*config.Config, bool) {
	cfg, err := config.Load(opts['c'])
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return nil, false
	}
	switch cfg.Color {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
	return cfg, true
}

// compile lexes and parses source, printing any diagnostics to stderr.
func (c *cli) compile(source, filename string) (*ast.File, bool) {
	tokens, lexDiags := lexer.New(source, filename).Tokenize()
	if lexDiags.HasErrors() {
		printDiags(c.stderr, lexDiags)
		return nil, false
	}

	file, parseDiags := parser.New(tokens).ParseFile()
	if parseDiags.HasErrors() {
		printDiags(c.stderr, parseDiags)
		return nil, false
	}
	return file, true
}

// ---- run command ----

func (c *cli) cmdRun(args []string) int {
	opts, filename, source, code := c.fileArg(args, "xc:")
	if code != exitOK {
		return code
	}
	cfg, ok := c.loadConfig(opts)
	if !ok {
		return exitUsage
	}

	file, ok := c.compile(source, filename)
	if !ok {
		return exitSyntax
	}

	var runOpts []runtime.Option
	if _, trace := opts['x']; trace || cfg.Trace {
		runOpts = append(runOpts, runtime.WithTrace(c.stderr))
	}
	interp := runtime.NewInterpreter(c.stdout, runOpts...)
	if err := interp.Run(file); err != nil {
		printRuntimeError(c.stderr, err)
		return exitRuntime
	}
	return exitOK
}

// ---- tokens command ----

func (c *cli) cmdTokens(args []string) int {
	opts, filename, source, code := c.fileArg(args, "j")
	if code != exitOK {
		return code
	}

	tokens, diags := lexer.New(source, filename).Tokenize()
	if _, jsonMode := opts['j']; jsonMode {
		if err := printTokensJSON(c.stdout, tokens, diags); err != nil {
			fmt.Fprintf(c.stderr, "error: %v\n", err)
			return exitRuntime
		}
	} else {
		printTokensText(c.stdout, tokens)
		printDiags(c.stderr, diags)
	}

	if diags.HasErrors() {
		return exitSyntax
	}
	return exitOK
}

// ---- parse command ----

func (c *cli) cmdParse(args []string) int {
	opts, filename, source, code := c.fileArg(args, "s")
	if code != exitOK {
		return code
	}

	file, ok := c.compile(source, filename)
	if !ok {
		return exitSyntax
	}

	if _, sourceMode := opts['s']; sourceMode {
		fmt.Fprintln(c.stdout, ast.Source(file))
		return exitOK
	}
	if err := printJSON(c.stdout, ast.NodeToMap(file)); err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return exitRuntime
	}
	return exitOK
}

// ---- ast command ----

func (c *cli) cmdAST(args []string) int {
	_, filename, source, code := c.fileArg(args, "")
	if code != exitOK {
		return code
	}

	file, ok := c.compile(source, filename)
	if !ok {
		return exitSyntax
	}
	for _, stmt := range file.Stmts {
		fmt.Fprintln(c.stdout, ast.Print(stmt))
	}
	return exitOK
}
