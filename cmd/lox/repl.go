package main

import (
	"errors"
	"fmt"
	"io"
	"lox-lang/internal/config"
	"lox-lang/internal/runtime"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgGreen)
	hintColor   = color.New(color.FgHiBlack)
	bannerColor = color.New(color.FgCyan, color.Bold)
)

// ---- repl command ----

func (c *cli) cmdRepl(args []string) int {
	opts, rest, ok := c.flags(args, "c:")
	if !ok {
		return exitUsage
	}
	if len(rest) != 0 {
		fmt.Fprintln(c.stderr, "error: repl: unexpected arguments")
		c.usage()
		return exitUsage
	}
	cfg, ok := c.loadConfig(opts)
	if !ok {
		return exitUsage
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint(cfg.Prompt),
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(c.stderr, "readline init failed: %v\n", err)
		return exitRuntime
	}
	defer rl.Close()

	bannerColor.Fprint(rl.Stdout(), "lox REPL")
	hintColor.Fprintln(rl.Stdout(), " (type 'exit' or Ctrl+D to quit, ':env' to list globals)")
	fmt.Fprintln(rl.Stdout())

	session := newReplSession(cfg, rl.Stdout(), rl.Stderr())

	for {
		if session.pending() {
			rl.SetPrompt(hintColor.Sprint(cfg.ContinuationPrompt))
		} else {
			rl.SetPrompt(promptColor.Sprint(cfg.Prompt))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if session.pending() {
					session.reset()
					continue
				}
				hintColor.Fprintln(rl.Stdout(), "\n(use 'exit' or Ctrl+D to quit)")
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if !session.feed(line) {
			break
		}
	}
	return exitOK
}

// replSession accumulates input lines until braces balance, then runs
// them against one interpreter whose globals persist across entries.
type replSession struct {
	cli        *cli
	interp     *runtime.Interpreter
	buf        strings.Builder
	braceDepth int
}

func newReplSession(cfg *config.Config, stdout, stderr io.Writer) *replSession {
	s := &replSession{cli: &cli{stdout: stdout, stderr: stderr}}
	var opts []runtime.Option
	if cfg.Trace {
		opts = append(opts, runtime.WithTrace(stderr))
	}
	s.interp = runtime.NewInterpreter(stdout, opts...)
	return s
}

func (s *replSession) pending() bool {
	return s.braceDepth > 0
}

func (s *replSession) reset() {
	s.buf.Reset()
	s.braceDepth = 0
}

// feed consumes one line of input. It returns false when the user asked to quit.
func (s *replSession) feed(line string) bool {
	if !s.pending() {
		switch strings.TrimSpace(line) {
		case "exit":
			return false
		case ":env":
			s.printEnv()
			return true
		}
	}

	s.braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if s.pending() {
		return true
	}

	source := s.buf.String()
	s.reset()
	if strings.TrimSpace(source) == "" {
		return true
	}

	file, ok := s.cli.compile(source, "<repl>")
	if !ok {
		return true
	}
	if err := s.interp.Run(file); err != nil {
		printRuntimeError(s.cli.stderr, err)
	}
	return true
}

func (s *replSession) printEnv() {
	globals := s.interp.Globals()
	for _, name := range globals.Names() {
		val, err := globals.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(s.cli.stdout, "%s = %s\n", name, val)
	}
}
