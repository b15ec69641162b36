package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

const shellPrompt = "yahtl> "

// lineReader yields input lines. It returns io.EOF when input ends.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// termReader reads from the terminal with line editing and history.
type termReader struct {
	state   *liner.State
	history string
}

func newTermReader(names []string) *termReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		var out []string

		for _, n := range names {
			if strings.HasPrefix(n, line) {
				out = append(out, n)
			}
		}

		return out
	})

	r := &termReader{state: state, history: historyFile()}

	if f, err := os.Open(r.history); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return r
}

func (r *termReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	return line, err
}

func (r *termReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

func (r *termReader) Close() error {
	if r.history != "" {
		if f, err := os.Create(r.history); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return r.state.Close()
}

// scanReader reads lines from a non-terminal stream without echoing a prompt.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.sc.Text(), nil
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".yahtl_history")
}

func shellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Run commands interactively",
		Long: `Read commands line by line and run them against the same data dir.
Arguments are split like a POSIX shell, so quote titles with spaces.
Type 'help' for the command list and 'exit' to leave.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errTooManyArgs, args)
			}

			if a.stdin == nil {
				return errNoTerminal
			}

			var r lineReader

			if f, ok := a.stdin.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
				r = newTermReader(a.shellCommandNames())
			} else {
				r = &scanReader{sc: bufio.NewScanner(a.stdin)}
			}

			defer func() { _ = r.Close() }()

			return a.shellLoop(ctx, o, r)
		},
	}
}

func (a *app) shellCommandNames() []string {
	names := []string{"help", "exit", "quit"}

	for _, c := range a.commands() {
		if !notInShell(c.Name()) {
			names = append(names, c.Name())
		}
	}

	return names
}

func notInShell(name string) bool {
	return name == "shell" || name == "watch"
}

func (a *app) shellLoop(ctx context.Context, o *IO, r lineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.Prompt(shellPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r.AppendHistory(line)

		words, err := shlex.Split(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printUsage(o.out, a.commandGroups())

			continue
		}

		if notInShell(words[0]) {
			o.ErrPrintln("error:", words[0], "is not available in the shell")

			continue
		}

		code := a.dispatch(ctx, o, words)
		a.log.Debug("shell command finished", "command", words[0], "exit", code)
	}
}
