package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// ColorMode selects how the Command Runner decorates its output.
type ColorMode int

const (
	// ColorAuto enables color iff stdout is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

const (
	ansiDim   = "\x1b[2m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// quoteSpecial is the exact set of characters that force single-quoting
// a shell-safe pretty-printed argv token, per the command runner's
// quoting rule.
const quoteSpecial = " \t\n!\"'$&()*,;<>?[\\]^`{|}~"

// ShellQuote renders tok the way the Command Runner pretty-prints an argv
// token: wrapped in single quotes, with embedded single quotes doubled, iff
// tok is empty, contains any character in quoteSpecial, or starts with '='
// or '#'.
func ShellQuote(tok string) string {
	needsQuote := tok == "" || strings.ContainsAny(tok, quoteSpecial) ||
		strings.HasPrefix(tok, "=") || strings.HasPrefix(tok, "#")
	if !needsQuote {
		return tok
	}
	return "'" + strings.ReplaceAll(tok, "'", "''") + "'"
}

// PrettyCommand renders argv as a shell-safe, space-joined string suitable
// for a pre-command label.
func PrettyCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = ShellQuote(a)
	}
	return strings.Join(parts, " ")
}

// ExecFunc is the injectable process-spawn hook, overridable in tests so
// they can exercise the scheduler without invoking a real toolchain.
// Relative paths in argv are relative to the Engine's Root, which is the
// working directory the default hook gives the child process.
type ExecFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) error

// SetExec overrides the Command Runner's process-spawn function. Intended
// for tests; production callers never need this, since the zero value
// spawns real child processes.
func (e *Engine) SetExec(fn ExecFunc) {
	e.exec = fn
}

func defaultExec(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty argv")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = nil
	return cmd.Run()
}

func colorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
}

func (e *Engine) paint(code, s string) string {
	if !colorEnabled(e.Color, os.Stdout) {
		return s
	}
	return code + s + ansiReset
}

// RunCommand executes argv through the Job Pool, printing message in dim
// color before spawning. It fails with a *BuildError naming the exit code
// and the pretty-printed command on any non-zero exit, spawn error, or
// signal.
func (e *Engine) RunCommand(ctx context.Context, argv []string, message string) error {
	pretty := PrettyCommand(argv)
	fmt.Fprintln(os.Stdout, e.paint(ansiDim, fmt.Sprintf("%s: %s", message, pretty)))

	spawn := e.exec
	if spawn == nil {
		spawn = func(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
			return defaultExec(ctx, e.Root, argv, stdout, stderr)
		}
	}

	errc := e.Pool.Submit(ctx, func(ctx context.Context) error {
		return spawn(ctx, argv, os.Stdout, os.Stderr)
	})

	runErr := <-errc
	if runErr == nil {
		return nil
	}

	detail := runErr.Error()
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		detail = fmt.Sprintf("exit code %d", exitErr.ExitCode())
	}
	msg := fmt.Sprintf("%s: %s", message, pretty)
	e.Logger.Error("command failed", "command", pretty, "detail", detail)
	fmt.Fprintln(os.Stderr, e.paint(ansiRed, fmt.Sprintf("!!! %s (%s)", msg, detail)))
	return buildErrorf("%s: %s", msg, detail)
}
