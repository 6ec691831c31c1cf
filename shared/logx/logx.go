// Package logx provides severity-prefixed, colored console logging for
// the relkit commands. Informational output goes to stdout, errors to
// stderr. Colors are suppressed on non-terminal output and when the
// NO_COLOR environment variable is set.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

const separatorWidth = 76

// Init configures color output based on the environment.
func Init() {
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		text.DisableColors()
	}
}

// SetWriters redirects log output. Used by tests.
func SetWriters(out, err io.Writer) {
	stdout = out
	stderr = err
}

// Separator prints a dimmed separator line.
func Separator() {
	fmt.Fprintln(stdout, text.Faint.Sprint(strings.Repeat("=", separatorWidth)))
}

// Header prints a formatted section header.
func Header(title string) {
	fmt.Fprintln(stdout)
	Separator()
	fmt.Fprintln(stdout, text.Colors{text.Bold, text.FgCyan}.Sprint(title))
	Separator()
	fmt.Fprintln(stdout)
}

// Info prints an info message.
func Info(format string, a ...any) {
	fmt.Fprintf(stdout, "%s %s\n", text.FgBlue.Sprint("[I]"), fmt.Sprintf(format, a...))
}

// Success prints a success message.
func Success(format string, a ...any) {
	fmt.Fprintf(stdout, "%s %s\n", text.FgGreen.Sprint("[✓]"), fmt.Sprintf(format, a...))
}

// Warn prints a warning message.
func Warn(format string, a ...any) {
	fmt.Fprintf(stdout, "%s %s\n", text.FgYellow.Sprint("[W]"), fmt.Sprintf(format, a...))
}

// Error prints an error message to stderr.
func Error(format string, a ...any) {
	fmt.Fprintf(stderr, "%s %s\n", text.FgRed.Sprint("[E]"), fmt.Sprintf(format, a...))
}

// Step prints a pipeline step message.
func Step(format string, a ...any) {
	fmt.Fprintf(stdout, "%s %s\n", text.FgMagenta.Sprint("[*]"), fmt.Sprintf(format, a...))
}

// Path formats a file path for display.
func Path(p string) string { return text.FgCyan.Sprint(p) }

// Command formats an external command for display.
func Command(c string) string { return text.FgHiCyan.Sprint(c) }

// Key formats a key or identifier for display.
func Key(k string) string { return text.FgYellow.Sprint(k) }

// Value formats a value for display.
func Value(v string) string { return text.FgGreen.Sprint(v) }

// Dim formats text as dimmed.
func Dim(s string) string { return text.Faint.Sprint(s) }

// Bold formats text as bold.
func Bold(s string) string { return text.Bold.Sprint(s) }
