// Package runner executes external commands and reports typed results,
// so callers can distinguish a missing tool from a failing invocation
// and tests can substitute a fake without spawning processes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Status classifies the outcome of one external command invocation.
type Status int

const (
	// StatusOK means the command ran and exited zero.
	StatusOK Status = iota
	// StatusToolMissing means the executable could not be found.
	StatusToolMissing
	// StatusFailed means the command ran and exited non-zero, or could
	// not be started for another reason.
	StatusFailed
)

// Result captures the outcome of one external command invocation.
type Result struct {
	Status   Status
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// OK reports whether the command exited zero.
func (r Result) OK() bool { return r.Status == StatusOK }

// Detail returns the most useful diagnostic text for a failed command.
func (r Result) Detail() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) Result
	LookPath(name string) bool
}

// Func adapts a function to the Runner interface. Used by tests.
type Func func(ctx context.Context, dir, name string, args ...string) Result

// Run calls f.
func (f Func) Run(ctx context.Context, dir, name string, args ...string) Result {
	return f(ctx, dir, name, args...)
}

// LookPath always reports the tool as present.
func (f Func) LookPath(string) bool { return true }

// NewExec returns a Runner backed by os/exec.
func NewExec() Runner { return execRunner{} }

type execRunner struct{}

func (execRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (execRunner) Run(ctx context.Context, dir, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	switch {
	case err == nil:
		res.Status = StatusOK
	case errors.Is(err, exec.ErrNotFound):
		res.Status = StatusToolMissing
		res.Err = err
	default:
		res.Status = StatusFailed
		res.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
	}
	return res
}
