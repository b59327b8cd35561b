// Package cmdexec runs external probe commands with a deadline.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a command exceeds its deadline.
var ErrTimeout = errors.New("command timed out")

// Runner abstracts command execution for testability.
type Runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// RealRunner implements Runner using actual OS commands.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (r *RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output. A context deadline is
// reported as ErrTimeout rather than the "signal: killed" from the process.
func (r *RealRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- probe commands come from config and fixed scripts
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = ErrTimeout
	}
	return outBuf.String(), errBuf.String(), err
}

// RunWithTimeout runs a command through r with its own deadline.
func RunWithTimeout(r Runner, timeout time.Duration, name string, args ...string) (stdout, stderr string, err error) {
	return RunContext(context.Background(), r, timeout, name, args...)
}

// RunContext runs a command with a deadline derived from ctx.
func RunContext(ctx context.Context, r Runner, timeout time.Duration, name string, args ...string) (stdout, stderr string, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	stdout, stderr, err = r.Run(ctx, name, args...)
	if errors.Is(err, ErrTimeout) {
		return stdout, stderr, fmt.Errorf("%s: %w after %s", name, ErrTimeout, timeout)
	}
	return stdout, stderr, err
}

// Describe renders a command failure with the most useful stderr line.
func Describe(err error, stderr string) string {
	if err == nil {
		return ""
	}
	if line := LastLine(stderr); line != "" {
		return fmt.Sprintf("%v: %s", err, line)
	}
	return err.Error()
}

// LastLine returns the last non-empty line of s, trimmed.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// MockRunner is a test double for Runner.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	RunFunc      func(ctx context.Context, name string, args ...string) (string, string, error)
}

// LookPath calls the mock function, reporting not found when unset.
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc == nil {
		return "", exec.ErrNotFound
	}
	return m.LookPathFunc(file)
}

// Run calls the mock function, reporting not found when unset.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	if m.RunFunc == nil {
		return "", "", exec.ErrNotFound
	}
	return m.RunFunc(ctx, name, args...)
}
