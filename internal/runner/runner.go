// Package runner wraps the external command-line tools the pipeline shells
// out to, such as pdftotext, pdfinfo and pandoc.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result represents the outcome of one tool invocation
type Result struct {
	// Duration of the invocation in milliseconds
	DurationMs int
	// Exit code of the process, -1 if it never started
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner defines the interface for external tool backends
type Runner interface {
	// Name returns the executable name (e.g., "pdftotext", "pandoc")
	Name() string

	// Command creates an exec.Cmd for this tool with the given arguments.
	Command(ctx context.Context, args ...string) *exec.Cmd
}

// NotFoundError is returned when a tool is not on PATH.
type NotFoundError struct {
	Tool string
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s not found", e.Tool)
	}
	return fmt.Sprintf("%s not found: %s", e.Tool, e.Hint)
}

// Tool is a Runner for a plain executable.
type Tool struct {
	Binary string
	// Hint is shown when the binary is missing
	Hint string
}

// Name returns the executable name.
func (t Tool) Name() string {
	return t.Binary
}

// Command builds the process for the tool.
func (t Tool) Command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, t.Binary, args...)
}

// Well-known tools.
var (
	Pdftotext = Tool{Binary: "pdftotext", Hint: "install poppler-utils (brew install poppler on macOS)"}
	Pdfinfo   = Tool{Binary: "pdfinfo", Hint: "install poppler-utils (brew install poppler on macOS)"}
	Pandoc    = Tool{Binary: "pandoc", Hint: "install pandoc from https://pandoc.org"}
)

// Available reports whether r's executable is on PATH.
func Available(r Runner) error {
	if _, err := exec.LookPath(r.Name()); err != nil {
		hint := ""
		if t, ok := r.(Tool); ok {
			hint = t.Hint
		}
		return &NotFoundError{Tool: r.Name(), Hint: hint}
	}
	return nil
}

// Run executes r with args and captures its output. A non-zero exit is
// returned as an error that includes the trimmed stderr.
func Run(ctx context.Context, r Runner, args ...string) (*Result, error) {
	cmd := r.Command(ctx, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		DurationMs: int(time.Since(start).Milliseconds()),
		ExitCode:   -1,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(result.Stderr)
			if msg == "" {
				msg = exitErr.Error()
			}
			return result, fmt.Errorf("%s: %s", r.Name(), msg)
		}
		return result, fmt.Errorf("running %s: %w", r.Name(), err)
	}
	return result, nil
}
