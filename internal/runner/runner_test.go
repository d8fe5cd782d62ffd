package runner

import (
	"context"
	"errors"
	"testing"
)

func TestRunCapturesOutput(t *testing.T) {
	sh := Tool{Binary: "sh"}
	if err := Available(sh); err != nil {
		t.Skip("sh not available")
	}

	result, err := Run(context.Background(), sh, "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "out\n" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "out\n")
	}
	if result.Stderr != "err\n" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "err\n")
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	sh := Tool{Binary: "sh"}
	if err := Available(sh); err != nil {
		t.Skip("sh not available")
	}

	result, err := Run(context.Background(), sh, "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if err.Error() != "sh: broken" {
		t.Errorf("error = %q, want %q", err.Error(), "sh: broken")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestAvailableMissing(t *testing.T) {
	err := Available(Tool{Binary: "chapterfix-no-such-tool", Hint: "install it"})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Available() = %v, want *NotFoundError", err)
	}
	if nf.Error() != "chapterfix-no-such-tool not found: install it" {
		t.Errorf("Error() = %q", nf.Error())
	}
}
