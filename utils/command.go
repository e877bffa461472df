package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecutionError is returned whenever an external program (local binary or
// remote command) exits non-zero or cannot be launched at all.
type ExecutionError struct {
	Command  string
	Args     []string
	ExitCode int // -1 when the program never ran to completion
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s: %v", cmdline, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// IsExecutionError reports whether err wraps an *ExecutionError.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError
	return errors.As(err, &execErr)
}

// Runner runs name with args and returns its stdout.
// Implementations return *ExecutionError on failure.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand is the os/exec backed Runner. No shell is involved: args are
// passed to the program verbatim.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // binary path comes from config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		execErr := &ExecutionError{
			Command:  name,
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), execErr
	}
	return stdout.Bytes(), nil
}
