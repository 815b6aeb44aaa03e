// Package shell provides the subprocess executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. Commands are executed
// literally, with no shell interpretation, in the invocation's working
// directory, with the inherited environment.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates an Executor wired to the process's standard streams.
func NewExecutor() *Executor {
	return &Executor{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// NewExecutorWithStreams creates an Executor with explicit streams. Used by
// tests to capture command output.
func NewExecutorWithStreams(stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Execute runs the rule's command and waits synchronously for completion.
func (e *Executor) Execute(ctx context.Context, rule *domain.Rule) error {
	if rule.NoOp() {
		return nil
	}

	name := rule.Command[0]
	args := rule.Command[1:]

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided command
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		exitCode := -1 // Spawn failure or signal
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "command", name), "exit_code", exitCode)
	}

	return nil
}
