package ports

import (
	"context"

	"rulerbuild.com/ruler/internal/core/domain"
)

// Executor defines the interface for invoking producer commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the rule's command as a child process with the literal
	// argument list, inheriting the environment and standard streams of
	// the invocation, and waits for it to exit. A non-zero exit status or
	// spawn failure is returned as an error. Rules with no command are a
	// no-op.
	Execute(ctx context.Context, rule *domain.Rule) error
}
