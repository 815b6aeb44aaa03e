// Package main is the entry point for the ruler build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"rulerbuild.com/ruler/cmd/ruler/commands"
	"rulerbuild.com/ruler/internal/app"
	"rulerbuild.com/ruler/internal/core/domain"
	_ "rulerbuild.com/ruler/internal/wiring"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed, write directly
		// to stderr.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	// Render the progress report collected during the run, if any.
	defer func() { _ = components.Telemetry.Close() }()

	cli := commands.New(components.App, components.Settings)
	cli.SetArgs(args)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// The failing command already wrote its diagnostics.
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		// zerr prints a report with metadata when using %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
