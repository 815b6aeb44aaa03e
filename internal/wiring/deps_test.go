package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"rulerbuild.com/ruler/internal/app"
	_ "rulerbuild.com/ruler/internal/wiring"
)

// TestGraphResolves executes the full Graft graph and checks that every
// registered node can be constructed and injected. A missing registration or
// an undeclared dependency fails resolution here rather than at startup.
//
// graft.AssertDepsValid cannot be used instead: its static analysis derives
// dependency IDs from the package of the type in Dep[T], and every adapter
// here binds an interface from the shared ports package.
func TestGraphResolves(t *testing.T) {
	t.Chdir(t.TempDir())

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)

	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	require.NotNil(t, components.Telemetry)
	require.NotZero(t, components.Settings)
}
