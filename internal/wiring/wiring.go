// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "rulerbuild.com/ruler/internal/adapters/cas"
	_ "rulerbuild.com/ruler/internal/adapters/config"
	_ "rulerbuild.com/ruler/internal/adapters/fs"
	_ "rulerbuild.com/ruler/internal/adapters/logger"
	_ "rulerbuild.com/ruler/internal/adapters/rules"
	_ "rulerbuild.com/ruler/internal/adapters/shell"
	_ "rulerbuild.com/ruler/internal/adapters/telemetry"
	// Register app nodes.
	_ "rulerbuild.com/ruler/internal/app"
)
