package app

import (
	"rulerbuild.com/ruler/internal/adapters/config" //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
	Settings  config.Settings
}
