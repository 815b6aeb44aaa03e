// Package config provides the workspace settings loader for ruler.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
	"rulerbuild.com/ruler/internal/core/domain"
)

// Settings holds the workspace-level configuration read from .ruler.yaml.
// All fields are optional; zero values fall back to defaults. CLI flags
// override whatever is configured here.
type Settings struct {
	// Rules is the path to the rules file.
	Rules string `yaml:"rules"`

	// Directory is the state directory holding the cache and the
	// production manifest.
	Directory string `yaml:"directory"`

	// Parallelism bounds the number of concurrently running producer
	// commands.
	Parallelism int `yaml:"parallelism"`
}

// DefaultSettings returns the built-in defaults: build.rules, .ruler, and
// fully synchronous execution.
func DefaultSettings() Settings {
	return Settings{
		Rules:       domain.RulesFileName,
		Directory:   domain.RulerDirName,
		Parallelism: 1,
	}
}

// Load reads .ruler.yaml from the given working directory and merges it over
// the defaults. A missing file yields the defaults.
func Load(cwd string) (Settings, error) {
	settings := DefaultSettings()

	path := filepath.Join(cwd, domain.SettingsFileName)
	data, err := os.ReadFile(path) //nolint:gosec // path is rooted in cwd
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}

	var file Settings
	if err := yaml.Unmarshal(data, &file); err != nil {
		return settings, zerr.With(zerr.Wrap(err, "failed to parse settings file"), "path", path)
	}

	if file.Rules != "" {
		settings.Rules = file.Rules
	}
	if file.Directory != "" {
		settings.Directory = file.Directory
	}
	if file.Parallelism > 0 {
		settings.Parallelism = file.Parallelism
	}
	return settings, nil
}
