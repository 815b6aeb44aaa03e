// Package ports defines the core interfaces for the application.
package ports

import "rulerbuild.com/ruler/internal/core/domain"

// RulesLoader defines the interface for loading the dependence graph from a
// rules file.
//
//go:generate go run go.uber.org/mock/mockgen -source=rules_loader.go -destination=mocks/mock_rules_loader.go -package=mocks
type RulesLoader interface {
	// Load reads and parses the rules file at the given path and returns
	// the dependence graph built from it.
	Load(path string) (*domain.Graph, error)
}
