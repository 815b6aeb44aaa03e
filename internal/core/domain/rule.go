// Package domain contains the core domain models for the dependence graph.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Rule binds an ordered set of target paths to the ordered set of source
// paths and the producer command that generates the targets from the sources.
// Rules are immutable once added to a Graph.
type Rule struct {
	Targets []InternedString
	Sources []InternedString
	Command []string

	// Line is the 1-based line in the rules file where the rule starts.
	// Zero for rules constructed programmatically.
	Line int
}

// Validate checks the structural invariants of the rule: a rule must declare
// at least one target. An empty command is permitted at the model level and
// declares a no-op producer, satisfied once its targets exist.
func (r *Rule) Validate() error {
	if len(r.Targets) == 0 {
		return zerr.With(zerr.Wrap(ErrRuleSyntax, "rule declares no targets"), "line", r.Line)
	}
	return nil
}

// NoOp reports whether the rule has no producer command.
func (r *Rule) NoOp() bool {
	return len(r.Command) == 0
}

// Name returns a human-readable identifier for the rule, the space-joined
// target list. Used for logging and telemetry vertices.
func (r *Rule) Name() string {
	parts := make([]string, len(r.Targets))
	for i, t := range r.Targets {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
