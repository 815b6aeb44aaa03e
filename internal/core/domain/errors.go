package domain

import "go.trai.ch/zerr"

var (
	// ErrRuleSyntax is returned when the rules file text is malformed.
	ErrRuleSyntax = zerr.New("rule syntax error")

	// ErrTargetConflict is returned when two rules declare the same target path.
	ErrTargetConflict = zerr.New("target declared by more than one rule")

	// ErrCycleDetected is returned when a producer cycle is reached while
	// computing a closure.
	ErrCycleDetected = zerr.New("dependence cycle detected")

	// ErrMissingSource is returned when a declared source neither exists on
	// disk nor has a producing rule.
	ErrMissingSource = zerr.New("source not found")

	// ErrBuildFailed is returned when a producer command exits non-zero,
	// fails to spawn, or does not generate its declared targets.
	ErrBuildFailed = zerr.New("build failed")

	// ErrTargetNotFound is returned when a requested build target is not
	// declared by any rule.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrNoCommand is returned when a target is missing and its rule has no
	// command to produce it, and no cached copy could be recovered.
	ErrNoCommand = zerr.New("no command to produce target")
)
