package builder

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
)

type decision int

const (
	fresh decision = iota
	staleMissing
	staleTransitive
	staleOutdated
)

// staleTargets returns the subset of the rule's targets that need to be
// produced this invocation.
func (s *runState) staleTargets(rule *domain.Rule) ([]domain.InternedString, error) {
	var stale []domain.InternedString
	for _, t := range rule.Targets {
		d, err := s.decide(rule, t)
		if err != nil {
			return nil, err
		}
		if d != fresh {
			stale = append(stale, t)
		}
	}
	return stale, nil
}

// decide evaluates a single target. A missing target is always stale. An
// existing target is stale when any source was reproduced earlier in this
// invocation, or when any source's modification time is not older than the
// target's. A rule without a command is satisfied once its targets exist.
func (s *runState) decide(rule *domain.Rule, target domain.InternedString) (decision, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return staleMissing, nil
		}
		return fresh, zerr.With(zerr.Wrap(err, "failed to stat target"), "path", target.String())
	}

	if rule.NoOp() {
		return fresh, nil
	}

	for _, src := range rule.Sources {
		if s.wasReproduced(src) {
			return staleTransitive, nil
		}
	}

	for _, src := range rule.Sources {
		srcInfo, err := os.Stat(src.String())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fresh, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingSource, "cannot evaluate staleness"), "path", src.String()), "target", target.String())
			}
			return fresh, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", src.String())
		}
		// Equal timestamps count as stale so filesystems with coarse
		// clock resolution never hide an update.
		if !srcInfo.ModTime().Before(info.ModTime()) {
			return staleOutdated, nil
		}
	}
	return fresh, nil
}
