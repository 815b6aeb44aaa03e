package builder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"runtime"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"rulerbuild.com/ruler/internal/core/domain"
)

// Clean displaces every target of the graph into the cache, or only the
// requested targets and their transitive dependencies when targets are
// given. Cleaning is the reverse of building: a subsequent build with
// unchanged inputs restores each target from the cache without running its
// command.
func (b *Builder) Clean(ctx context.Context, graph *domain.Graph, targets []domain.InternedString) error {
	rules := graph.Rules()
	if len(targets) > 0 {
		for _, t := range targets {
			if _, ok := graph.ProducerOf(t); !ok {
				return zerr.With(zerr.Wrap(domain.ErrTargetNotFound, "cannot clean"), "target", t.String())
			}
		}
		var err error
		rules, err = graph.Closure(targets)
		if err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, rule := range rules {
		for _, target := range rule.Targets {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return b.displaceTarget(rule, target)
			})
		}
	}
	return g.Wait()
}

// displaceTarget moves one target file into the cache. Missing targets are
// skipped: cleaning twice is a no-op. The displacement is keyed by the
// target's recorded production fingerprint when one exists, falling back to
// a freshly computed fingerprint for targets this store has never seen.
func (b *Builder) displaceTarget(rule *domain.Rule, target domain.InternedString) error {
	path := target.String()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to stat target"), "path", path)
	}

	fp, ok := b.store.LastProduction(path)
	if !ok {
		var err error
		fp, err = b.hasher.RuleFingerprint(rule, target)
		if err != nil {
			b.logger.Warn("skipping clean of " + path + ": " + err.Error())
			return nil
		}
	}

	if err := b.store.Displace(fp, path); err != nil {
		return err
	}
	b.logger.Info("cleaned: " + path)
	return nil
}
