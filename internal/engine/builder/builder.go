// Package builder implements the build executor that walks the dependence
// graph in topological order, deciding per rule whether to skip, recover
// from cache, or invoke the producer command.
package builder

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
)

// Builder executes build and clean operations over a dependence graph. It is
// constructed per invocation with the store opened for that invocation's
// state directory.
type Builder struct {
	executor    ports.Executor
	hasher      ports.Fingerprinter
	store       ports.CacheStore
	logger      ports.Logger
	telemetry   ports.Telemetry
	parallelism int
}

// New creates a Builder. Parallelism below one is treated as fully
// synchronous execution.
func New(
	executor ports.Executor,
	hasher ports.Fingerprinter,
	store ports.CacheStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
	parallelism int,
) *Builder {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Builder{
		executor:    executor,
		hasher:      hasher,
		store:       store,
		logger:      logger,
		telemetry:   telemetry,
		parallelism: parallelism,
	}
}

// Build produces the requested targets, or every declared target when none
// are requested. Rules run in dependency order; a rule starts only after all
// rules producing its sources have finalized, so transitive staleness is
// decided from finished results. The first fatal failure stops scheduling of
// further rules; completed work is retained.
func (b *Builder) Build(ctx context.Context, graph *domain.Graph, targets []domain.InternedString) error {
	if len(targets) == 0 {
		targets = graph.Targets()
	}
	for _, t := range targets {
		if _, ok := graph.ProducerOf(t); !ok {
			return zerr.With(zerr.Wrap(domain.ErrTargetNotFound, "cannot build"), "target", t.String())
		}
	}

	order, err := graph.Closure(targets)
	if err != nil {
		return err
	}

	state := b.newRunState(ctx, graph, order)
	return state.run()
}

type result struct {
	idx        int
	reproduced bool
	err        error
}

type runState struct {
	b     *Builder
	ctx   context.Context
	order []*domain.Rule

	inDegree   []int
	dependents [][]int
	ready      []int
	active     int
	resultsCh  chan result
	failure    error

	mu         sync.RWMutex
	reproduced map[domain.InternedString]bool
}

func (b *Builder) newRunState(ctx context.Context, graph *domain.Graph, order []*domain.Rule) *runState {
	index := make(map[*domain.Rule]int, len(order))
	for i, r := range order {
		index[r] = i
	}

	inDegree := make([]int, len(order))
	dependents := make([][]int, len(order))
	for i, r := range order {
		seen := make(map[int]bool)
		for _, src := range r.Sources {
			producer, ok := graph.ProducerOf(src)
			if !ok {
				continue
			}
			p, ok := index[producer]
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			inDegree[i]++
			dependents[p] = append(dependents[p], i)
		}
	}

	// Seed the ready queue in closure order for deterministic scheduling.
	var ready []int
	for i := range order {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	return &runState{
		b:          b,
		ctx:        ctx,
		order:      order,
		inDegree:   inDegree,
		dependents: dependents,
		ready:      ready,
		resultsCh:  make(chan result, b.parallelism),
		reproduced: make(map[domain.InternedString]bool),
	}
}

func (s *runState) run() error {
	for {
		s.schedule()
		if s.active == 0 {
			break
		}
		s.handleResult(<-s.resultsCh)
	}

	if s.failure != nil {
		return s.failure
	}
	return s.ctx.Err()
}

func (s *runState) schedule() {
	for len(s.ready) > 0 && s.active < s.b.parallelism && s.failure == nil && s.ctx.Err() == nil {
		idx := s.ready[0]
		s.ready = s.ready[1:]
		s.active++

		go func() {
			reproduced, err := s.processRule(s.order[idx])
			s.resultsCh <- result{idx: idx, reproduced: reproduced, err: err}
		}()
	}
}

func (s *runState) handleResult(res result) {
	s.active--
	if res.err != nil {
		if s.failure == nil {
			s.failure = res.err
		}
		return
	}

	s.mu.Lock()
	for _, t := range s.order[res.idx].Targets {
		s.reproduced[t] = res.reproduced
	}
	s.mu.Unlock()

	for _, dep := range s.dependents[res.idx] {
		s.inDegree[dep]--
		if s.inDegree[dep] == 0 {
			s.ready = append(s.ready, dep)
		}
	}
}

func (s *runState) wasReproduced(path domain.InternedString) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reproduced[path]
}

// processRule decides and performs the work for one rule. It reports whether
// the rule's targets were reproduced this invocation (command ran, or
// recovery wrote different content), which drives transitive staleness of
// dependents.
func (s *runState) processRule(rule *domain.Rule) (reproduced bool, err error) {
	_, vertex := s.b.telemetry.Record(s.ctx, rule.Name())
	defer func() { vertex.Complete(err) }()

	stale, err := s.staleTargets(rule)
	if err != nil {
		return false, err
	}
	if len(stale) == 0 {
		return false, nil
	}

	fps := make(map[domain.InternedString]domain.Fingerprint, len(stale))
	for _, t := range stale {
		fp, fpErr := s.b.hasher.RuleFingerprint(rule, t)
		if fpErr != nil {
			return false, fpErr
		}
		fps[t] = fp
	}

	recovered, changed, err := s.tryRecover(stale, fps)
	if err != nil {
		return false, err
	}
	if recovered {
		vertex.Cached()
		s.b.logger.Info("recovered from cache: " + rule.Name())
		return changed, nil
	}

	if rule.NoOp() {
		return false, zerr.With(zerr.Wrap(domain.ErrNoCommand, "target missing and not cached"), "target", stale[0].String())
	}

	s.displaceExisting(stale)

	s.b.logger.Info("building: " + rule.Name())
	if execErr := s.b.executor.Execute(s.ctx, rule); execErr != nil {
		return false, errors.Join(domain.ErrBuildFailed,
			zerr.With(zerr.With(zerr.Wrap(execErr, "producer command failed"), "target", stale[0].String()), "line", rule.Line))
	}

	for _, t := range stale {
		if err := s.commitProduced(t, fps[t]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// tryRecover attempts to satisfy every stale target from the cache. All
// targets must hit; a single miss means the command runs. The second return
// reports whether any recovered content differed from what was on disk.
func (s *runState) tryRecover(stale []domain.InternedString, fps map[domain.InternedString]domain.Fingerprint) (bool, bool, error) {
	blobs := make(map[domain.InternedString][]byte, len(stale))
	for _, t := range stale {
		data, err := s.b.store.Recover(fps[t])
		if err != nil {
			return false, false, err
		}
		if data == nil {
			return false, false, nil
		}
		blobs[t] = data
	}

	changed := false
	for _, t := range stale {
		c, err := writeRecovered(t.String(), blobs[t])
		if err != nil {
			return false, false, err
		}
		if c {
			changed = true
		}
		if err := s.b.store.RememberProduction(t.String(), fps[t]); err != nil {
			return false, false, err
		}
	}
	return true, changed, nil
}

// writeRecovered writes the recovered bytes to the target path, reporting
// whether the content differs from what was there. The write happens even
// for identical content so the target's modification time moves past its
// sources and the next invocation sees it fresh.
func writeRecovered(path string, data []byte) (bool, error) {
	changed := true
	if existing, err := os.ReadFile(path); err == nil { //nolint:gosec // Path is a declared target
		changed = !bytes.Equal(existing, data)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return false, zerr.With(zerr.Wrap(err, "failed to create target directory"), "path", path)
		}
	}
	//nolint:gosec // Path is a declared target
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write recovered target"), "path", path)
	}
	return changed, nil
}

// displaceExisting preserves the current copy of each stale target that is
// about to be overwritten, keyed by its recorded production fingerprint, so
// a future revert can recover it. A target with no production record or an
// already-cached copy is left for the command to overwrite. Best effort: a
// failed displacement is logged, not fatal.
func (s *runState) displaceExisting(stale []domain.InternedString) {
	for _, t := range stale {
		path := t.String()
		if _, err := os.Stat(path); err != nil {
			continue
		}
		last, ok := s.b.store.LastProduction(path)
		if !ok || s.b.store.Contains(last) {
			continue
		}
		if err := s.b.store.Displace(last, path); err != nil {
			s.b.logger.Warn("failed to displace " + path + ": " + err.Error())
		}
	}
}

// commitProduced verifies the command generated the target and stores its
// bytes under the fingerprint for future recovery.
func (s *runState) commitProduced(target domain.InternedString, fp domain.Fingerprint) error {
	path := target.String()
	data, err := os.ReadFile(path) //nolint:gosec // Path is a declared target
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Join(domain.ErrBuildFailed,
				zerr.With(zerr.New("command did not produce target"), "target", path))
		}
		return zerr.With(zerr.Wrap(err, "failed to read produced target"), "path", path)
	}

	if err := s.b.store.Store(fp, data); err != nil {
		return err
	}
	return s.b.store.RememberProduction(path, fp)
}
