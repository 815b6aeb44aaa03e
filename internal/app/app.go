// Package app implements the application layer for ruler.
package app

import (
	"context"
	"strings"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
	"rulerbuild.com/ruler/internal/engine/builder"
)

// Request carries the per-invocation parameters shared by every command:
// where the rules live, where ruler keeps its state, how many producer
// commands may run at once, and which targets the user asked for.
type Request struct {
	RulesFile   string
	Directory   string
	Parallelism int
	Targets     []string
}

// App represents the main application logic.
type App struct {
	loader       ports.RulesLoader
	storeFactory ports.StoreFactory
	executor     ports.Executor
	hasher       ports.Fingerprinter
	logger       ports.Logger
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(
	loader ports.RulesLoader,
	storeFactory ports.StoreFactory,
	executor ports.Executor,
	hasher ports.Fingerprinter,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		loader:       loader,
		storeFactory: storeFactory,
		executor:     executor,
		hasher:       hasher,
		logger:       logger,
		telemetry:    telemetry,
	}
}

// Build produces the requested targets, or all declared targets when the
// request names none.
func (a *App) Build(ctx context.Context, req Request) error {
	graph, b, err := a.prepare(req)
	if err != nil {
		return err
	}
	return b.Build(ctx, graph, internAll(req.Targets))
}

// Clean displaces the requested targets and their dependencies into the
// cache, or every declared target when the request names none.
func (a *App) Clean(ctx context.Context, req Request) error {
	graph, b, err := a.prepare(req)
	if err != nil {
		return err
	}
	return b.Clean(ctx, graph, internAll(req.Targets))
}

// Run builds the named target and then executes it with the given
// arguments, inheriting ruler's standard streams. A bare filename is
// prefixed with "./" so the produced artifact runs instead of whatever a
// PATH lookup would find.
func (a *App) Run(ctx context.Context, req Request, target string, args []string) error {
	buildReq := req
	buildReq.Targets = []string{target}
	if err := a.Build(ctx, buildReq); err != nil {
		return err
	}

	path := target
	if !strings.ContainsAny(path, "/") {
		path = "./" + path
	}

	invocation := &domain.Rule{Command: append([]string{path}, args...)}
	if err := a.executor.Execute(ctx, invocation); err != nil {
		return zerr.With(zerr.Wrap(err, "target execution failed"), "target", target)
	}
	return nil
}

// HashPath returns the content fingerprint ruler would record for the file
// at path.
func (a *App) HashPath(path string) (string, error) {
	sum, err := a.hasher.FileDigest(path)
	if err != nil {
		return "", err
	}
	return domain.NewFingerprint(sum).String(), nil
}

func (a *App) prepare(req Request) (*domain.Graph, *builder.Builder, error) {
	graph, err := a.loader.Load(req.RulesFile)
	if err != nil {
		return nil, nil, err
	}

	store, err := a.storeFactory.Open(req.Directory)
	if err != nil {
		return nil, nil, err
	}

	b := builder.New(a.executor, a.hasher, store, a.logger, a.telemetry, req.Parallelism)
	return graph, b, nil
}

func internAll(paths []string) []domain.InternedString {
	if len(paths) == 0 {
		return nil
	}
	interned := make([]domain.InternedString, len(paths))
	for i, p := range paths {
		interned[i] = domain.NewInternedString(p)
	}
	return interned
}
