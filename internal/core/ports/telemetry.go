package ports

import "context"

// Telemetry is the entry point for recording per-rule build progress.
type Telemetry interface {
	// Record starts recording a new vertex for the named unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one rule's progress through a build.
type Vertex interface {
	// Cached marks the vertex as satisfied from the cache.
	Cached()

	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
}
