// Package progrock provides the Progrock implementation of the telemetry
// adapter.
package progrock

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"rulerbuild.com/ruler/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry using the progrock library. Each rule
// becomes one vertex on the tape.
type Recorder struct {
	tape *progrock.Tape
	out  io.Writer
	rec  *progrock.Recorder
}

// New creates a tape-backed Recorder that renders a final progress report to
// out when the session is closed.
func New(out io.Writer) *Recorder {
	tape := progrock.NewTape()
	r := NewRecorder(tape)
	r.tape = tape
	r.out = out
	return r
}

// NewRecorder creates a new Recorder over the given writer. The writer owns
// presentation; nothing is rendered on close.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{rec: progrock.NewRecorder(w)}
}

// Record starts recording a new vertex for the named rule.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	return ctx, &Vertex{vertex: r.rec.Vertex(d, name)}
}

// Close completes the session and, for tape-backed recorders, renders the
// collected progress to the configured output.
func (r *Recorder) Close() error {
	r.rec.Complete()
	if err := r.rec.Close(); err != nil {
		return err
	}
	if r.tape != nil {
		return r.tape.Render(r.out, progrock.DefaultUI())
	}
	return nil
}
