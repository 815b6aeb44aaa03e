package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"rulerbuild.com/ruler/internal/adapters/telemetry/progrock"
	"rulerbuild.com/ruler/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if os.Getenv("RULER_PROGRESS") != "" {
				return progrock.New(os.Stderr), nil
			}
			return NewNoOp(), nil
		},
	})
}
