package rules

import (
	"context"

	"github.com/grindlemire/graft"
	"rulerbuild.com/ruler/internal/core/ports"
)

// NodeID is the unique identifier for the rules loader Graft node.
const NodeID graft.ID = "adapter.rules_loader"

func init() {
	graft.Register(graft.Node[ports.RulesLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RulesLoader, error) {
			return NewLoader(), nil
		},
	})
}
