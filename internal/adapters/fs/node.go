package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"rulerbuild.com/ruler/internal/core/ports"
)

// HasherNodeID is the unique identifier for the Hasher Graft node.
const HasherNodeID graft.ID = "adapter.fs.hasher"

func init() {
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewHasher(), nil
		},
	})
}
