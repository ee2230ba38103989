package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the file walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
