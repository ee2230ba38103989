package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the build cache loader Graft node.
const NodeID graft.ID = "adapter.build_cache"

func init() {
	graft.Register(graft.Node[ports.CacheLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.CacheLoader, error) {
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(hasher), nil
		},
	})
}
