package transform

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the transformer Graft node.
const NodeID graft.ID = "adapter.transformer"

func init() {
	graft.Register(graft.Node[ports.Transformer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.Transformer, error) {
			return NewDispatcher(NewCommand(), NewCopier()), nil
		},
	})
}
