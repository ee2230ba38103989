package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/transform" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.WalkerNodeID,
			cas.NodeID,
			fs.HasherNodeID,
			transform.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			walker, err := graft.Dep[ports.Walker](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.CacheLoader](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			transformer, err := graft.Dep[ports.Transformer](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[*telemetry.OTelTracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(walker, loader, hasher, transformer, tracer, log), nil
		},
	})
}
