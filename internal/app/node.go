package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}

			cacheLoader, err := graft.Dep[ports.CacheLoader](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, sched, cacheLoader, hasher, w, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}
