package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/plume/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/plume/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/plume/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/plume/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/engine/graph"
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
			logger.NodeID,
			graph.NodeID,
			watcher.NodeID,
			devserver.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
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

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(a, log, tracer), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	builder, err := graft.Dep[*graph.Builder](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	servers, err := graft.Dep[devserver.Factory](ctx)
	if err != nil {
		return nil, err
	}

	return New(
		loader,
		log,
		builder,
		WatcherFactory(watchers),
		func(cfg *domain.Config) DevServer { return servers(cfg) },
	), nil
}
