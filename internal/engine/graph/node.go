package graph

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/engine/stages"
)

// NodeID is the unique identifier for the graph builder Graft node.
const NodeID graft.ID = "engine.graph"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NotifierNodeID,
			telemetry.NodeID,
			stages.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			notifier, err := graft.Dep[ports.Notifier](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			toolchain, err := graft.Dep[stages.ToolchainFactory](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(notifier, tracer, toolchain), nil
		},
	})
}
