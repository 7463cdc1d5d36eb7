package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/adapters/metrics" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/plume/internal/core/ports"
)

// NodeID is the unique identifier for the tracer Graft node.
const NodeID graft.ID = "adapter.tracer"

// InstrumentationName names the tracer of the pipeline.
const InstrumentationName = "go.trai.ch/plume"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{metrics.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			prom, err := graft.Dep[*metrics.Prometheus](ctx)
			if err != nil {
				return nil, err
			}
			return NewOTelTracer(InstrumentationName, NewBridge(prom)), nil
		},
	})
}
