package devserver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/adapters/logger"  //nolint:depguard // Wired in adapter layer
	"go.trai.ch/plume/internal/adapters/metrics" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
)

// NodeID is the unique identifier for the dev server factory Graft node.
const NodeID graft.ID = "adapter.devserver"

// Factory creates the dev server for a loaded configuration.
type Factory func(cfg *domain.Config) *Server

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			prom, err := graft.Dep[*metrics.Prometheus](ctx)
			if err != nil {
				return nil, err
			}
			return func(cfg *domain.Config) *Server {
				return New(
					cfg.Paths.Abs(cfg.Paths.Output),
					cfg.Server.Host,
					cfg.Server.Port,
					NewHub(prom),
					WithMetrics(prom.Handler()),
					WithLogger(log),
				)
			}, nil
		},
	})
}
