package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/core/ports"
)

// NodeID is the unique identifier for the watcher factory Graft node.
const NodeID graft.ID = "adapter.watcher"

// Factory creates a watcher ignoring the given absolute directories.
type Factory func(ignore ...string) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (Factory, error) {
			return func(ignore ...string) (ports.Watcher, error) {
				return NewWatcher(ignore...)
			}, nil
		},
	})
}
