package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the logger Graft node.
	NodeID graft.ID = "adapter.logger"
	// NotifierNodeID is the unique identifier for the notifier Graft node.
	NotifierNodeID graft.ID = "adapter.notifier"
)

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Notifier]{
		ID:        NotifierNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Notifier, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewNotifier(log), nil
		},
	})
}

// NewNotifier returns log itself when it can notify, otherwise a notifier
// that reports through log.Warn.
func NewNotifier(log ports.Logger) ports.Notifier {
	if n, ok := log.(ports.Notifier); ok {
		return n
	}
	return warnNotifier{log: log}
}

type warnNotifier struct {
	log ports.Logger
}

func (w warnNotifier) Notify(title, message string) {
	w.log.Warn(title + ": " + message)
}
