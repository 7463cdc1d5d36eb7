package metrics

import (
	"time"

	"go.trai.ch/plume/internal/core/ports"
)

var _ ports.Metrics = Noop{}

// Noop discards every observation.
type Noop struct{}

// ObserveTask does nothing.
func (Noop) ObserveTask(string, time.Duration, bool) {}

// ObserveStage does nothing.
func (Noop) ObserveStage(string, string, time.Duration, bool) {}

// ObserveReload does nothing.
func (Noop) ObserveReload(string, string) {}

// SetClients does nothing.
func (Noop) SetClients(int) {}
