package app

import (
	"go.trai.ch/plume/internal/core/ports"
)

// Components holds the resolved application components.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

// NewComponents creates a new Components instance.
func NewComponents(a *App, log ports.Logger, tracer ports.Tracer) *Components {
	return &Components{
		App:    a,
		Logger: log,
		Tracer: tracer,
	}
}
