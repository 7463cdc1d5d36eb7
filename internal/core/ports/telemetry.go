package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Span attribute keys understood by the metrics bridge.
const (
	// AttrKind names the asset kind of a task or stage span.
	AttrKind = "plume.kind"
	// AttrStage names the stage of a stage span.
	AttrStage = "plume.stage"
)

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span as a child of the span in ctx, if any.
	Start(ctx context.Context, name string) (context.Context, Span)
	// Shutdown flushes and releases the tracer.
	Shutdown(ctx context.Context) error
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Metrics records pipeline observations.
type Metrics interface {
	// ObserveTask records a finished task run.
	ObserveTask(kind string, d time.Duration, failed bool)
	// ObserveStage records a finished stage.
	ObserveStage(kind, stage string, d time.Duration, failed bool)
	// ObserveReload records a broadcast reload event.
	ObserveReload(kind, mode string)
	// SetClients records the number of connected live-reload clients.
	SetClients(n int)
}
