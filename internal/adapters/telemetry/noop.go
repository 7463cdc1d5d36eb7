package telemetry

import (
	"context"

	"go.trai.ch/plume/internal/core/ports"
)

var _ ports.Tracer = NoopTracer{}

// NoopTracer creates spans that record nothing.
type NoopTracer struct{}

// Start returns ctx unchanged and a span that does nothing.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

// Shutdown does nothing.
func (NoopTracer) Shutdown(context.Context) error {
	return nil
}

type noopSpan struct{}

func (noopSpan) End() {}
func (noopSpan) RecordError(error) {}
func (noopSpan) SetAttribute(string, any) {}
