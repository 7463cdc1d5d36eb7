package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/plume/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor and turns ended task and stage
// spans into metric observations.
type Bridge struct {
	metrics ports.Metrics
}

// NewBridge returns a Bridge reporting to metrics.
func NewBridge(metrics ports.Metrics) *Bridge {
	return &Bridge{metrics: metrics}
}

// OnStart does nothing; observations are made when spans end.
func (b *Bridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records the span duration. Spans with a stage attribute are stages,
// spans with only a kind attribute are tasks, others are ignored.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.metrics == nil {
		return
	}

	var kind, stage string
	for _, kv := range s.Attributes() {
		switch string(kv.Key) {
		case ports.AttrKind:
			kind = kv.Value.AsString()
		case ports.AttrStage:
			stage = kv.Value.AsString()
		}
	}
	if kind == "" {
		return
	}

	d := s.EndTime().Sub(s.StartTime())
	failed := s.Status().Code == codes.Error

	if stage != "" {
		b.metrics.ObserveStage(kind, stage, d, failed)
		return
	}
	b.metrics.ObserveTask(kind, d, failed)
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error {
	return nil
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(context.Context) error {
	return nil
}
