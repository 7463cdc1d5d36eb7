package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/adapters/telemetry"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_TaskAndStageSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMetrics(ctrl)

	gomock.InOrder(
		m.EXPECT().ObserveStage("css", "compile", gomock.Any(), true),
		m.EXPECT().ObserveTask("css", gomock.Any(), false),
	)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(m))
	ctx, task := tracer.Start(context.Background(), "task:css")
	task.SetAttribute(ports.AttrKind, "css")

	_, stage := tracer.Start(ctx, "stage:compile")
	stage.SetAttribute(ports.AttrKind, "css")
	stage.SetAttribute(ports.AttrStage, "compile")
	stage.RecordError(errors.New("expected }"))
	stage.End()

	task.End()
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestBridge_IgnoresUnlabeledSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMetrics(ctrl)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewBridge(m))
	_, span := tracer.Start(context.Background(), "build")
	span.SetAttribute("files", 3)
	span.End()
}

func TestOTelSpan_Attributes(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(context.Background(), "any")

	span.SetAttribute("s", "v")
	span.SetAttribute("i", 1)
	span.SetAttribute("i64", int64(2))
	span.SetAttribute("f", 1.5)
	span.SetAttribute("b", true)
	span.SetAttribute("ss", []string{"a"})
	span.SetAttribute("d", time.Second)
	span.SetAttribute("other", struct{}{})
	span.RecordError(nil)
	span.End()
}

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NoopTracer{}.Start(ctx, "task:js")
	assert.Equal(t, ctx, got)
	span.SetAttribute(ports.AttrKind, "js")
	span.RecordError(errors.New("x"))
	span.End()
	assert.NoError(t, telemetry.NoopTracer{}.Shutdown(ctx))
}
