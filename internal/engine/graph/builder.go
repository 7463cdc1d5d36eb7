package graph

import (
	"go.trai.ch/plume/internal/adapters/fs" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/engine/stages"
	"go.trai.ch/plume/internal/engine/task"
)

// Builder assembles graphs for loaded configurations.
type Builder struct {
	notifier  ports.Notifier
	tracer    ports.Tracer
	toolchain stages.ToolchainFactory
}

// NewBuilder creates a Builder.
func NewBuilder(notifier ports.Notifier, tracer ports.Tracer, toolchain stages.ToolchainFactory) *Builder {
	return &Builder{notifier: notifier, tracer: tracer, toolchain: toolchain}
}

// Tracer returns the tracer shared by the graphs of the builder.
func (b *Builder) Tracer() ports.Tracer {
	return b.tracer
}

// Build creates the graph of cfg. Tasks report successful runs to reloader.
func (b *Builder) Build(cfg *domain.Config, reloader ports.Reloader) (*Graph, error) {
	specs := make([]domain.PathSpec, 0, len(domain.AllKinds))
	outputs := make([]string, 0, len(domain.AllKinds))
	for _, kind := range domain.AllKinds {
		spec, err := cfg.Paths.Spec(kind)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
		outputs = append(outputs, spec.Output)
	}

	files := fs.New(cfg.Paths.Root, fs.WithOutputs(outputs...))
	tc := b.toolchain(cfg)

	tasks := make(map[domain.AssetKind]Runner, len(specs))
	for _, spec := range specs {
		tasks[spec.Kind] = task.New(spec, tc.Sequence(spec.Kind), files, b.notifier, reloader, b.tracer)
	}

	return New(files, cfg.Paths.Output, tasks, b.tracer), nil
}
