// Package graph composes the asset tasks into builds.
package graph

import (
	"context"
	"errors"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Runner executes one asset task.
type Runner interface {
	Run(ctx context.Context) (domain.TaskResult, error)
}

// Report collects the results of the tasks of one build, in canonical kind order.
type Report struct {
	Results []domain.TaskResult
}

// Files returns the number of files written by every task.
func (r Report) Files() int {
	n := 0
	for _, res := range r.Results {
		n += res.Files()
	}
	return n
}

// Result returns the result of kind, if it ran.
func (r Report) Result(kind domain.AssetKind) (domain.TaskResult, bool) {
	for _, res := range r.Results {
		if res.Kind == kind {
			return res, true
		}
	}
	return domain.TaskResult{}, false
}

// Graph runs clean followed by the asset tasks.
type Graph struct {
	cleaner ports.Cleaner
	output  string
	tasks   map[domain.AssetKind]Runner
	tracer  ports.Tracer
}

// New creates a graph. output is the root removed by clean.
func New(cleaner ports.Cleaner, output string, tasks map[domain.AssetKind]Runner, tracer ports.Tracer) *Graph {
	return &Graph{
		cleaner: cleaner,
		output:  output,
		tasks:   tasks,
		tracer:  tracer,
	}
}

// Clean removes the output root.
func (g *Graph) Clean(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "clean")
	defer span.End()

	if err := g.cleaner.Clean(ctx, g.output); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Build cleans the output root and then runs every task concurrently.
// A clean failure aborts before any task starts.
func (g *Graph) Build(ctx context.Context) (Report, error) {
	ctx, span := g.tracer.Start(ctx, "build")
	defer span.End()

	if err := g.Clean(ctx); err != nil {
		span.RecordError(err)
		return Report{}, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}

	report, err := g.Run(ctx, domain.AllKinds)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

// Run executes the tasks of kinds concurrently without cleaning. Every task
// runs to completion; their errors are joined.
func (g *Graph) Run(ctx context.Context, kinds []domain.AssetKind) (Report, error) {
	runners := make([]Runner, len(kinds))
	for i, kind := range kinds {
		r, ok := g.tasks[kind]
		if !ok {
			return Report{}, zerr.With(domain.ErrUnknownAssetKind, "kind", kind.String())
		}
		runners[i] = r
	}

	results := make([]domain.TaskResult, len(kinds))
	errs := make([]error, len(kinds))

	var eg errgroup.Group
	for i, r := range runners {
		eg.Go(func() error {
			res, err := r.Run(ctx)
			res.Kind = kinds[i]
			results[i] = res
			if err != nil {
				errs[i] = zerr.With(zerr.Wrap(err, domain.ErrTaskFailed.Error()), "task", kinds[i].String())
			}
			return nil
		})
	}
	_ = eg.Wait()

	report := Report{Results: results}
	if err := errors.Join(errs...); err != nil {
		return report, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}
	return report, nil
}
