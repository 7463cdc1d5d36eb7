// Package task runs the stage sequence of one asset kind.
package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/engine/stages"
	"go.trai.ch/zerr"
)

// Task reads the sources of one asset kind, runs its stages and writes the outputs.
type Task struct {
	spec     domain.PathSpec
	stages   stages.Sequence
	files    ports.FileSystem
	notifier ports.Notifier
	reloader ports.Reloader
	tracer   ports.Tracer
}

// New creates a task for spec. Stage failures are reported to notifier and
// successful runs to reloader.
func New(
	spec domain.PathSpec,
	seq stages.Sequence,
	files ports.FileSystem,
	notifier ports.Notifier,
	reloader ports.Reloader,
	tracer ports.Tracer,
) *Task {
	return &Task{
		spec:     spec,
		stages:   seq,
		files:    files,
		notifier: notifier,
		reloader: reloader,
		tracer:   tracer,
	}
}

// Kind returns the asset kind of the task.
func (t *Task) Kind() domain.AssetKind {
	return t.spec.Kind
}

// Run executes the task once.
//
// A file failing a transform stage is reported and dropped while the other
// files continue; the failures are returned together once the sequence ends.
// Read and write failures abort the run immediately.
func (t *Task) Run(ctx context.Context) (domain.TaskResult, error) {
	kind := t.spec.Kind.String()
	ctx, span := t.tracer.Start(ctx, "task:"+kind)
	span.SetAttribute(ports.AttrKind, kind)
	defer span.End()

	result := domain.TaskResult{Kind: t.spec.Kind}

	entries, err := t.files.Read(ctx, t.spec)
	if err != nil {
		err = zerr.With(err, "kind", kind)
		span.RecordError(err)
		return result, err
	}
	span.SetAttribute("files", len(entries))

	hash := xxhash.New()
	for _, stage := range t.stages {
		if len(entries) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return result, err
		}

		entries, err = t.runStage(ctx, stage, entries, &result, hash)
		if err != nil {
			span.RecordError(err)
			return result, err
		}
	}

	if len(result.Written) > 0 {
		result.Hash = fmt.Sprintf("%016x", hash.Sum64())
		t.reloader.Reload(domain.NewReloadEvent(t.spec.Kind, result.Written, result.Hash))
	}

	if n := len(result.Failures); n > 0 {
		err := zerr.With(zerr.With(domain.ErrStageFailed, "kind", kind), "failures", n)
		err = errors.Join(append([]error{err}, result.Failures...)...)
		span.RecordError(err)
		return result, err
	}

	return result, nil
}

func (t *Task) runStage(
	ctx context.Context,
	stage stages.Stage,
	entries []domain.FileEntry,
	result *domain.TaskResult,
	hash *xxhash.Digest,
) ([]domain.FileEntry, error) {
	kind := t.spec.Kind.String()
	ctx, span := t.tracer.Start(ctx, "stage:"+stage.Name)
	span.SetAttribute(ports.AttrKind, kind)
	span.SetAttribute(ports.AttrStage, stage.Name)
	defer span.End()

	if stage.Sink() {
		for _, entry := range entries {
			written, err := t.files.Write(ctx, t.spec.Output, entry)
			if err != nil {
				err = zerr.With(zerr.With(err, "kind", kind), "path", entry.Path)
				span.RecordError(err)
				return nil, err
			}
			result.Written = append(result.Written, written)
			_, _ = hash.WriteString(written)
			_, _ = hash.Write([]byte{0})
			_, _ = hash.Write(entry.Contents)
			_, _ = hash.Write([]byte{0})
		}
		return entries, nil
	}

	var failures []error
	out := stage.Apply(ctx, entries, func(entry domain.FileEntry, err error) {
		stageErr := domain.NewStageError(t.spec.Kind, stage.Name, entry.Path, err)
		failures = append(failures, stageErr)
		t.notifier.Notify(t.spec.Kind.ErrorTitle(), entry.Path+": "+describe(err))
	})

	if len(failures) > 0 {
		span.RecordError(errors.Join(failures...))
		result.Failures = append(result.Failures, failures...)
	}
	return out, nil
}

// describe returns the innermost message of err.
func describe(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
