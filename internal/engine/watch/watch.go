// Package watch re-runs asset tasks when their sources change.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunFunc runs the task of one asset kind.
type RunFunc func(ctx context.Context, kind domain.AssetKind) error

// Orchestrator maps file system events to asset kinds and runs their tasks
// through per-kind debounce triggers.
type Orchestrator struct {
	paths    domain.PathTable
	logger   ports.Logger
	triggers map[domain.AssetKind]*trigger
	wg       sync.WaitGroup

	mu  sync.Mutex
	ctx context.Context
}

// New creates an orchestrator for the kinds of paths. Changes within
// debounce of each other collapse into a single run.
func New(paths domain.PathTable, debounce time.Duration, run RunFunc, logger ports.Logger) *Orchestrator {
	o := &Orchestrator{
		paths:    paths,
		logger:   logger,
		triggers: make(map[domain.AssetKind]*trigger, len(paths.Specs)),
		ctx:      context.Background(),
	}

	for _, kind := range domain.AllKinds {
		if _, ok := paths.Specs[kind]; !ok {
			continue
		}
		o.triggers[kind] = newTrigger(debounce, &o.wg, func() {
			if err := run(o.runContext(), kind); err != nil && o.logger != nil {
				o.logger.Error(err)
			}
		})
	}
	return o
}

func (o *Orchestrator) runContext() context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ctx
}

// Run starts w on the project root and dispatches its events until ctx is
// cancelled or the watcher fails. Runs in progress complete before Run returns.
func (o *Orchestrator) Run(ctx context.Context, w ports.Watcher) error {
	o.mu.Lock()
	o.ctx = ctx
	o.mu.Unlock()

	defer func() { _ = w.Stop() }()
	if err := w.Start(ctx, o.paths.Root); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer o.Stop()

	for event := range w.Events() {
		o.Dispatch(event)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := w.Err(); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	return zerr.With(domain.ErrWatchFailed, "reason", "event stream closed")
}

// Dispatch notifies the trigger of every kind whose watch glob matches the
// event path. It returns the matched kinds.
func (o *Orchestrator) Dispatch(event ports.WatchEvent) []domain.AssetKind {
	rel, err := filepath.Rel(o.paths.Root, event.Path)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	var matched []domain.AssetKind
	for _, kind := range domain.AllKinds {
		t, ok := o.triggers[kind]
		if !ok {
			continue
		}
		if ok, _ := doublestar.Match(o.paths.Specs[kind].Watch, rel); ok {
			t.notify()
			matched = append(matched, kind)
		}
	}
	return matched
}

// Notify schedules a run of kind as if one of its sources changed.
func (o *Orchestrator) Notify(kind domain.AssetKind) {
	if t, ok := o.triggers[kind]; ok {
		t.notify()
	}
}

// State returns the trigger state of kind.
func (o *Orchestrator) State(kind domain.AssetKind) State {
	if t, ok := o.triggers[kind]; ok {
		return t.current()
	}
	return Idle
}

// Stop cancels scheduled runs and waits for runs in progress.
func (o *Orchestrator) Stop() {
	for _, t := range o.triggers {
		t.stop()
	}
	o.wg.Wait()
}
