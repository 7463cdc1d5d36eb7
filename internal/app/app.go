// Package app implements the application layer for plume.
package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/engine/graph"
	"go.trai.ch/plume/internal/engine/watch"
	"golang.org/x/sync/errgroup"
)

// GraphBuilder assembles the build graph of a configuration.
type GraphBuilder interface {
	Build(cfg *domain.Config, reloader ports.Reloader) (*graph.Graph, error)
}

// DevServer serves the output tree and pushes reload events.
type DevServer interface {
	ports.Reloader
	ListenAndServe(ctx context.Context) error
}

// WatcherFactory creates a file watcher ignoring the given directories.
type WatcherFactory func(ignore ...string) (ports.Watcher, error)

// ServerFactory creates the dev server of a configuration.
type ServerFactory func(cfg *domain.Config) DevServer

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	graphs       GraphBuilder
	watchers     WatcherFactory
	servers      ServerFactory
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	graphs GraphBuilder,
	watchers WatcherFactory,
	servers ServerFactory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		graphs:       graphs,
		watchers:     watchers,
		servers:      servers,
	}
}

// Options are shared by every command.
type Options struct {
	// ConfigPath is the config file. Empty selects plume.yaml in the working directory.
	ConfigPath string
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Options
	// NoServer disables the dev server; changes are still rebuilt.
	NoServer bool
}

// Build cleans the output root and builds every asset kind once.
func (a *App) Build(ctx context.Context, opts Options) error {
	cfg, g, err := a.load(opts, noopReloader{})
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := g.Build(ctx)
	a.summarize(cfg, report, time.Since(start))
	return err
}

// Run builds only the given asset kinds, without cleaning. No kinds means all of them.
func (a *App) Run(ctx context.Context, kindNames []string, opts Options) error {
	kinds, err := domain.ParseAssetKinds(kindNames)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		kinds = domain.AllKinds
	}

	cfg, g, err := a.load(opts, noopReloader{})
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := g.Run(ctx, kinds)
	a.summarize(cfg, report, time.Since(start))
	return err
}

// Clean removes the output root.
func (a *App) Clean(ctx context.Context, opts Options) error {
	cfg, g, err := a.load(opts, noopReloader{})
	if err != nil {
		return err
	}

	if err := g.Clean(ctx); err != nil {
		return err
	}
	a.logger.Info("removed " + cfg.Paths.Output)
	return nil
}

// Watch builds once, then rebuilds changed asset kinds and serves the output
// tree until ctx is cancelled. Build errors are logged and never stop the
// loop. A watcher failure stops rebuilding while the server keeps running.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	var (
		server   DevServer
		reloader ports.Reloader = noopReloader{}
	)
	if !opts.NoServer {
		server = a.servers(cfg)
		reloader = server
	}

	g, err := a.graphs.Build(cfg, reloader)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := g.Build(ctx)
	a.summarize(cfg, report, time.Since(start))
	if err != nil {
		a.logger.Error(err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		a.watch(ctx, cfg, g)
		return nil
	})

	if server != nil {
		eg.Go(func() error {
			return server.ListenAndServe(ctx)
		})
	}

	return eg.Wait()
}

func (a *App) watch(ctx context.Context, cfg *domain.Config, g *graph.Graph) {
	w, err := a.watchers(cfg.Paths.Abs(cfg.Paths.Output))
	if err != nil {
		a.logger.Error(err)
		return
	}

	orch := watch.New(cfg.Paths, cfg.Watch.Debounce, func(ctx context.Context, kind domain.AssetKind) error {
		start := time.Now()
		report, err := g.Run(ctx, []domain.AssetKind{kind})
		a.summarize(cfg, report, time.Since(start))
		return err
	}, a.logger)

	a.logger.Info("watching " + cfg.Paths.Root)
	if err := orch.Run(ctx, w); err != nil {
		a.logger.Error(err)
	}
}

func (a *App) load(opts Options, reloader ports.Reloader) (*domain.Config, *graph.Graph, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	g, err := a.graphs.Build(cfg, reloader)
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

func (a *App) summarize(cfg *domain.Config, report graph.Report, elapsed time.Duration) {
	for _, res := range report.Results {
		if res.Files() == 0 && len(res.Failures) == 0 {
			continue
		}
		spec, _ := cfg.Paths.Spec(res.Kind)
		a.logger.Info(fmt.Sprintf("%s: %d files → %s", res.Kind, res.Files(), spec.Output))
	}
	if len(report.Results) > 0 {
		a.logger.Info(fmt.Sprintf("finished in %s", elapsed.Round(time.Millisecond)))
	}
}

// noopReloader discards reload events when no browser can be connected.
type noopReloader struct{}

func (noopReloader) Reload(domain.ReloadEvent) {}
