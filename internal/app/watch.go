package app

import (
	"context"
	"time"

	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/forge/internal/engine/watchloop"
	"go.trai.ch/forge/internal/ui/report"
	"go.trai.ch/zerr"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Input      string
	Output     string
	Preset     string
	ConfigPath string
	// Debounce overrides watch.debounce when positive.
	Debounce time.Duration
	JSON     bool
}

// Watch rebuilds assets as they change until ctx is cancelled.
// Successful builds are recorded into the build cache, which is saved when
// the session ends, unless caching or watch.record_builds is disabled.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	a.startSession(opts.JSON)

	project, err := a.loadProject(opts.ConfigPath)
	if err != nil {
		return err
	}

	cfg, err := project.Processing(opts.Preset)
	if err != nil {
		return err
	}

	input, output, err := scheduler.ResolveRoots(pick(opts.Input, project.Source), pick(opts.Output, project.Output))
	if err != nil {
		return err
	}

	settings := project.Watch
	if opts.Debounce > 0 {
		settings.Debounce = opts.Debounce
	}

	renderer := linear.NewRenderer(a.stdout, a.stderr)
	tracer, shutdown := newTracer(renderer)
	defer shutdown()

	var loopOpts []watchloop.Option
	cacheDir := project.CacheDir(output)
	cache := a.openWatchCache(project, cacheDir)
	if cache != nil {
		configHash, hashErr := a.hasher.HashConfig(cfg)
		if hashErr != nil {
			return zerr.Wrap(hashErr, domain.ErrConfigHashFailed.Error())
		}
		loopOpts = append(loopOpts, watchloop.WithRecorder(cache, configHash))
	}

	loop := watchloop.New(
		a.watcher,
		watcher.NewDebouncer(settings.Debounce, settings.Retention),
		a.scheduler.WithTracer(tracer).Processor(),
		a.logger,
		watchloop.Config{
			Input:           input,
			Output:          output,
			Processing:      cfg,
			PollInterval:    settings.PollInterval,
			CleanupInterval: settings.CleanupInterval,
		},
		loopOpts...,
	)

	rep := report.New(a.stdout)
	rep.WatchStart(report.WatchHeader{
		Input:    input,
		Output:   output,
		Preset:   cfg.Preset,
		Debounce: settings.Debounce,
	})

	if err := renderer.Start(ctx); err != nil {
		return err
	}
	stats, runErr := loop.Run(ctx)
	_ = renderer.Stop()

	if cache != nil {
		if err := cache.Save(cacheDir); err != nil {
			a.logger.Warn("failed to save build cache: " + err.Error())
		}
	}

	rep.Watch(stats)
	return runErr
}

// openWatchCache returns the cache that records watch builds, or nil when
// recording is disabled.
func (a *App) openWatchCache(project *domain.Project, dir string) ports.BuildCache {
	if !project.Cache.Enabled || !project.Watch.RecordBuilds {
		return nil
	}
	cache, err := a.cacheLoader.Load(dir, project.Cache.TrustMtime)
	if err != nil {
		a.logger.Warn(err.Error())
	}
	return cache
}
