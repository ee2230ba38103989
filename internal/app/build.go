package app

import (
	"context"
	"fmt"

	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/forge/internal/ui/report"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// BuildOptions configuration for the Build method.
// Empty strings and a zero Jobs fall back to the project configuration.
type BuildOptions struct {
	Input      string
	Output     string
	Preset     string
	ConfigPath string
	Jobs       int
	Force      bool
	DryRun     bool
	NoCache    bool
	OutputMode string
	JSON       bool
}

// Build processes every asset below the input root that needs it.
// A build in which some files failed prints its summary and returns
// domain.ErrBuildExecutionFailed.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	a.startSession(opts.JSON)

	project, err := a.loadProject(opts.ConfigPath)
	if err != nil {
		return err
	}

	runOpts, err := a.runOptions(project, opts)
	if err != nil {
		return err
	}

	rep := report.New(a.stdout)
	rep.Header(report.BuildHeader{
		Input:  runOpts.Input,
		Output: runOpts.Output,
		Preset: runOpts.Config.Preset,
		DryRun: opts.DryRun,
	})

	if opts.DryRun {
		jobs, planErr := a.scheduler.Plan(ctx, runOpts)
		if planErr != nil {
			return planErr
		}
		rep.Plan(jobs)
		return nil
	}

	requested, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	mode := detector.ResolveMode(a.detect(), requested)

	stats, err := a.runScheduler(ctx, mode, runOpts)
	if err != nil {
		return err
	}

	rep.Build(&stats, runOpts.Output)
	if stats.Failed() {
		return zerr.With(
			zerr.Wrap(domain.ErrBuildExecutionFailed, fmt.Sprintf("%d of %d files failed", stats.Errored, stats.Total)),
			"failed", stats.Errored,
		)
	}
	return nil
}

// runScheduler runs the renderer and the scheduler side by side.
func (a *App) runScheduler(
	ctx context.Context,
	mode detector.OutputMode,
	runOpts scheduler.RunOptions,
) (domain.BuildStats, error) {
	renderer := a.newRenderer(ctx, mode)
	tracer, shutdown := newTracer(renderer)
	defer shutdown()

	sched := a.scheduler.WithTracer(tracer)

	var stats domain.BuildStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				_, _ = fmt.Fprintf(a.stderr, "Scheduler panic: %v\n", r)
				err = zerr.With(zerr.Wrap(domain.ErrBuildExecutionFailed, "scheduler panicked"), "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		stats, err = sched.Run(gctx, runOpts)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.BuildStats{}, err
	}
	return stats, nil
}

// runOptions merges flags over the project configuration.
func (a *App) runOptions(project *domain.Project, opts BuildOptions) (scheduler.RunOptions, error) {
	cfg, err := project.Processing(opts.Preset)
	if err != nil {
		return scheduler.RunOptions{}, err
	}

	jobs := project.Jobs
	if opts.Jobs != 0 {
		jobs = opts.Jobs
	}
	if jobs < 0 {
		return scheduler.RunOptions{}, zerr.With(zerr.Wrap(domain.ErrInvalidJobCount, "invalid jobs setting"), "jobs", jobs)
	}

	input := pick(opts.Input, project.Source)
	output := pick(opts.Output, project.Output)

	return scheduler.RunOptions{
		Input:      input,
		Output:     output,
		Config:     cfg,
		Jobs:       jobs,
		Force:      opts.Force,
		CacheDir:   project.CacheDir(output),
		TrustMtime: project.Cache.TrustMtime,
		NoCache:    opts.NoCache || !project.Cache.Enabled,
	}, nil
}
