// Package watchloop rebuilds assets as the file system reports changes.
package watchloop

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Debouncer suppresses repeated events for the same path.
type Debouncer interface {
	ShouldProcess(path string) bool
	Cleanup() int
}

// Processor transforms one job.
type Processor interface {
	Process(ctx context.Context, job domain.Job, cfg domain.ProcessingConfig) (domain.TransformResult, error)
}

// Recorder receives every successful watch-mode build.
type Recorder interface {
	Update(input, output string, configHash uint64) error
}

// Config describes what the loop watches and how often it wakes up.
type Config struct {
	Input      string
	Output     string
	Processing domain.ProcessingConfig
	// PollInterval bounds every wait for an event.
	PollInterval time.Duration
	// CleanupInterval is the minimum time between two debouncer sweeps.
	CleanupInterval time.Duration
}

// Loop is the single consumer of a watcher's event stream.
type Loop struct {
	watcher   ports.Watcher
	debouncer Debouncer
	processor Processor
	logger    ports.Logger
	cfg       Config

	recorder   Recorder
	configHash uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithRecorder records every successful build under configHash.
func WithRecorder(r Recorder, configHash uint64) Option {
	return func(l *Loop) {
		l.recorder = r
		l.configHash = configHash
	}
}

// New creates a Loop. Both roots are made absolute and zero intervals fall
// back to domain.DefaultWatchSettings.
func New(
	watcher ports.Watcher,
	debouncer Debouncer,
	processor Processor,
	logger ports.Logger,
	cfg Config,
	opts ...Option,
) *Loop {
	if abs, err := filepath.Abs(cfg.Input); err == nil {
		cfg.Input = abs
	}
	if abs, err := filepath.Abs(cfg.Output); err == nil {
		cfg.Output = abs
	}

	defaults := domain.DefaultWatchSettings()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	l := &Loop{
		watcher:   watcher,
		debouncer: debouncer,
		processor: processor,
		logger:    logger,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run starts the watcher on the input root and processes events until ctx is
// cancelled or the event stream closes. Cancellation returns the cumulative
// stats with a nil error; a closed stream returns them with ErrWatcherDisconnected.
func (l *Loop) Run(ctx context.Context) (stats domain.WatchStats, err error) {
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
	}()

	if err := l.watcher.Start(ctx, l.cfg.Input); err != nil {
		return stats, err
	}
	defer func() {
		if stopErr := l.watcher.Stop(); stopErr != nil {
			l.logger.Warn("failed to stop watcher: " + stopErr.Error())
		}
	}()

	events := l.watcher.Events()
	errs := l.watcher.Errors()

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()
	lastCleanup := time.Now()

	for {
		if ctx.Err() != nil {
			return stats, nil
		}

		select {
		case <-ctx.Done():
			return stats, nil

		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return stats, nil
				}
				return stats, zerr.With(zerr.Wrap(domain.ErrWatcherDisconnected, "event stream closed"), "input", l.cfg.Input)
			}
			// select picks randomly among ready cases; a pending event never
			// outranks cancellation.
			if ctx.Err() != nil {
				return stats, nil
			}
			l.handle(ctx, ev, &stats)

		case watchErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			l.logger.Warn("watch error: " + watchErr.Error())

		case <-ticker.C:
		}

		if time.Since(lastCleanup) >= l.cfg.CleanupInterval {
			l.debouncer.Cleanup()
			lastCleanup = time.Now()
		}
	}
}

func (l *Loop) handle(ctx context.Context, ev ports.WatchEvent, stats *domain.WatchStats) {
	if ev.Operation != ports.OpCreate && ev.Operation != ports.OpWrite {
		return
	}
	// Outputs written below a nested output root must not trigger rebuilds.
	if domain.IsBelow(l.cfg.Output, ev.Path) {
		return
	}
	if info, err := os.Stat(ev.Path); err != nil || !info.Mode().IsRegular() {
		return
	}
	if !domain.ClassifyPath(ev.Path).Supported() {
		return
	}

	if !l.debouncer.ShouldProcess(ev.Path) {
		stats.Debounced++
		return
	}

	job, err := domain.NewJob(l.cfg.Input, l.cfg.Output, ev.Path)
	if err != nil {
		l.logger.Warn(err.Error())
		return
	}

	res, err := l.processor.Process(ctx, job, l.cfg.Processing)
	if err != nil {
		stats.Errors++
		l.logger.Error(zerr.With(zerr.Wrap(err, "failed to process "+job.Rel), "path", job.Input))
		return
	}
	stats.Processed++

	if l.recorder != nil {
		if err := l.recorder.Update(job.Input, res.OutputPath, l.configHash); err != nil {
			l.logger.Warn("failed to record " + job.Rel + ": " + err.Error())
		}
	}
}
