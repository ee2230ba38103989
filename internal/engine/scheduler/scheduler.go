// Package scheduler runs batch builds: it enumerates an input tree, decides
// per file whether the cache is still valid and transforms the rest in parallel.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// RunOptions configures one batch build.
type RunOptions struct {
	// Input is the root of the source tree.
	Input string
	// Output is the root the source tree is mirrored into.
	Output string
	// Config is handed to every transform and fingerprinted for the cache.
	Config domain.ProcessingConfig
	// Jobs bounds the number of concurrent transforms. Zero means one per CPU.
	Jobs int
	// Force rebuilds every file regardless of the cache. Records are still updated.
	Force bool
	// CacheDir holds cache.json. Empty means the default below Output.
	CacheDir string
	// TrustMtime lets an unchanged modification time skip re-hashing.
	TrustMtime bool
	// NoCache disables loading and saving the cache entirely.
	NoCache bool
}

func (o RunOptions) cacheDir() string {
	if o.CacheDir == "" {
		return domain.DefaultCachePath(o.Output)
	}
	return o.CacheDir
}

func (o RunOptions) jobs() int {
	if o.Jobs <= 0 {
		return runtime.NumCPU()
	}
	return o.Jobs
}

// Scheduler manages batch builds.
type Scheduler struct {
	walker    ports.Walker
	loader    ports.CacheLoader
	hasher    ports.Hasher
	tracer    ports.Tracer
	logger    ports.Logger
	processor *Processor
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	walker ports.Walker,
	loader ports.CacheLoader,
	hasher ports.Hasher,
	transformer ports.Transformer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		walker:    walker,
		loader:    loader,
		hasher:    hasher,
		tracer:    tracer,
		logger:    logger,
		processor: NewProcessor(transformer, tracer),
	}
}

// Processor returns the processor shared with the watch loop.
func (s *Scheduler) Processor() *Processor {
	return s.processor
}

// WithTracer returns a copy of s whose spans go to tracer.
func (s *Scheduler) WithTracer(tracer ports.Tracer) *Scheduler {
	c := *s
	c.tracer = tracer
	c.processor = NewProcessor(s.processor.transformer, tracer)
	return &c
}

// Plan enumerates the supported files below opts.Input and their mirrored outputs.
// It neither reads the cache nor writes anything.
func (s *Scheduler) Plan(_ context.Context, opts RunOptions) ([]domain.Job, error) {
	input, output, err := ResolveRoots(opts.Input, opts.Output)
	if err != nil {
		return nil, err
	}

	var exclude []string
	for _, dir := range []string{output, opts.cacheDir()} {
		if abs, absErr := filepath.Abs(dir); absErr == nil && domain.IsBelow(input, abs) {
			exclude = append(exclude, abs)
		}
	}

	var jobs []domain.Job
	for path := range s.walker.WalkFiles(input, nil, exclude...) {
		if !domain.ClassifyPath(path).Supported() {
			continue
		}
		job, jobErr := domain.NewJob(input, output, path)
		if jobErr != nil {
			return nil, jobErr
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// Run builds every file below opts.Input that needs it.
// Per-file failures are collected in the stats and never abort the batch.
// The build is not cancellable once it started; only an invalid input root
// or an unhashable configuration is returned as an error.
func (s *Scheduler) Run(ctx context.Context, opts RunOptions) (domain.BuildStats, error) {
	start := time.Now()

	jobs, err := s.Plan(ctx, opts)
	if err != nil {
		return domain.BuildStats{}, err
	}

	configHash, err := s.hasher.HashConfig(opts.Config)
	if err != nil {
		return domain.BuildStats{}, zerr.Wrap(err, domain.ErrConfigHashFailed.Error())
	}

	cache := s.openCache(opts)

	files := make([]string, len(jobs))
	for i, job := range jobs {
		files[i] = job.Rel
	}
	s.tracer.EmitPlan(ctx, files)

	ctx = context.WithoutCancel(ctx)
	t := &tally{}

	g := new(errgroup.Group)
	g.SetLimit(opts.jobs())
	for _, job := range jobs {
		g.Go(func() error {
			s.runJob(ctx, job, opts, cache, configHash, t)
			return nil
		})
	}
	_ = g.Wait()

	if cache != nil {
		cache.Cleanup()
		if err := cache.Save(opts.cacheDir()); err != nil {
			s.logger.Warn("failed to save build cache: " + err.Error())
		}
	}

	stats := t.stats(len(jobs))
	stats.Duration = time.Since(start)
	return stats, nil
}

func (s *Scheduler) runJob(
	ctx context.Context,
	job domain.Job,
	opts RunOptions,
	cache ports.BuildCache,
	configHash uint64,
	t *tally,
) {
	if !opts.Force && cache != nil && !cache.NeedsRebuild(job.Input, configHash) {
		s.processor.Skip(ctx, job)
		t.skip()
		return
	}

	res, err := s.processor.Process(ctx, job, opts.Config)
	if err != nil {
		t.failure(job.Rel, err)
		return
	}
	t.success(res)

	if cache != nil {
		if err := cache.Update(job.Input, res.OutputPath, configHash); err != nil {
			s.logger.Warn("failed to record " + job.Rel + ": " + err.Error())
		}
	}
}

func (s *Scheduler) openCache(opts RunOptions) ports.BuildCache {
	if opts.NoCache {
		return nil
	}
	cache, err := s.loader.Load(opts.cacheDir(), opts.TrustMtime)
	if err != nil {
		s.logger.Warn(err.Error())
	}
	return cache
}

// ResolveRoots makes both roots absolute and validates the input root.
func ResolveRoots(input, output string) (string, string, error) {
	in, err := filepath.Abs(input)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(domain.ErrInputNotFound, err.Error()), "input", input)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(domain.ErrPathOutsideRoot, err.Error()), "output", output)
	}

	info, err := os.Stat(in)
	switch {
	case err != nil:
		return "", "", zerr.With(zerr.Wrap(domain.ErrInputNotFound, "cannot build"), "input", input)
	case !info.IsDir():
		return "", "", zerr.With(zerr.Wrap(domain.ErrInputNotDirectory, "cannot build"), "input", input)
	}

	return in, out, nil
}
