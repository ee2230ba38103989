package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/report"
	"go.trai.ch/zerr"
)

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the output directory.
	All        bool
	CacheDir   string
	Output     string
	ConfigPath string
}

// Clean removes the build cache and, with All, the build outputs.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	project, err := a.loadProject(opts.ConfigPath)
	if err != nil {
		return err
	}

	output := pick(opts.Output, project.Output)
	cacheDir := project.CacheDir(output)
	if opts.CacheDir != "" {
		cacheDir = domain.ResolveCacheDir(output, opts.CacheDir)
	}

	var (
		errs     error
		removals []report.Removal
	)

	remove := func(path, label string) {
		rm := report.Removal{Label: label, Path: path}
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			rm.Missing = true
			removals = append(removals, rm)
			return
		}
		rm.Size = dirSize(path)
		if rmErr := os.RemoveAll(path); rmErr != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(domain.ErrFailedToCleanOutput, rmErr.Error()), "path", path))
			return
		}
		a.logger.Info("removed " + path)
		removals = append(removals, rm)
	}

	remove(cacheDir, "Cache")
	if opts.All {
		remove(output, "Output")
	}

	report.New(a.stdout).Clean(removals)
	return errs
}

// InitOptions configuration for the Init method.
type InitOptions struct {
	Force bool
}

// Init writes the default forge.yaml into the working directory.
func (a *App) Init(_ context.Context, opts InitOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	path, err := a.configLoader.Scaffold(cwd, opts.Force)
	if err != nil {
		return err
	}

	report.New(a.stdout).Initialized(path)
	return nil
}

// StatsOptions configuration for the Stats method.
type StatsOptions struct {
	CacheDir   string
	Output     string
	ConfigPath string
}

// Stats prints how many cache records are still valid.
func (a *App) Stats(_ context.Context, opts StatsOptions) error {
	project, err := a.loadProject(opts.ConfigPath)
	if err != nil {
		return err
	}

	output := pick(opts.Output, project.Output)
	dir := project.CacheDir(output)
	if opts.CacheDir != "" {
		dir = domain.ResolveCacheDir(output, opts.CacheDir)
	}

	cache, err := a.cacheLoader.Load(dir, project.Cache.TrustMtime)
	if err != nil {
		a.logger.Warn(err.Error())
	}

	report.New(a.stdout).Cache(dir, cache.Stats())
	return nil
}

// dirSize sums the sizes of the regular files below root.
func dirSize(root string) uint64 {
	var total uint64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil //nolint:nilerr // unreadable entries do not count
		}
		if info, infoErr := d.Info(); infoErr == nil {
			total += uint64(info.Size()) //nolint:gosec // sizes are non-negative
		}
		return nil
	})
	return total
}
