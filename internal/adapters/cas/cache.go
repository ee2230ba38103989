// Package cas implements the incremental build cache and its JSON sidecar.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildCache = (*BuildCache)(nil)

// sidecar is the on-disk shape of cache.json.
type sidecar struct {
	Records map[string]domain.CacheRecord `json:"records"`
	Version int                           `json:"version"`
}

// BuildCache maps input paths to the record of their last successful build.
// The mutex guards the record map only; hashing and stat calls run outside it.
type BuildCache struct {
	hasher     ports.Hasher
	version    int
	trustMtime bool
	now        func() time.Time

	mu      sync.RWMutex
	records map[string]domain.CacheRecord
}

// Option configures a BuildCache.
type Option func(*BuildCache)

// WithSchemaVersion overrides the schema version written and accepted by the cache.
func WithSchemaVersion(v int) Option {
	return func(c *BuildCache) {
		c.version = v
	}
}

// WithTrustMtime enables the modification-time fast path in NeedsRebuild.
func WithTrustMtime(enabled bool) Option {
	return func(c *BuildCache) {
		c.trustMtime = enabled
	}
}

// WithClock sets the clock used for ProcessedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *BuildCache) {
		c.now = now
	}
}

// New returns an empty cache.
func New(hasher ports.Hasher, opts ...Option) *BuildCache {
	c := &BuildCache{
		hasher:  hasher,
		version: domain.CacheSchemaVersion,
		now:     time.Now,
		records: make(map[string]domain.CacheRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the sidecar in dir. It always returns a usable cache: a missing
// file yields an empty cache and a nil error, while unreadable, malformed or
// version-mismatched files yield an empty cache and a diagnostic error.
func Load(dir string, hasher ports.Hasher, opts ...Option) (*BuildCache, error) {
	c := New(hasher, opts...)
	path := domain.CacheFilePath(dir)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	var doc sidecar
	if err := json.Unmarshal(data, &doc); err != nil {
		return c, zerr.With(zerr.Wrap(err, domain.ErrCacheUnmarshalFailed.Error()), "path", path)
	}

	if doc.Version != c.version {
		err := zerr.Wrap(domain.ErrCacheVersionMismatch, "discarding build cache")
		err = zerr.With(err, "found", doc.Version)
		return c, zerr.With(err, "expected", c.version)
	}

	for input, rec := range doc.Records {
		c.records[filepath.Clean(input)] = rec
	}
	return c, nil
}

// NeedsRebuild reports whether input must be transformed again under configHash.
//
// A rebuild is needed when there is no record, the config fingerprint changed,
// the recorded output is gone, or the input content changed. Content is decided
// by the hash; with the mtime fast path enabled an unchanged mtime skips it.
func (c *BuildCache) NeedsRebuild(input string, configHash uint64) bool {
	c.mu.RLock()
	rec, ok := c.records[filepath.Clean(input)]
	c.mu.RUnlock()

	if !ok || rec.ConfigHash != configHash {
		return true
	}

	if _, err := os.Stat(rec.OutputPath); err != nil {
		return true
	}

	info, err := os.Stat(input)
	if err != nil {
		return true
	}

	if c.trustMtime && mtimeSeconds(info) == rec.SourceMtime {
		return false
	}

	hash, err := c.hasher.HashFile(input)
	if err != nil {
		return true
	}
	return hash != rec.InputHash
}

// Update hashes input and replaces its record.
func (c *BuildCache) Update(input, output string, configHash uint64) error {
	info, err := os.Stat(input)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", input)
	}

	hash, err := c.hasher.HashFile(input)
	if err != nil {
		return err
	}

	rec := domain.CacheRecord{
		InputHash:   hash,
		ConfigHash:  configHash,
		OutputPath:  output,
		SourceMtime: mtimeSeconds(info),
		ProcessedAt: unixSeconds(c.now()),
	}

	c.mu.Lock()
	c.records[filepath.Clean(input)] = rec
	c.mu.Unlock()
	return nil
}

// Record returns the record for input, if any.
func (c *BuildCache) Record(input string) (domain.CacheRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[filepath.Clean(input)]
	return rec, ok
}

// Cleanup drops records whose input path no longer exists.
func (c *BuildCache) Cleanup() int {
	var gone []string
	for input := range c.snapshot() {
		if _, err := os.Stat(input); errors.Is(err, fs.ErrNotExist) {
			gone = append(gone, input)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, input := range gone {
		delete(c.records, input)
	}
	return len(gone)
}

// Save writes the sidecar into dir, creating the directory if needed.
// The file is replaced atomically.
func (c *BuildCache) Save(dir string) error {
	c.mu.RLock()
	data, err := json.MarshalIndent(sidecar{Records: c.records, Version: c.version}, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, domain.CacheFileName+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", dir)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", tmpName)
	}

	path := domain.CacheFilePath(dir)
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}

// Stats counts valid and stale records.
func (c *BuildCache) Stats() domain.CacheStats {
	records := c.snapshot()
	stats := domain.CacheStats{Total: len(records)}
	for input, rec := range records {
		if exists(input) && exists(rec.OutputPath) {
			stats.Valid++
		} else {
			stats.Stale++
		}
	}
	return stats
}

// Clear drops every record.
func (c *BuildCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.records)
}

// Len returns the number of records.
func (c *BuildCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *BuildCache) snapshot() map[string]domain.CacheRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.records)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mtimeSeconds(info fs.FileInfo) uint64 {
	return unixSeconds(info.ModTime())
}

func unixSeconds(t time.Time) uint64 {
	sec := t.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)
}
