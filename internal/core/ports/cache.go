package ports

import "go.trai.ch/forge/internal/core/domain"

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// BuildCache decides rebuild necessity and records successful builds.
// Implementations must be safe for concurrent use.
type BuildCache interface {
	// NeedsRebuild reports whether input must be transformed again under configHash.
	NeedsRebuild(input string, configHash uint64) bool
	// Update replaces the record for input after a successful build.
	Update(input, output string, configHash uint64) error
	// Cleanup drops records whose input no longer exists and returns how many were removed.
	Cleanup() int
	// Save persists the cache into dir.
	Save(dir string) error
	// Stats summarizes the current records.
	Stats() domain.CacheStats
	// Clear drops every record.
	Clear()
	// Len returns the number of records.
	Len() int
}

// CacheLoader opens the build cache stored in a directory.
type CacheLoader interface {
	// Load always returns a usable cache. A non-nil error explains why the
	// returned cache is empty; callers treat it as a diagnostic.
	// When trustMtime is set, an unchanged modification time skips re-hashing.
	Load(dir string, trustMtime bool) (BuildCache, error)
}
