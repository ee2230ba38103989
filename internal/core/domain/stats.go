package domain

import "time"

// FileError pairs a failed input with the message of its failure.
type FileError struct {
	Path    string
	Message string
}

// BuildStats is the outcome of one batch build.
type BuildStats struct {
	Total     uint64
	Processed uint64
	Skipped   uint64
	Errored   uint64
	BytesIn   uint64
	BytesOut  uint64
	Errors    []FileError
	Duration  time.Duration
}

// Failed reports whether any file failed to build.
func (s *BuildStats) Failed() bool {
	return s.Errored > 0
}

// Reduction returns the size saved by the build as a percentage of the input size.
// It returns 0 when nothing was read.
func (s *BuildStats) Reduction() float64 {
	if s.BytesIn == 0 {
		return 0
	}
	return (1 - float64(s.BytesOut)/float64(s.BytesIn)) * 100
}

// WatchStats is the cumulative outcome of a watch session.
type WatchStats struct {
	Processed uint64
	Errors    uint64
	Debounced uint64
	Duration  time.Duration
}
