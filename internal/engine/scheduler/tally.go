package scheduler

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/forge/internal/core/domain"
)

// tally collects the outcome of a batch. Counters are atomic; the error
// list has its own lock and is never held across a transform.
type tally struct {
	processed atomic.Uint64
	skipped   atomic.Uint64
	errored   atomic.Uint64
	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64

	mu     sync.Mutex
	errors []domain.FileError
}

func (t *tally) success(res domain.TransformResult) {
	t.processed.Add(1)
	t.bytesIn.Add(res.BytesIn)
	t.bytesOut.Add(res.BytesOut)
}

func (t *tally) skip() {
	t.skipped.Add(1)
}

func (t *tally) failure(path string, err error) {
	t.errored.Add(1)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, domain.FileError{Path: path, Message: err.Error()})
}

// stats snapshots the tally. Errors are sorted by path.
func (t *tally) stats(total int) domain.BuildStats {
	t.mu.Lock()
	errs := slices.Clone(t.errors)
	t.mu.Unlock()

	slices.SortFunc(errs, func(a, b domain.FileError) int {
		return strings.Compare(a.Path, b.Path)
	})

	return domain.BuildStats{
		Total:     uint64(total), //nolint:gosec // len is never negative
		Processed: t.processed.Load(),
		Skipped:   t.skipped.Load(),
		Errored:   t.errored.Load(),
		BytesIn:   t.bytesIn.Load(),
		BytesOut:  t.bytesOut.Load(),
		Errors:    errs,
	}
}
