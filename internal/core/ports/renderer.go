package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the scheduler knows which files it will visit.
	OnPlanEmit(files []string)

	// OnTaskStart is called when a file starts processing.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a transform emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a file finishes. cached is true when the
	// file was skipped because its cache record was still valid.
	OnTaskComplete(spanID string, endTime time.Time, err error, cached bool)
}
