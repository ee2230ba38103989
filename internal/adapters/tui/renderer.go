package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/forge/internal/adapters/telemetry"
)

// Renderer wraps the bubbletea program as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a TUI renderer around model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit fills the file list.
func (r *Renderer) OnPlanEmit(files []string) {
	r.program.Send(telemetry.MsgInitTasks{Files: files})
}

// OnTaskStart marks a file as running.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(telemetry.MsgTaskStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnTaskLog appends transform output to the file's pane.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(telemetry.MsgTaskLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnTaskComplete records the outcome of a file.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, cached bool) {
	r.program.Send(telemetry.MsgTaskComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
		Cached:  cached,
	})
}

// Model returns the state driven by the program.
func (r *Renderer) Model() *Model {
	return r.model
}
