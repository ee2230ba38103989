// Package linear provides a synchronous, line-buffered renderer for CI logs and watch mode.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// Renderer implements ports.Renderer for non-interactive environments.
// Completed files are printed one per line; cached files are only counted.
// Transform output is prefixed with the file it belongs to.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	tasks   map[string]*taskState // spanID -> task state
	buffers map[string]*bytes.Buffer
	cached  int
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer. Nil writers fall back to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, output.ColorProfileANSI),
		tasks:   make(map[string]*taskState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers and prints the number of cached files.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	if r.cached > 0 {
		symbol := r.output.String(style.Skip).Foreground(r.output.Color(string(style.Ash))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %d file(s) up to date\n", symbol, r.cached)
		r.cached = 0
	}

	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints how many files the build will visit.
func (r *Renderer) OnPlanEmit(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Processing %d file(s)\n", len(files))
}

// OnTaskStart registers a file. Nothing is printed until it completes.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)
}

// OnTaskLog buffers log data and prints complete lines with the file prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			if len(line) > 0 {
				rest := new(bytes.Buffer)
				rest.Write(line)
				r.buffers[spanID] = rest
			}
			break
		}
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes the remaining buffer and prints the outcome.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)
	delete(r.tasks, spanID)
	delete(r.buffers, spanID)

	if cached && err == nil {
		r.cached++
		return
	}

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s failed after %v: %v\n", symbol, task.name, duration, err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Green))).String()
	elapsed := r.output.String(fmt.Sprintf("(%v)", duration)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s %s\n", symbol, task.name, elapsed)
}

// flushBufferLocked prints any partial line left for a task.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(task.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the file prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
