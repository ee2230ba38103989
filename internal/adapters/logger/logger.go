// Package logger implements ports.Logger on log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
// It writes pretty lines by default and JSON records after SetJSON(true).
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
	session  string
}

// New creates a Logger writing pretty lines to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput redirects the logger. A nil w means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging, keeping the output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetSession tags JSON records with a session id so concurrent runs can be told apart.
// Pretty output is unaffected.
func (l *Logger) SetSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.session = id
	l.rebuild()
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(l.output, opts)
		if l.session != "" {
			handler = handler.WithAttrs([]slog.Attr{slog.String("session", l.session)})
		}
	} else {
		handler = NewPrettyHandler(l.output, opts)
	}
	l.logger = slog.New(handler)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain. Nil errors are ignored.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}
	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}
