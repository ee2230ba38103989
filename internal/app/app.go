// Package app implements the application layer for forge.
package app

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/adapters/linear"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/adapters/tui"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	cacheLoader  ports.CacheLoader
	hasher       ports.Hasher
	watcher      ports.Watcher
	logger       ports.Logger

	stdout     io.Writer
	stderr     io.Writer
	teaOptions []tea.ProgramOption
	detect     func() detector.OutputMode
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	cacheLoader ports.CacheLoader,
	hasher ports.Hasher,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		cacheLoader:  cacheLoader,
		hasher:       hasher,
		watcher:      watcher,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		detect:       detector.DetectEnvironment,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects reports and the linear renderer.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDetector replaces terminal detection for the auto output mode.
func (a *App) WithDetector(detect func() detector.OutputMode) *App {
	a.detect = detect
	return a
}

// sessionLogger is implemented by loggers that support --json and session tagging.
type sessionLogger interface {
	SetJSON(enable bool)
	SetSession(id string)
}

// startSession switches the logger format and tags the records of this run.
func (a *App) startSession(jsonLogs bool) string {
	id := uuid.NewString()
	if l, ok := a.logger.(sessionLogger); ok {
		l.SetJSON(jsonLogs)
		l.SetSession(id)
	}
	return id
}

// loadProject reads the configuration found from the working directory.
func (a *App) loadProject(explicit string) (*domain.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	project, err := a.configLoader.Load(cwd, explicit)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

// newRenderer picks the renderer for mode.
func (a *App) newRenderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		return tui.NewRenderer(&model, opts...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// newTracer connects a tracer to renderer through a fresh provider.
// The returned function shuts the provider down.
func newTracer(renderer ports.Renderer) (*telemetry.OTelTracer, func()) {
	tp := setupOTel(telemetry.NewBridge(renderer))
	tracer := telemetry.NewOTelTracer("forge", telemetry.WithTracerProvider(tp)).WithRenderer(renderer)
	return tracer, func() {
		_ = tp.Shutdown(context.Background())
	}
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// pick returns flag unless it is empty.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
