package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/detector"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type appFixture struct {
	app         *app.App
	loader      *mocks.MockConfigLoader
	transformer *mocks.MockTransformer
	watcher     *mocks.MockWatcher
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
}

func newFixture(t *testing.T, log ports.Logger) *appFixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	f := &appFixture{
		loader:      mocks.NewMockConfigLoader(ctrl),
		transformer: mocks.NewMockTransformer(ctrl),
		watcher:     mocks.NewMockWatcher(ctrl),
		stdout:      new(bytes.Buffer),
		stderr:      new(bytes.Buffer),
	}

	if log == nil {
		mockLogger := mocks.NewMockLogger(ctrl)
		mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
		mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
		log = mockLogger
	}

	hasher := fs.NewHasher()
	loader := cas.NewLoader(hasher)
	sched := scheduler.NewScheduler(fs.NewWalker(), loader, hasher, f.transformer, telemetry.NewNoOpTracer(), log)

	f.app = app.New(f.loader, sched, loader, hasher, f.watcher, log).
		WithOutput(f.stdout, f.stderr).
		WithDetector(func() detector.OutputMode { return detector.ModeLinear })
	return f
}

func testProject(root string) *domain.Project {
	return &domain.Project{
		Root:    root,
		Source:  filepath.Join(root, "assets"),
		Output:  filepath.Join(root, "build"),
		Preset:  "desktop",
		Presets: domain.BuiltinPresets(),
		Cache:   domain.CacheSettings{Enabled: true, Directory: domain.CacheDirName},
		Watch:   domain.DefaultWatchSettings(),
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

// halve writes the first half of the input to the requested output.
func halve(_ context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
	data, err := os.ReadFile(req.Input)
	if err != nil {
		return domain.TransformResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o750); err != nil {
		return domain.TransformResult{}, err
	}
	out := data[:len(data)/2]
	if err := os.WriteFile(req.Output, out, 0o600); err != nil {
		return domain.TransformResult{}, err
	}
	return domain.TransformResult{BytesIn: uint64(len(data)), BytesOut: uint64(len(out)), OutputPath: req.Output}, nil
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t, nil)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa", "sfx/b.wav": "bbbb", "notes.txt": "skip"})

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil).Times(2)
	f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
			assert.Equal(t, "desktop", req.Config.Preset)
			return halve(ctx, req)
		},
	).Times(2)

	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{OutputMode: "linear"}))

	out := f.stdout.String()
	assert.Contains(t, out, "Building assets from: "+p.Source)
	assert.Contains(t, out, "Platform preset: desktop")
	assert.Contains(t, out, "Build complete!")
	assert.Contains(t, out, "Files processed: 2")
	assert.FileExists(t, filepath.Join(p.Output, "a.png"))
	assert.FileExists(t, filepath.Join(p.Output, "sfx", "b.wav"))
	assert.FileExists(t, domain.CacheFilePath(domain.DefaultCachePath(p.Output)))
	assert.Contains(t, f.stderr.String(), "Processing 2 file(s)")

	// The second build finds everything cached.
	f.stdout.Reset()
	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{OutputMode: "linear"}))
	assert.Contains(t, f.stdout.String(), "Files processed: 0")
	assert.Contains(t, f.stdout.String(), "Files skipped (cached): 2")
}

func TestApp_Build_FlagsOverrideProject(t *testing.T) {
	f := newFixture(t, nil)
	root := t.TempDir()
	p := testProject(root)
	input := filepath.Join(root, "other")
	output := filepath.Join(root, "out")
	writeFiles(t, input, map[string]string{"a.png": "aaaa"})

	f.loader.EXPECT().Load(gomock.Any(), "custom.yaml").Return(p, nil)
	f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
			assert.Equal(t, "web", req.Config.Preset)
			assert.Equal(t, filepath.Join(output, "a.png"), req.Output)
			return halve(ctx, req)
		},
	)

	err := f.app.Build(t.Context(), app.BuildOptions{
		Input:      input,
		Output:     output,
		Preset:     "web",
		ConfigPath: "custom.yaml",
		Jobs:       2,
		NoCache:    true,
		OutputMode: "ci",
	})
	require.NoError(t, err)
	assert.NoDirExists(t, domain.DefaultCachePath(output))
}

func TestApp_Build_PartialFailure(t *testing.T) {
	f := newFixture(t, nil)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa", "b.png": "bbbb"})

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)
	f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
			if filepath.Base(req.Input) == "b.png" {
				return domain.TransformResult{}, errors.New("corrupt header")
			}
			return halve(ctx, req)
		},
	).Times(2)

	err := f.app.Build(t.Context(), app.BuildOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)

	out := f.stdout.String()
	assert.Contains(t, out, "Build finished with errors")
	assert.Contains(t, out, "Files processed: 1")
	assert.Contains(t, out, "b.png: corrupt header")
}

func TestApp_Build_DryRun(t *testing.T) {
	f := newFixture(t, nil)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa", "m/ship.glb": "glb"})

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{DryRun: true}))

	out := f.stdout.String()
	assert.Contains(t, out, "(Dry run - no files will be processed)")
	assert.Contains(t, out, "Found 2 asset files to process")
	assert.Contains(t, out, "m/ship.glb")
	assert.NoDirExists(t, p.Output)
}

func TestApp_Build_TUI(t *testing.T) {
	f := newFixture(t, nil)
	f.app.WithDetector(func() detector.OutputMode { return detector.ModeTUI }).
		WithTeaOptions(
			tea.WithInput(strings.NewReader("")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
			tea.WithoutRenderer(),
		)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa"})

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)
	f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(halve)

	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{}))
	assert.Contains(t, f.stdout.String(), "Build complete!")
	assert.Empty(t, f.stderr.String())
}

func TestApp_Build_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(nil, domain.ErrConfigParseFailed)

		err := f.app.Build(t.Context(), app.BuildOptions{})
		require.ErrorIs(t, err, domain.ErrConfigParseFailed)
	})

	t.Run("unknown preset", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(testProject(t.TempDir()), nil)

		err := f.app.Build(t.Context(), app.BuildOptions{Preset: "console"})
		require.ErrorIs(t, err, domain.ErrUnknownPreset)
	})

	t.Run("negative jobs", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(testProject(t.TempDir()), nil)

		err := f.app.Build(t.Context(), app.BuildOptions{Jobs: -1})
		require.ErrorIs(t, err, domain.ErrInvalidJobCount)
	})

	t.Run("unknown output mode", func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		require.NoError(t, os.MkdirAll(p.Source, 0o750))
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

		err := f.app.Build(t.Context(), app.BuildOptions{OutputMode: "fancy"})
		require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
	})

	t.Run("missing input", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(testProject(t.TempDir()), nil)

		err := f.app.Build(t.Context(), app.BuildOptions{OutputMode: "linear"})
		require.ErrorIs(t, err, domain.ErrInputNotFound)
	})
}

func TestApp_Build_JSONSession(t *testing.T) {
	logs := new(bytes.Buffer)
	log := logger.New()
	log.SetOutput(logs)

	f := newFixture(t, log)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa"})
	writeFiles(t, domain.DefaultCachePath(p.Output), map[string]string{domain.CacheFileName: "{not json"})

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)
	f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(halve)

	require.NoError(t, f.app.Build(t.Context(), app.BuildOptions{OutputMode: "linear", JSON: true}))

	line := logs.String()
	assert.Contains(t, line, `"level":"WARN"`)
	assert.Contains(t, line, `"session":"`)
	assert.Contains(t, line, domain.ErrCacheUnmarshalFailed.Error())
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		writeFiles(t, p.Source, map[string]string{"a.png": "aaaa"})

		events := make(chan ports.WatchEvent, 1)
		errs := make(chan error)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)
		f.watcher.EXPECT().Start(gomock.Any(), p.Source).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return((<-chan ports.WatchEvent)(events)).AnyTimes()
		f.watcher.EXPECT().Errors().Return((<-chan error)(errs)).AnyTimes()
		f.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).DoAndReturn(halve).Times(1)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(ctx, app.WatchOptions{})
		}()

		ev := ports.WatchEvent{Path: filepath.Join(p.Source, "a.png"), Operation: ports.OpWrite}
		events <- ev
		events <- ev
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		out := f.stdout.String()
		assert.Contains(t, out, "Watching for changes...")
		assert.Contains(t, out, "Debounce: 300ms")
		assert.Contains(t, out, "Processed: 1")
		assert.Contains(t, out, "Skipped: 1")
		assert.Contains(t, f.stderr.String(), "a.png")

		data, err := os.ReadFile(domain.CacheFilePath(domain.DefaultCachePath(p.Output)))
		require.NoError(t, err)
		assert.Contains(t, string(data), filepath.Join(p.Source, "a.png"))
	})
}

func TestApp_Watch_RecordingDisabled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		p.Watch.RecordBuilds = false
		require.NoError(t, os.MkdirAll(p.Source, 0o750))

		events := make(chan ports.WatchEvent)
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)
		f.watcher.EXPECT().Start(gomock.Any(), p.Source).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return((<-chan ports.WatchEvent)(events)).AnyTimes()
		f.watcher.EXPECT().Errors().Return((<-chan error)(make(chan error))).AnyTimes()

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() {
			done <- f.app.Watch(ctx, app.WatchOptions{})
		}()
		synctest.Wait()
		cancel()
		require.NoError(t, <-done)

		assert.NoDirExists(t, domain.DefaultCachePath(p.Output))
	})
}

func TestApp_Watch_MissingInput(t *testing.T) {
	f := newFixture(t, nil)
	f.loader.EXPECT().Load(gomock.Any(), "").Return(testProject(t.TempDir()), nil)

	err := f.app.Watch(t.Context(), app.WatchOptions{})
	require.ErrorIs(t, err, domain.ErrInputNotFound)
}

func TestApp_Clean(t *testing.T) {
	t.Run("cache only", func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		writeFiles(t, p.Output, map[string]string{"a.png": "aa", ".cache/cache.json": "{}"})
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

		require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{}))

		assert.NoDirExists(t, domain.DefaultCachePath(p.Output))
		assert.FileExists(t, filepath.Join(p.Output, "a.png"))
		assert.Contains(t, f.stdout.String(), "Removed cache: "+domain.DefaultCachePath(p.Output)+" (2 B)")
	})

	t.Run("all", func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		writeFiles(t, p.Output, map[string]string{"a.png": "aa", ".cache/cache.json": "{}"})
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

		require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{All: true}))

		assert.NoDirExists(t, p.Output)
		assert.Contains(t, f.stdout.String(), "Removed output: "+p.Output)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t, nil)
		p := testProject(t.TempDir())
		f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

		require.NoError(t, f.app.Clean(t.Context(), app.CleanOptions{CacheDir: "custom"}))
		assert.Contains(t, f.stdout.String(), "Cache not found: "+filepath.Join(p.Output, "custom"))
	})
}

func TestApp_Init(t *testing.T) {
	f := newFixture(t, nil)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, domain.ConfigFileName)
	f.loader.EXPECT().Scaffold(gomock.Any(), true).Return(path, nil)

	require.NoError(t, f.app.Init(t.Context(), app.InitOptions{Force: true}))
	assert.Contains(t, f.stdout.String(), "Created "+path)
}

func TestApp_Init_Exists(t *testing.T) {
	f := newFixture(t, nil)
	t.Chdir(t.TempDir())

	f.loader.EXPECT().Scaffold(gomock.Any(), false).Return("", domain.ErrConfigExists)

	err := f.app.Init(t.Context(), app.InitOptions{})
	require.ErrorIs(t, err, domain.ErrConfigExists)
	assert.Empty(t, f.stdout.String())
}

func TestApp_Stats(t *testing.T) {
	f := newFixture(t, nil)
	p := testProject(t.TempDir())
	writeFiles(t, p.Source, map[string]string{"a.png": "aaaa", "b.png": "bbbb"})
	writeFiles(t, p.Output, map[string]string{"a.png": "aa", "b.png": "bb"})

	cacheDir := domain.DefaultCachePath(p.Output)
	cache := cas.New(fs.NewHasher())
	require.NoError(t, cache.Update(filepath.Join(p.Source, "a.png"), filepath.Join(p.Output, "a.png"), 1))
	require.NoError(t, cache.Update(filepath.Join(p.Source, "b.png"), filepath.Join(p.Output, "b.png"), 1))
	require.NoError(t, cache.Save(cacheDir))
	require.NoError(t, os.Remove(filepath.Join(p.Output, "b.png")))

	f.loader.EXPECT().Load(gomock.Any(), "").Return(p, nil)

	require.NoError(t, f.app.Stats(t.Context(), app.StatsOptions{}))

	out := f.stdout.String()
	assert.Contains(t, out, "Build cache: "+cacheDir)
	assert.Contains(t, out, "Records: 2")
	assert.Contains(t, out, "Valid: 1")
	assert.Contains(t, out, "Stale: 1")
}
