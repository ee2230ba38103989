package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/cmd/forge/commands"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
)

type mockApp struct {
	build buildCall
	watch *app.WatchOptions
	clean *app.CleanOptions
	init  *app.InitOptions
	stats *app.StatsOptions
	err   error
}

type buildCall struct {
	called bool
	opts   app.BuildOptions
}

func (m *mockApp) Build(_ context.Context, opts app.BuildOptions) error {
	m.build = buildCall{called: true, opts: opts}
	return m.err
}

func (m *mockApp) Watch(_ context.Context, opts app.WatchOptions) error {
	m.watch = &opts
	return m.err
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.clean = &opts
	return m.err
}

func (m *mockApp) Init(_ context.Context, opts app.InitOptions) error {
	m.init = &opts
	return m.err
}

func (m *mockApp) Stats(_ context.Context, opts app.StatsOptions) error {
	m.stats = &opts
	return m.err
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	out := new(bytes.Buffer)
	cli.SetArgs(args)
	cli.SetOutput(out, new(bytes.Buffer))
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "art", "-o", "dist", "-p", "web", "-j", "4",
			"--force", "--dry-run", "--no-cache", "--output-mode", "tui", "--json", "--config", "f.yaml")
		require.NoError(t, err)

		require.True(t, m.build.called)
		assert.Equal(t, app.BuildOptions{
			Input:      "art",
			Output:     "dist",
			Preset:     "web",
			ConfigPath: "f.yaml",
			Jobs:       4,
			Force:      true,
			DryRun:     true,
			NoCache:    true,
			OutputMode: "tui",
			JSON:       true,
		}, m.build.opts)
	})

	t.Run("defaults", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build")
		require.NoError(t, err)
		assert.Equal(t, app.BuildOptions{OutputMode: "auto"}, m.build.opts)
	})

	t.Run("ci overrides output mode", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--output-mode", "tui", "--ci")
		require.NoError(t, err)
		assert.Equal(t, "linear", m.build.opts.OutputMode)
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "a", "b")
		require.Error(t, err)
		assert.False(t, m.build.called)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch", "art", "-o", "dist", "-p", "mobile", "--debounce", "150ms")
	require.NoError(t, err)

	require.NotNil(t, m.watch)
	assert.Equal(t, app.WatchOptions{
		Input:    "art",
		Output:   "dist",
		Preset:   "mobile",
		Debounce: 150 * time.Millisecond,
	}, *m.watch)
}

func TestCommands_Clean(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "clean", "--all", "--cache-dir", "tmp")
	require.NoError(t, err)

	require.NotNil(t, m.clean)
	assert.True(t, m.clean.All)
	assert.Equal(t, "tmp", m.clean.CacheDir)

	m = &mockApp{}
	_, err = execute(t, m, "clean")
	require.NoError(t, err)
	assert.False(t, m.clean.All)
}

func TestCommands_Init(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "init", "--force")
	require.NoError(t, err)
	require.NotNil(t, m.init)
	assert.True(t, m.init.Force)
}

func TestCommands_Stats(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "stats", "-o", "dist")
	require.NoError(t, err)
	require.NotNil(t, m.stats)
	assert.Equal(t, "dist", m.stats.Output)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "forge version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "forge version "+build.Version)
}
