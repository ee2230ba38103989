package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// waitFor reads events until one for path with an accepted operation arrives.
func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string, ops ...ports.WatchOp) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event stream closed early")
			if ev.Path != path {
				continue
			}
			for _, op := range ops {
				if ev.Operation == op {
					return ev
				}
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsChanges(t *testing.T) {
	root := t.TempDir()
	w := watcher.NewWatcher()
	require.NoError(t, w.Start(t.Context(), root))
	t.Cleanup(func() { _ = w.Stop() })

	file := filepath.Join(root, "hero.png")
	require.NoError(t, os.WriteFile(file, []byte("a"), domain.FilePerm))
	waitFor(t, w.Events(), file, ports.OpCreate, ports.OpWrite)

	require.NoError(t, os.Remove(file))
	waitFor(t, w.Events(), file, ports.OpRemove)
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := watcher.NewWatcher()
	require.NoError(t, w.Start(t.Context(), root))
	t.Cleanup(func() { _ = w.Stop() })

	dir := filepath.Join(root, "textures")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	waitFor(t, w.Events(), dir, ports.OpCreate)

	// Give the watcher a moment to register the new directory.
	require.Eventually(t, func() bool {
		file := filepath.Join(dir, "late.png")
		if err := os.WriteFile(file, []byte("x"), domain.FilePerm); err != nil {
			return false
		}
		select {
		case ev := <-w.Events():
			return ev.Path == file
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	w := watcher.NewWatcher()
	require.NoError(t, w.Start(t.Context(), t.TempDir()))
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("events not closed")
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	w := watcher.NewWatcher()
	require.NoError(t, w.Start(t.Context(), t.TempDir()))
	t.Cleanup(func() { _ = w.Stop() })

	err := w.Start(t.Context(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrWatcherStartFailed)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	assert.NoError(t, watcher.NewWatcher().Stop())
}
