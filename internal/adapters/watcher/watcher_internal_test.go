package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/ports"
)

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want ports.WatchOp
	}{
		{fsnotify.Create, ports.OpCreate},
		{fsnotify.Write, ports.OpWrite},
		{fsnotify.Create | fsnotify.Write, ports.OpWrite},
		{fsnotify.Remove, ports.OpRemove},
		{fsnotify.Rename, ports.OpRename},
		{fsnotify.Chmod, ports.OpOther},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got := convertEvent(fsnotify.Event{Name: "/a.png", Op: tt.op})
			assert.Equal(t, ports.WatchEvent{Path: "/a.png", Operation: tt.want}, got)
		})
	}
}

func TestWatchRecursively_SkipsOnlyVCSDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"art/ui", ".git/objects", "node_modules/x", "build/.cache"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o750))
	}

	got := slices.Collect(watchRecursively(root))
	slices.Sort(got)

	want := []string{
		root,
		filepath.Join(root, "art"),
		filepath.Join(root, "art", "ui"),
		filepath.Join(root, "build"),
		filepath.Join(root, "build", ".cache"),
		filepath.Join(root, "node_modules"),
		filepath.Join(root, "node_modules", "x"),
	}
	assert.Equal(t, want, got)
}
