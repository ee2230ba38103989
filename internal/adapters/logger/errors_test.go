package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("permission denied"), "open cache.json"), "failed to save build cache"),
			wantMessages: []string{"failed to save build cache", "open cache.json", "permission denied"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "sentinel with context",
			err:          zerr.With(zerr.Wrap(domain.ErrUnknownPreset, "failed to resolve preset console"), "preset", "console"),
			wantMessages: []string{"failed to resolve preset console", domain.ErrUnknownPreset.Error()},
			wantMetadata: []map[string]any{{"preset": "console"}, {}},
		},
		{
			name:         "anonymous link folds into its cause",
			err:          zerr.With(errors.New("disk full"), "path", "/tmp/out"),
			wantMessages: []string{"disk full"},
			wantMetadata: []map[string]any{{"path": "/tmp/out"}},
		},
		{
			name:         "anonymous link folds into the previous entry",
			err:          zerr.Wrap(zerr.With(errors.New("disk full"), "path", "/tmp/out"), "transform failed"),
			wantMessages: []string{"transform failed", "disk full"},
			wantMetadata: []map[string]any{{"path": "/tmp/out"}, nil},
		},
		{
			name: "nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			if tt.err == nil {
				assert.Empty(t, entries)
				return
			}

			assert.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message, "message %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "caused by",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name:    "metadata sorted on main error",
			entries: []logger.ErrorEntry{{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": 1}}},
			want:    "Error: error\n       alpha: 1\n       zebra: z",
		},
		{
			name:    "metadata on cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "cause", Metadata: map[string]any{"path": "a.png"}}},
			want:    "Error: main\n\n  Caused by:\n    → cause\n      path: a.png",
		},
		{
			name:    "multiline messages",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}, {Message: "cause1\ncause2"}},
			want:    "Error: line1\n       line2\n\n  Caused by:\n    → cause1\n      cause2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
