// Package tui renders a build as an interactive file list with per-file output panes.
package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/output"
)

// NewModel creates a model that follows the running file.
// The lipgloss color profile is taken from w; a nil w means stderr.
func NewModel(w io.Writer) Model {
	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Files:      make([]*FileNode, 0),
		FileMap:    make(map[string]*FileNode),
		SpanMap:    make(map[string]*FileNode),
		FollowMode: true,
	}
}
