package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/midterm"
)

// Vterm is a scrollable virtual terminal holding the output of one transform.
type Vterm struct {
	mu      sync.Mutex
	vt      *midterm.Terminal
	viewBuf *bytes.Buffer

	Offset int
	Height int
	Width  int
}

// NewVterm creates an empty, auto-resizing virtual terminal.
func NewVterm() *Vterm {
	return &Vterm{
		vt:      midterm.NewAutoResizingTerminal(),
		viewBuf: new(bytes.Buffer),
	}
}

// Write feeds transform output into the terminal.
// A view scrolled to the bottom keeps following new lines.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	following := v.Offset >= v.maxOffset()
	n, err := v.vt.Write(p)
	if following {
		v.Offset = v.maxOffset()
	}
	return n, err
}

// SetHeight sets the number of visible rows.
func (v *Vterm) SetHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	following := v.Offset >= v.maxOffset()
	v.Height = max(h, 1)
	if following {
		v.Offset = v.maxOffset()
	}
	v.clampLocked()
}

// SetWidth sets the number of visible columns.
func (v *Vterm) SetWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.Width = max(w, 1)
	v.vt.ResizeX(v.Width)
}

// UsedHeight returns the number of rows written so far.
func (v *Vterm) UsedHeight() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// ScrollToBottom moves the view to the last written row.
func (v *Vterm) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Offset = v.maxOffset()
}

// View renders the visible rows.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.viewBuf.Reset()
	v.clampLocked()

	used := v.vt.UsedHeight()
	for i := range v.Height {
		row := v.Offset + i
		if row >= used {
			break
		}
		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(v.viewBuf, row)
	}

	return v.viewBuf.String()
}

// Update scrolls the view in response to key presses.
func (v *Vterm) Update(msg tea.Msg) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}

	switch key.String() {
	case "pgup":
		v.Offset -= v.Height
	case "pgdown":
		v.Offset += v.Height
	case "home", "g":
		v.Offset = 0
	case "end", "G":
		v.Offset = v.maxOffset()
	}
	v.clampLocked()
}

func (v *Vterm) clampLocked() {
	v.Offset = min(max(v.Offset, 0), v.maxOffset())
}

func (v *Vterm) maxOffset() int {
	return max(v.vt.UsedHeight()-v.Height, 0)
}
