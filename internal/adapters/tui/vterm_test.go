package tui_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/tui"
)

func fill(v *tui.Vterm, lines int) {
	var b strings.Builder
	for i := range lines {
		fmt.Fprintf(&b, "line %d\r\n", i)
	}
	_, _ = v.Write([]byte(b.String()))
}

func TestVterm_FollowsOutput(t *testing.T) {
	v := tui.NewVterm()
	v.SetWidth(40)
	v.SetHeight(3)

	fill(v, 10)

	assert.Equal(t, max(v.UsedHeight()-3, 0), v.Offset)
	assert.Contains(t, v.View(), "line 9")
	assert.NotContains(t, v.View(), "line 0")
}

func TestVterm_Scrolling(t *testing.T) {
	v := tui.NewVterm()
	v.SetWidth(40)
	v.SetHeight(3)
	fill(v, 10)

	v.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, v.Offset)
	assert.Contains(t, v.View(), "line 0")

	v.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, v.Offset, "offset is clamped at the top")

	v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 3, v.Offset)

	fill(v, 1)
	assert.Equal(t, 3, v.Offset, "a scrolled-up view stays put")

	v.Update(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, max(v.UsedHeight()-3, 0), v.Offset)
}

func TestVterm_MinimumSize(t *testing.T) {
	v := tui.NewVterm()
	v.SetWidth(0)
	v.SetHeight(-5)

	assert.Equal(t, 1, v.Width)
	assert.Equal(t, 1, v.Height)
}
