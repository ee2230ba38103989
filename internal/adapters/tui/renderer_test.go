package tui_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/tui"
	"go.trai.ch/zerr"
)

func newHeadlessRenderer(t *testing.T) *tui.Renderer {
	t.Helper()
	model := tui.NewModel(io.Discard)
	return tui.NewRenderer(
		&model,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
}

func TestRenderer_Lifecycle(t *testing.T) {
	r := newHeadlessRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_ForwardsEvents(t *testing.T) {
	r := newHeadlessRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	now := time.Now()
	r.OnPlanEmit([]string{"a.png", "b.png"})
	r.OnTaskStart("s1", "", "a.png", now)
	r.OnTaskLog("s1", []byte("working"))
	r.OnTaskComplete("s1", now, nil, false)
	r.OnTaskStart("s2", "", "b.png", now)
	r.OnTaskComplete("s2", now, zerr.New("boom"), false)

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	m := r.Model()
	require.Len(t, m.Files, 2)
	assert.Equal(t, tui.StatusDone, m.Files[0].Status)
	assert.Equal(t, tui.StatusError, m.Files[1].Status)
	assert.Equal(t, 1, m.Done)
	assert.Equal(t, 1, m.Failed)
}
