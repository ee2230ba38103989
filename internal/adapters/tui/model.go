package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/adapters/telemetry"
)

const (
	fileListWidthRatio = 0.35
	logPaneBorderWidth = 4
)

// FileStatus represents the current state of a file.
type FileStatus string

const (
	// StatusPending indicates the file is waiting for a worker.
	StatusPending FileStatus = "Pending"
	// StatusRunning indicates the file is being transformed.
	StatusRunning FileStatus = "Running"
	// StatusDone indicates the file was transformed.
	StatusDone FileStatus = "Done"
	// StatusCached indicates the file was skipped because its output is current.
	StatusCached FileStatus = "Cached"
	// StatusError indicates the transform failed.
	StatusError FileStatus = "Error"
)

// FileNode is one row of the file list.
type FileNode struct {
	Name      string
	Status    FileStatus
	Term      *Vterm
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Finished reports whether the file reached a terminal status.
func (n *FileNode) Finished() bool {
	return n.Status == StatusDone || n.Status == StatusCached || n.Status == StatusError
}

// Model is the bubbletea state of a build.
type Model struct {
	Files   []*FileNode
	FileMap map[string]*FileNode
	SpanMap map[string]*FileNode

	Done    int
	Cached  int
	Failed  int
	Planned bool

	ActiveName  string
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int
	FollowMode  bool
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case telemetry.MsgInitTasks:
		m.Files = make([]*FileNode, 0, len(msg.Files))
		m.FileMap = make(map[string]*FileNode, len(msg.Files))
		m.SpanMap = make(map[string]*FileNode)
		m.Done, m.Cached, m.Failed = 0, 0, 0
		for _, name := range msg.Files {
			m.addFile(name)
		}
		m.Planned = true

	case telemetry.MsgTaskStart:
		m.ensureMaps()
		node, ok := m.FileMap[msg.Name]
		if !ok {
			node = m.addFile(msg.Name)
		}
		node.Status = StatusRunning
		node.StartTime = msg.StartTime
		m.SpanMap[msg.SpanID] = node

		if m.FollowMode {
			m.selectName(msg.Name)
		}

	case telemetry.MsgTaskLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case telemetry.MsgTaskComplete:
		node, ok := m.SpanMap[msg.SpanID]
		if !ok {
			return m, nil
		}
		node.EndTime = msg.EndTime
		switch {
		case msg.Err != nil:
			node.Status = StatusError
			node.Err = msg.Err
			m.Failed++
			if m.FollowMode {
				// Keep the first failure on screen.
				m.FollowMode = false
				m.selectName(node.Name)
			}
		case msg.Cached:
			node.Status = StatusCached
			m.Cached++
		default:
			node.Status = StatusDone
			m.Done++
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Files)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
			m.updateActiveView()
		}
	case "esc":
		m.FollowMode = true
		for i := len(m.Files) - 1; i >= 0; i-- {
			if m.Files[i].Status == StatusRunning {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
		m.updateActiveView()
	default:
		if node := m.selected(); node != nil {
			node.Term.Update(msg)
		}
	}
	return nil
}

func (m *Model) resize(width, height int) {
	listWidth := int(float64(width) * fileListWidthRatio)
	m.LogWidth = max(width-listWidth-logPaneBorderWidth, 1)

	headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
	m.LogHeight = max(height-headerHeight, 1)

	listHeader := lipgloss.Height(titleStyle.Render("FILES") + "\n\n")
	m.ListHeight = max(height-listHeader, 1)
	m.ensureVisible()

	for _, node := range m.Files {
		node.Term.SetWidth(m.LogWidth)
		node.Term.SetHeight(m.LogHeight)
	}
}

func (m *Model) ensureMaps() {
	if m.FileMap == nil {
		m.FileMap = make(map[string]*FileNode)
	}
	if m.SpanMap == nil {
		m.SpanMap = make(map[string]*FileNode)
	}
}

// addFile appends a pending row. Watch-style starts for files outside the
// plan land here too.
func (m *Model) addFile(name string) *FileNode {
	m.ensureMaps()

	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.SetWidth(m.LogWidth)
		term.SetHeight(m.LogHeight)
	}

	node := &FileNode{Name: name, Status: StatusPending, Term: term}
	m.Files = append(m.Files, node)
	m.FileMap[name] = node
	return node
}

func (m *Model) selectName(name string) {
	for i, f := range m.Files {
		if f.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
	m.updateActiveView()
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selected() *FileNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Files) {
		return m.Files[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	node := m.selected()
	if node == nil {
		return
	}
	m.ActiveName = node.Name
	if m.FollowMode {
		node.Term.ScrollToBottom()
	}
}
