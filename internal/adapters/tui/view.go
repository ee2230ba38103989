package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.fileList(),
		m.logPane(),
	)
}

func (m *Model) fileList() string {
	var s strings.Builder

	finished := m.Done + m.Cached + m.Failed
	title := fmt.Sprintf("FILES %d/%d", finished, len(m.Files))
	if m.Failed > 0 {
		s.WriteString(failureTitleStyle.Render(title))
	} else {
		s.WriteString(titleStyle.Render(title))
	}
	s.WriteString("\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Files))
	start := min(m.ListOffset, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.Files[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderRow(index int, file *FileNode) string {
	rowStyle := statusStyle(file.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if !file.Finished() {
			rowStyle = selectedStyle
		}
	}

	return cursor + rowStyle.Render(statusIcon(file.Status)+" "+file.Name)
}

func statusIcon(status FileStatus) string {
	switch status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusCached:
		return style.Skip
	case StatusError:
		return style.Cross
	default:
		return style.Circle
	}
}

func statusStyle(status FileStatus) lipgloss.Style {
	switch status {
	case StatusRunning:
		return fileRunningStyle
	case StatusDone:
		return fileDoneStyle
	case StatusCached:
		return fileCachedStyle
	case StatusError:
		return fileErrorStyle
	default:
		return filePendingStyle
	}
}

func (m *Model) logPane() string {
	node, ok := m.FileMap[m.ActiveName]
	if m.ActiveName == "" || !ok {
		return logStyle.Render(titleStyle.Render("LOGS (waiting...)"))
	}

	mode := " (following)"
	if !m.FollowMode {
		mode = " (manual)"
	}

	header := titleStyle.Render("LOGS: " + node.Name + mode)
	content := node.Term.View()
	if node.Err != nil {
		header = failureTitleStyle.Render("LOGS: " + node.Name + mode)
		content = lipgloss.JoinVertical(lipgloss.Left, content, fileErrorStyle.Render(node.Err.Error()))
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
