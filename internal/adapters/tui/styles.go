package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

var (
	filePendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	fileRunningStyle = lipgloss.NewStyle().
				Foreground(style.Ember).
				Bold(true)

	fileDoneStyle = style.Done

	fileErrorStyle = style.Failed

	fileCachedStyle = style.Cached.Faint(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Ember).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Ember).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			MarginRight(1)

	logStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Slate).
			PaddingLeft(1)
)
