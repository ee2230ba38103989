// Package style holds the forge palette and status icons shared by the
// logger, the renderers and the build report.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember  = lipgloss.Color("#F97316")
	Slate  = lipgloss.Color("#667085")
	Ash    = lipgloss.Color("#98A2B3")
	White  = lipgloss.Color("#FFFFFF")
	Coal   = lipgloss.Color("#101828")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Cyan   = lipgloss.Color("#06AED4")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Skip    = "~"
	Arrow   = "→"
	Dot     = "●"
	Circle  = "○"
)

// Status styles used wherever a file outcome is printed.
var (
	Done    = lipgloss.NewStyle().Foreground(Green)
	Failed  = lipgloss.NewStyle().Foreground(Red)
	Cached  = lipgloss.NewStyle().Foreground(Ash)
	Heading = lipgloss.NewStyle().Foreground(Ember).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Slate)
)
