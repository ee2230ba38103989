// Package detector chooses between the interactive and the linear renderer.
package detector

import (
	"os"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear renderer.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment is the view of the process the detection depends on.
type Environment struct {
	IsTerminal func() bool
	Getenv     func(string) string
}

// ProcessEnvironment inspects stdout and the real environment.
func ProcessEnvironment() Environment {
	return Environment{
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		Getenv:     os.Getenv,
	}
}

// Detect returns ModeLinear when stdout is not a TTY or CI is set, ModeTUI otherwise.
func (e Environment) Detect() OutputMode {
	ci := e.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModeLinear
	}
	if !e.IsTerminal() {
		return ModeLinear
	}
	return ModeTUI
}

// DetectEnvironment returns the recommended output mode for the current process.
func DetectEnvironment() OutputMode {
	return ProcessEnvironment().Detect()
}

// ParseMode validates a --output-mode value.
// "ci" is accepted as an alias for "linear".
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(domain.ErrUnknownOutputMode, "invalid --output-mode"), "mode", flag)
	}
}

// ResolveMode applies the user's choice to the auto-detected mode.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
