// Package output builds termenv outputs with one color policy for the whole CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the profile for interactive terminals.
// NO_COLOR forces Ascii; otherwise the terminal is asked.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the profile for CI logs and other non-interactive sinks.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates an output on w using ColorProfile. A nil w means stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile creates an output on w with the profile chosen by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
