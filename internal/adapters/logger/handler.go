package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// PrettyHandler is a slog.Handler producing one colored line per record.
// Warnings and errors carry the shared status icons; attributes follow the
// message as key=value pairs, with group names joined by dots.
type PrettyHandler struct {
	out    *termenv.Output
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []string
	groups []string
}

// NewPrettyHandler creates a PrettyHandler writing to w (stderr when nil).
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		mu:    &sync.Mutex{},
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = style.Cross + " " + msg
		color = h.out.Color(string(style.Red))
	case r.Level >= slog.LevelWarn:
		msg = style.Warning + " " + msg
		color = h.out.Color(string(style.Yellow))
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, h.groups, attr)
		return true
	})

	line := h.out.String(msg)
	if color != nil {
		line = line.Foreground(color)
	}
	text := line.String()
	if len(parts) > 0 {
		text += " " + h.out.String(strings.Join(parts, " ")).Foreground(h.out.Color(string(style.Slate))).String()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(text + "\n")
	return err
}

// WithAttrs returns a Handler that prefixes every record with attrs.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		next.attrs = appendAttr(next.attrs, h.groups, attr)
	}
	return next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		out:    h.out,
		mu:     h.mu,
		level:  h.level,
		attrs:  append([]string(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// appendAttr renders attr as key=value, expanding groups into dotted keys.
func appendAttr(parts, groups []string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}

	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = append(append([]string(nil), groups...), attr.Key)
		}
		for _, child := range attr.Value.Group() {
			parts = appendAttr(parts, nested, child)
		}
		return parts
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(parts, key+"="+attr.Value.String())
}
