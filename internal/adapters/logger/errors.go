package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. zerr links contribute their own
// message and metadata; the first foreign error contributes its full text and ends the walk.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		var metadata map[string]any
		if md, ok := current.(metadataer); ok {
			metadata = md.Metadata()
		}

		// Anonymous links only carry metadata for their neighbour.
		if m.Message() == "" {
			if len(entries) > 0 {
				last := &entries[len(entries)-1]
				if last.Metadata == nil {
					last.Metadata = map[string]any{}
				}
				maps.Copy(last.Metadata, metadata)
			} else if len(metadata) > 0 {
				if pending == nil {
					pending = map[string]any{}
				}
				maps.Copy(pending, metadata)
			}
		} else {
			if pending != nil {
				maps.Copy(pending, metadata)
				metadata, pending = pending, nil
			}
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: metadata})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as a headline followed by an indented
// "Caused by:" list. Metadata keys are printed sorted below their message.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		if i == 0 {
			head, indent = "Error: ", "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, indent = "    → ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
