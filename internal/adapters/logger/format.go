package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message and metadata
// without the rest of the chain. This matches go.trai.ch/zerr (v0.3.0+).
// Other errors fall back to standard handling.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one link of an unwrapped error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries traverses the error chain from the outside in. Each
// zerr error contributes its own message and metadata and the walk continues.
// The first foreign error contributes its full Error() text and ends it.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}
		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: m.Metadata()})
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as a hierarchical report. The first
// entry is the headline, the remaining ones appear under a "Caused by:"
// header. Metadata is listed beneath its entry with keys sorted.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = append(lines, metadataLines(entry.Metadata, "       ")...)
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = append(lines, metadataLines(entry.Metadata, "      ")...)
	}
	return strings.Join(lines, "\n")
}

func metadataLines(metadata map[string]any, indent string) []string {
	if len(metadata) == 0 {
		return nil
	}
	lines := make([]string, 0, len(metadata))
	for _, key := range slices.Sorted(maps.Keys(metadata)) {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, metadata[key]))
	}
	return lines
}
