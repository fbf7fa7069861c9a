package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager matches errors that report their own message without the chain,
// like zerr.Error. Other errors fall back to Error().
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain as shown to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens err into one entry per layer.
//
// A zerr layer with an empty message only carries metadata; that metadata is
// attached to the next entry. For joined errors every branch is collected in
// order, so errors.Join(sentinel, cause) reads as "sentinel, caused by cause".
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		switch e := current.(type) {
		case messager:
			if e.Message() == "" {
				pending = mergeMetadata(pending, e.Metadata())
				current = errors.Unwrap(current)
				continue
			}
			entries = append(entries, ErrorEntry{
				Message:  e.Message(),
				Metadata: mergeMetadata(e.Metadata(), pending),
			})
			pending = nil
			current = errors.Unwrap(current)

		case interface{ Unwrap() []error }:
			branches := e.Unwrap()
			if len(branches) == 0 {
				current = nil
				continue
			}
			for _, branch := range branches[:len(branches)-1] {
				sub := collectErrorEntries(branch)
				if len(sub) > 0 && pending != nil {
					sub[0].Metadata = mergeMetadata(sub[0].Metadata, pending)
					pending = nil
				}
				entries = append(entries, sub...)
			}
			current = branches[len(branches)-1]

		default:
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			pending = nil
			current = nil
		}
	}

	return entries
}

func mergeMetadata(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// formatErrorEntries renders entries as "Error: ..." followed by a
// "Caused by:" list. Metadata keys are sorted.
func formatErrorEntries(entries []ErrorEntry) string {
	lines := make([]string, 0, len(entries)*2)

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		head, cont, meta := "Error: ", "       ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, cont, meta = "    → ", "      ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, cont+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", meta, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
