package fsservice

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultSnippetBackward  = 30
	defaultSnippetMaxLength = 200
)

// extractSnippet implements the pure, shared snippet-extraction algorithm
// from §4.3: it trims the line, locates a UTF-8-safe window around
// matchStart, and elides with "..." on whichever side was truncated.
func extractSnippet(line string, matchStart, backward, maxLength int) string {
	trimmed := strings.TrimLeft(line, " \t")
	droppedWS := len(line) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t")

	relMatchStart := matchStart - droppedWS
	if relMatchStart < 0 {
		relMatchStart = 0
	}
	if relMatchStart > len(trimmed) {
		relMatchStart = len(trimmed)
	}

	desiredStart := relMatchStart - backward
	if desiredStart < 0 {
		desiredStart = 0
	}

	start := desiredStart
	for start < len(trimmed) && !utf8.RuneStart(trimmed[start]) {
		start++
	}

	end := start
	count := 0
	for end < len(trimmed) && count < maxLength {
		_, size := utf8.DecodeRuneInString(trimmed[end:])
		end += size
		count++
	}
	for end < len(trimmed) && !utf8.RuneStart(trimmed[end]) {
		end++
	}

	snippet := trimmed[start:end]

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(snippet)
	if end < len(trimmed) {
		b.WriteString("...")
	}
	return b.String()
}
