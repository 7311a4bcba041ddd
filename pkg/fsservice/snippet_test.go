package fsservice

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractSnippetTrimsAndElides(t *testing.T) {
	line := "     match here with spaces    "
	snippet := extractSnippet(line, 5, 5, 10)

	if !utf8.ValidString(snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", snippet)
	}
	if strings.HasPrefix(snippet, " ") {
		t.Errorf("snippet retained leading whitespace: %q", snippet)
	}
	if !strings.Contains(snippet, "match") {
		t.Errorf("snippet does not contain the match: %q", snippet)
	}
	if !(strings.HasPrefix(snippet, "...") || strings.HasPrefix(snippet, "m")) {
		t.Errorf("snippet should start with an elision marker or the match itself: %q", snippet)
	}
}

func TestExtractSnippetNeverSplitsMultibyteCodepoint(t *testing.T) {
	// The curly apostrophe '’' is 3 bytes in UTF-8 (bytes 2-4 of the line);
	// a backward window of 6 from the match at byte 9 lands on byte 3, inside
	// it, to exercise the advance-to-boundary logic.
	line := "it" + "’" + "s a match here"
	snippet := extractSnippet(line, len("it’s a "), 6, 4)

	if !utf8.ValidString(snippet) {
		t.Fatalf("snippet split a multibyte codepoint: %q", snippet)
	}
}

func TestExtractSnippetNoTruncationOmitsEllipsis(t *testing.T) {
	line := "short"
	snippet := extractSnippet(line, 0, 30, 200)
	if snippet != "short" {
		t.Errorf("expected untruncated snippet without ellipsis, got %q", snippet)
	}
}
