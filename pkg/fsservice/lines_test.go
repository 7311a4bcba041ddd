package fsservice

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal("unable to write temp file:", err)
	}
	return path
}

func intPtr(v int) *int { return &v }

func TestReadFileLinesHeadThenTail(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	content := "line1\nline2\nline3\nline4\nline5\nline6\nline7\nline8\nline9\nline10"
	path := writeTempFile(t, root, "lines.txt", content)

	head, err := service.ReadFileLines(path, 0, intPtr(3), false)
	if err != nil {
		t.Fatal(err)
	}
	if head != "line1\nline2\nline3\n" {
		t.Errorf("unexpected head read: %q", head)
	}

	tail, err := service.ReadFileLines(path, 0, intPtr(3), true)
	if err != nil {
		t.Fatal(err)
	}
	if tail != "line8\nline9\nline10" {
		t.Errorf("unexpected tail read: %q", tail)
	}
}

func TestReadFileLinesTrailingNewlinePreservedFromEnd(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	path := writeTempFile(t, root, "trailing.txt", "line1\nline2\nline3\n")

	result, err := service.ReadFileLines(path, 0, intPtr(2), true)
	if err != nil {
		t.Fatal(err)
	}
	if result != "line2\nline3\n" {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestReadFileLinesOffsetBeyondEndIsEmpty(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "short.txt", "only one line\n")

	for _, fromEnd := range []bool{false, true} {
		result, err := service.ReadFileLines(path, 100, intPtr(5), fromEnd)
		if err != nil {
			t.Fatal(err)
		}
		if result != "" {
			t.Errorf("expected empty result for offset beyond line count (fromEnd=%v), got %q", fromEnd, result)
		}
	}
}

func TestReadFileLinesLimitZero(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "any.txt", "a\nb\nc\n")

	result, err := service.ReadFileLines(path, 0, intPtr(0), false)
	if err != nil {
		t.Fatal(err)
	}
	if result != "" {
		t.Errorf("expected empty string for limit=0, got %q", result)
	}
}

func TestReadFileLinesEmptyFile(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "empty.txt", "")

	result, err := service.ReadFileLines(path, 0, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if result != "" {
		t.Errorf("expected empty result for empty file, got %q", result)
	}
}

func TestReadFileLinesFromStartMatchesRawBytes(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	content := "alpha\nbeta\ngamma\n"
	path := writeTempFile(t, root, "verbatim.txt", content)

	result, err := service.ReadFileLines(path, 0, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if result != content {
		t.Errorf("expected verbatim content, got %q", result)
	}
}
