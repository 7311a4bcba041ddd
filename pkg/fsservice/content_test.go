package fsservice

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContentSearchFindsMatch(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "a.go", "package main\n\nfunc Greet() string {\n\treturn \"hello\"\n}\n")

	matches, err := service.ContentSearch("hello", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(matches))
	}
	if matches[0].LineNumber != 4 {
		t.Errorf("expected match on line 4, got %d", matches[0].LineNumber)
	}
}

func TestContentSearchStopsAtBinaryNul(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	data := append([]byte("needle on line one\n"), 0x00, 'x', '\n')
	data = append(data, []byte("needle on line three\n")...)
	path := filepath.Join(root, "bin.dat")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	matches, err := service.ContentSearch("needle", path, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected search to stop at the NUL byte, got %d matches", len(matches))
	}
}

func TestSearchFilesContentAcrossFiles(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	writeTempFile(t, root, "one.go", "needle\n")
	writeTempFile(t, root, "two.go", "nothing here\n")
	writeTempFile(t, root, "three.go", "needle again\n")

	matches, err := service.SearchFilesContent(FileSearchOptions{Root: root, FileGlob: "**/*.go"}, "needle", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches across files, got %d", len(matches))
	}
}
