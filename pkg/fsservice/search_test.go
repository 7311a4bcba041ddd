package fsservice

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestSearchFilesBraceExpansionAcrossNestedDirs(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	files := []string{
		"file1.ts", "file2.java", "file3.js",
		"sub1/file4.ts", "sub1/file5.java", "sub1/file6.js",
		"sub2/nested/file7.ts", "sub2/nested/file8.rs",
	}
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := service.SearchFiles(FileSearchOptions{
		Root:     root,
		FileGlob: "**/*.{java,ts}",
		Excludes: []string{"/node_modules/", "/.git/", "/target/**"},
	})
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, 0, len(results))
	for _, abs := range results {
		names = append(names, relativeName(root, abs))
	}
	sort.Strings(names)

	expected := []string{"file1.ts", "file2.java", "sub1/file4.ts", "sub1/file5.java", "sub2/nested/file7.ts"}
	sort.Strings(expected)

	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
			break
		}
	}
}

func TestSearchFilesExtensionFilter(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	writeTempFile(t, root, "a.go", "x")
	writeTempFile(t, root, "b.md", "x")

	results, err := service.SearchFiles(FileSearchOptions{Root: root, Extensions: []string{"go"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || relativeName(root, results[0]) != "a.go" {
		t.Fatalf("expected only a.go, got %v", results)
	}
}

func TestSearchFilesSizeWindow(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	writeTempFile(t, root, "small.txt", "x")
	writeTempFile(t, root, "big.txt", "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")

	min := int64(10)
	results, err := service.SearchFiles(FileSearchOptions{Root: root, MinBytes: &min})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || relativeName(root, results[0]) != "big.txt" {
		t.Fatalf("expected only big.txt, got %v", results)
	}
}
