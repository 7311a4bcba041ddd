package fsservice

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirectoryTreeNestedStructure(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	writeTempFile(t, root, "a.txt", "x")
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTempFile(t, root, "sub/b.txt", "x")

	tree, truncated, err := service.DirectoryTree(root, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if truncated {
		t.Error("did not expect maxDepth truncation")
	}
	if len(tree) != 2 {
		t.Fatalf("expected 2 top-level entries, got %d", len(tree))
	}
	if tree[0].Name != "a.txt" {
		t.Errorf("expected a.txt first, got %q", tree[0].Name)
	}
	if tree[1].Name != "sub/" {
		t.Errorf("expected sub/ with trailing slash, got %q", tree[1].Name)
	}
	if len(tree[1].Children) != 1 || tree[1].Children[0].Name != "b.txt" {
		t.Errorf("expected sub/ to contain b.txt, got %+v", tree[1].Children)
	}
}

func TestDirectoryTreeMaxFilesCaps(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	for i := 0; i < 5; i++ {
		writeTempFile(t, root, string(rune('a'+i))+".txt", "x")
	}

	tree, _, err := service.DirectoryTree(root, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 2 {
		t.Fatalf("expected maxFiles to cap output at 2, got %d", len(tree))
	}
}

func TestCalculateDirectorySizeSumsRegularFiles(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	writeTempFile(t, root, "a.txt", "12345")
	writeTempFile(t, root, "b.txt", "1234567890")

	size, err := service.CalculateDirectorySize(root)
	if err != nil {
		t.Fatal(err)
	}
	if size != 15 {
		t.Errorf("expected 15 bytes total, got %d", size)
	}
}

func TestFindEmptyDirectoriesIgnoresOSNoise(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "noisy"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTempFile(t, root, "noisy/.DS_Store", "x")
	if err := os.MkdirAll(filepath.Join(root, "full"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTempFile(t, root, "full/real.txt", "x")

	empties, err := service.FindEmptyDirectories(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	found := map[string]bool{}
	for _, e := range empties {
		found[relativeName(root, e)] = true
	}
	if !found["empty"] {
		t.Error("expected 'empty' to be reported as empty")
	}
	if !found["noisy"] {
		t.Error("expected 'noisy' (only OS metadata noise) to be reported as empty")
	}
	if found["full"] {
		t.Error("'full' contains a real file and should not be reported as empty")
	}
}

func TestListDirectoryWithSizes(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	writeTempFile(t, root, "f.txt", "12345")
	if err := os.MkdirAll(filepath.Join(root, "d"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := service.ListDirectoryWithSizes(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var sawFile, sawDir bool
	for _, e := range entries {
		switch e.Name {
		case "f.txt":
			sawFile = true
			if e.Size != 5 {
				t.Errorf("expected f.txt size 5, got %d", e.Size)
			}
			if e.IsDirectory {
				t.Error("f.txt should not be a directory")
			}
		case "d":
			sawDir = true
			if !e.IsDirectory {
				t.Error("d should be a directory")
			}
		}
	}
	if !sawFile || !sawDir {
		t.Fatalf("expected both f.txt and d in results, got %+v", entries)
	}
}
