package fsservice

import (
	"testing"
)

func TestFindDuplicateFiles(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	writeTempFile(t, root, "a.txt", "same content")
	writeTempFile(t, root, "b.txt", "same content")
	writeTempFile(t, root, "c.txt", "different")

	groups, err := service.FindDuplicateFiles(FileSearchOptions{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected exactly one duplicate group, got %d", len(groups))
	}
	if len(groups[0].Paths) != 2 {
		t.Fatalf("expected duplicate group of size 2, got %d", len(groups[0].Paths))
	}
}

func TestFindDuplicateFilesNoneWhenAllDistinct(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	writeTempFile(t, root, "a.txt", "one")
	writeTempFile(t, root, "b.txt", "two")

	groups, err := service.FindDuplicateFiles(FileSearchOptions{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no duplicate groups, got %d", len(groups))
	}
}
