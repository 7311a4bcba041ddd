package fsservice

import (
	"strings"
	"testing"
)

func TestGetFileStatsPopulatesTimestamps(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "a.txt", "hello")

	info, err := service.GetFileStats(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size != 5 {
		t.Errorf("expected size 5, got %d", info.Size)
	}
	if info.Modified.IsZero() {
		t.Error("expected Modified to be populated")
	}
	if !info.IsFile || info.IsDirectory {
		t.Errorf("expected a regular file, got IsFile=%v IsDirectory=%v", info.IsFile, info.IsDirectory)
	}
	if info.Permissions == "" {
		t.Error("expected a non-empty Permissions string")
	}
}

func TestFileInfoRenderProducesTextBlock(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "b.txt", "x")

	info, err := service.GetFileStats(path)
	if err != nil {
		t.Fatal(err)
	}

	rendered := info.Render()
	for _, line := range []string{"size: 1", "isDirectory: false", "isFile: true", "modified: "} {
		if !strings.Contains(rendered, line) {
			t.Errorf("expected rendered output to contain %q, got:\n%s", line, rendered)
		}
	}
}

func TestFileInfoRenderEmptyForZeroTime(t *testing.T) {
	info := FileInfo{Size: 0, IsDirectory: true, Permissions: "0755"}
	rendered := info.Render()
	if !strings.Contains(rendered, "created: \n") {
		t.Errorf("expected a zero Created to render as an empty value, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "accessed: \n") {
		t.Errorf("expected a zero Accessed to render as an empty value, got:\n%s", rendered)
	}
}
