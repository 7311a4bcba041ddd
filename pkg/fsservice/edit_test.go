package fsservice

import (
	"os"
	"strings"
	"testing"
)

func TestApplyFileEditsLiteralMatch(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "literal.go", "package main\n\nfunc main() {}\n")

	result, err := service.ApplyFileEdits(path, []EditOperation{
		{OldText: "func main() {}", NewText: "func main() { println(\"hi\") }"},
	}, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Written {
		t.Fatal("expected edit to be written")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "println(\"hi\")") {
		t.Errorf("edit was not applied: %q", string(data))
	}
	if !strings.Contains(result.Diff, "```diff") {
		t.Errorf("expected fenced diff, got %q", result.Diff)
	}
}

func TestApplyFileEditsIndentationTolerant(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)

	source := "func Example() {\n\tfirst()\n\tsecond()\n}\n"
	path := writeTempFile(t, root, "tabs.go", source)

	// old_text uses spaces where the source uses tabs, but the trimmed
	// lines are identical, so this must match via the line-aware path.
	// Both lines sit at the same depth, so re-indentation is unambiguous.
	oldText := "  first()\n  second()"
	newText := "  first()\n  secondRenamed()"

	result, err := service.ApplyFileEdits(path, []EditOperation{
		{OldText: oldText, NewText: newText},
	}, false, "")
	if err != nil {
		t.Fatal("indentation-tolerant edit failed:", err)
	}
	if !result.Written {
		t.Fatal("expected edit to be written")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\tsecondRenamed()\n") {
		t.Errorf("expected tab indentation to be preserved, got %q", string(data))
	}
	if strings.Contains(string(data), "  secondRenamed") {
		t.Errorf("replacement kept pattern's space indentation instead of the buffer's tab: %q", string(data))
	}
}

func TestApplyFileEditsNoMatchLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	original := "unchanged content\n"
	path := writeTempFile(t, root, "untouched.txt", original)

	_, err := service.ApplyFileEdits(path, []EditOperation{
		{OldText: "does not exist anywhere", NewText: "replacement"},
	}, false, "")
	if err == nil {
		t.Fatal("expected NoMatch error")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("file was modified despite a failed edit: %q", string(data))
	}
}

func TestApplyFileEditsDryRunDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	original := "before\n"
	path := writeTempFile(t, root, "dry.txt", original)

	result, err := service.ApplyFileEdits(path, []EditOperation{
		{OldText: "before", NewText: "after"},
	}, true, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Written {
		t.Fatal("dry_run edit reported as written")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("dry_run modified the file: %q", string(data))
	}
}

func TestApplyFileEditsPreservesCRLF(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "crlf.txt", "alpha\r\nbeta\r\ngamma\r\n")

	_, err := service.ApplyFileEdits(path, []EditOperation{
		{OldText: "beta", NewText: "delta"},
	}, false, "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "alpha\r\ndelta\r\ngamma\r\n" {
		t.Errorf("CRLF line endings not preserved: %q", string(data))
	}
}
