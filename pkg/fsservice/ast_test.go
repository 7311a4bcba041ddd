package fsservice

import (
	"testing"
)

func TestAstSearchFindsFunctionDeclaration(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "sample.go", "package main\n\nfunc Add(a, b int) int {\n\treturn a + b\n}\n\nfunc Sub(a, b int) int {\n\treturn a - b\n}\n")

	matches, err := service.AstSearch("func Add(a, b int) int {\n\treturn a + b\n}", path, "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(matches))
	}
	if matches[0].LineNumber != 3 {
		t.Errorf("expected match starting on line 3, got %d", matches[0].LineNumber)
	}
}

func TestAstSearchWildcardIdentifierMatchesAnySubtree(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "wild.go", "package main\n\nfunc One() int {\n\treturn 1\n}\n\nfunc Two() int {\n\treturn 2\n}\n")

	matches, err := service.AstSearch("func NAME() int {\n\treturn VALUE\n}", path, "go")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected wildcard pattern to match both functions, got %d", len(matches))
	}
}

func TestAstSearchRejectsUnsupportedLanguage(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "data.json", `{"a": 1}`)

	if _, err := service.AstSearch("1", path, "json"); err == nil {
		t.Fatal("expected json to be rejected as an unsupported language (no grammar binding)")
	}
}

func TestAstSearchRejectsUnknownLanguageAlias(t *testing.T) {
	root := t.TempDir()
	service := newTestService(t, root)
	path := writeTempFile(t, root, "a.go", "package main\n")

	if _, err := service.AstSearch("x", path, "not-a-real-language"); err == nil {
		t.Fatal("expected an entirely unknown language alias to be rejected")
	}
}

func TestResolveLanguageAliases(t *testing.T) {
	tag, loader, known := resolveLanguage("TS")
	if !known || tag != "typescript" || loader == nil {
		t.Errorf("expected 'TS' to resolve to typescript with a loader, got tag=%q known=%v loader=%v", tag, known, loader)
	}

	tag, loader, known = resolveLanguage("json")
	if !known || tag != "json" || loader != nil {
		t.Errorf("expected 'json' to be a known alias with no loader, got tag=%q known=%v loader=%v", tag, known, loader)
	}

	_, _, known = resolveLanguage("cobol")
	if known {
		t.Error("expected 'cobol' to be entirely unknown")
	}
}
