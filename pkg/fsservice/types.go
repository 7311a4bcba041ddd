// Package fsservice implements the sandboxed filesystem core that backs a
// tool-calling server: allow-list enforcement, filtered parallel traversal,
// content and structural search, line-addressed reads, an indentation-aware
// edit engine, duplicate detection, and directory tree/stats reporting.
//
// Every exported operation accepts or produces a ValidatedPath obtained by
// passing candidate input through (*Service).validate, grounding the design
// in the teacher's pattern of never touching the filesystem without first
// normalizing and containment-checking a path (see pkg/filesystem.Normalize).
package fsservice

import (
	"time"
)

// ValidatedPath is an absolute path that has been proven to lie within at
// least one AllowList root. It carries no methods; its existence is the
// proof that validation occurred, matching the "no bytes touched without a
// ValidatedPath" invariant.
type ValidatedPath struct {
	// Path is the canonicalized absolute path.
	Path string
}

// FileInfo describes metadata for a single filesystem entry.
type FileInfo struct {
	Size        int64
	Created     time.Time
	Modified    time.Time
	Accessed    time.Time
	IsDirectory bool
	IsFile      bool
	// Permissions is the rendered permission string: octal ("0644") on
	// POSIX, or a "[d-][rw]"-style flag pair elsewhere.
	Permissions string
}

// ContentMatch is a single line-level hit from a content search.
type ContentMatch struct {
	FilePath    string
	LineNumber  int
	StartByte   int
	Snippet     string
}

// AstMatch is a single structural hit from an AST search.
type AstMatch struct {
	FilePath    string
	MatchedCode string
	LineNumber  int
	Column      int
	ByteStart   int
	ByteEnd     int
}

// EditOperation describes a single find-and-replace step in a patch.
type EditOperation struct {
	OldText string
	NewText string
}

// DuplicateGroup is a set of paths (size >= 2) whose files share identical
// content.
type DuplicateGroup struct {
	Paths []string
}

// TreeNode is a single entry in a directory_tree result. Children is nil for
// files and symlinks, and for directories whose traversal was suppressed by
// max_files or max_depth.
type TreeNode struct {
	// Name is the entry's base name, suffixed with "/" for real directories
	// or "@" for symlinks.
	Name     string      `json:"n"`
	Children []*TreeNode `json:"c,omitempty"`
}

// DirEntry is a single entry returned by list_directory / list_directory_with_sizes.
type DirEntry struct {
	Name        string
	IsDirectory bool
	Size        int64
}
