package fsservice

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
)

const defaultMaxDepth = 20

// ignoreFileNames are the per-directory ignore files honored by the walker,
// in addition to global gitignore and .git/info/exclude.
var ignoreFileNames = []string{".gitignore", ".ignore"}

// WalkEntry is a single filtered filesystem entry produced by the walker.
type WalkEntry struct {
	// AbsPath is the entry's absolute path.
	AbsPath string
	// RelPath is AbsPath relative to the walk root, using forward slashes.
	RelPath string
	Info    os.FileInfo
	// IsSymlink is true if the entry itself (not a path component above it)
	// is a symbolic link. Symlinks are reported but never descended into.
	IsSymlink bool
}

// WalkOptions configures a single traversal.
type WalkOptions struct {
	// IncludeGlob is matched against the entry's base name when
	// MatchIncludeAgainstRelPath is false, or against RelPath when it is
	// true (search_files, content, AST, and dedup callers all set it).
	IncludeGlob                 string
	MatchIncludeAgainstRelPath  bool
	ExcludeGlobs                []string
	Extensions                  []string // lower-cased, without leading dot
	MinSize                     *int64
	MaxSize                     *int64
	MaxDepth                    int
	FollowLinks                 bool
	// RespectIgnoreFiles enables .gitignore/.ignore/.git/info/exclude
	// honoring and hidden-entry skipping. Its zero value (false) disables
	// both; every caller in this package sets it to true.
	RespectIgnoreFiles bool
}

// normalizeExcludeGlob applies the exclude-glob normalization rule from
// original_source/src/fs_service/search/glob_utils.rs: a pattern containing
// no glob metacharacters is wrapped as "*pat*", and a leading "/" is
// stripped so the pattern is always matched relative to the walk root.
func normalizeExcludeGlob(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "/")
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}
	return pattern
}

// ignoreSet is a cumulative ignore matcher for one directory, built by
// buildIgnoreSet from the nearest .gitignore/.ignore files found walking
// upward from root to dir, plus .git/info/exclude and any global gitignore
// configured for the user. Patterns are interpreted relative to the
// directory that defined them, matching git's own semantics closely enough
// for the walker's purposes.
type ignoreSet struct {
	matchers []*gitignore.GitIgnore
	bases    []string
}

func (s *ignoreSet) matches(absPath string, isDir bool) bool {
	for i, m := range s.matchers {
		rel, err := filepath.Rel(s.bases[i], absPath)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if isDir {
			if m.MatchesPath(rel + "/") {
				return true
			}
		}
		if m.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// buildIgnoreSet collects ignore files along the path from the filesystem
// root down to dirPath, in outer-to-inner order, plus global sources.
func buildIgnoreSet(dirPath string) *ignoreSet {
	set := &ignoreSet{}

	if home, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(home, ".config", "git", "ignore")
		if m, err := gitignore.CompileIgnoreFile(globalPath); err == nil {
			set.matchers = append(set.matchers, m)
			set.bases = append(set.bases, dirPath)
		}
	}

	var ancestors []string
	for d := dirPath; ; {
		ancestors = append([]string{d}, ancestors...)
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	for _, dir := range ancestors {
		if excludePath := filepath.Join(dir, ".git", "info", "exclude"); fileExists(excludePath) {
			if m, err := gitignore.CompileIgnoreFile(excludePath); err == nil {
				set.matchers = append(set.matchers, m)
				set.bases = append(set.bases, dir)
			}
		}
		for _, name := range ignoreFileNames {
			p := filepath.Join(dir, name)
			if fileExists(p) {
				if m, err := gitignore.CompileIgnoreFile(p); err == nil {
					set.matchers = append(set.matchers, m)
					set.bases = append(set.bases, dir)
				}
			}
		}
	}

	return set
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// matchesExtension reports whether name's extension is in extensions
// (lower-cased, without a leading dot). Entries without an extension are
// excluded when the filter is non-empty.
func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	ext = strings.ToLower(ext)
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// matchesSize applies the [min,max] size window to regular files only, per
// §4.7's referenced predicate in §4.2.
func matchesSize(info os.FileInfo, min, max *int64) bool {
	if !info.Mode().IsRegular() {
		return true
	}
	size := info.Size()
	if min != nil && size < *min {
		return false
	}
	if max != nil && size > *max {
		return false
	}
	return true
}

// passesFilters applies every non-ignore-file filter to entry: include
// glob, exclude globs, extension whitelist, and size window. The root entry
// itself is never emitted, per §4.2.
func passesFilters(entry WalkEntry, opts WalkOptions) bool {
	includeTarget := filepath.Base(entry.AbsPath)
	if opts.MatchIncludeAgainstRelPath {
		includeTarget = entry.RelPath
	}
	include := opts.IncludeGlob
	if include == "" {
		include = "**/*"
	}
	matched, err := doublestar.Match(strings.ToLower(include), strings.ToLower(includeTarget))
	if err != nil || !matched {
		return false
	}

	for _, raw := range opts.ExcludeGlobs {
		pattern := normalizeExcludeGlob(raw)
		if m, err := doublestar.Match(pattern, entry.RelPath); err == nil && m {
			return false
		}
		if m, err := doublestar.Match(pattern, entry.AbsPath); err == nil && m {
			return false
		}
	}

	if !entry.Info.IsDir() && !matchesExtension(filepath.Base(entry.AbsPath), opts.Extensions) {
		return false
	}

	if !matchesSize(entry.Info, opts.MinSize, opts.MaxSize) {
		return false
	}

	return true
}

// listFilteredChildren lists dir's immediate children relative to root,
// applying hidden-entry and ignore-file rules (ignoreFor supplies the
// ignore set for dir, letting callers cache across repeated directories).
// It applies none of the include/exclude glob, extension, or size filters;
// those are layered on by passesFilters for callers that want them.
func listFilteredChildren(root ValidatedPath, dir string, respectIgnoreFiles bool, ignoreFor func(string) *ignoreSet) ([]WalkEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil // per-entry I/O failures are soft skips
	}

	var set *ignoreSet
	if respectIgnoreFiles {
		set = ignoreFor(dir)
	}

	var children []WalkEntry
	for _, de := range entries {
		name := de.Name()
		absPath := filepath.Join(dir, name)
		relPath, _ := filepath.Rel(root.Path, absPath)
		relPath = filepath.ToSlash(relPath)

		if respectIgnoreFiles && strings.HasPrefix(name, ".") {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0

		if respectIgnoreFiles && set != nil && set.matches(absPath, de.IsDir()) {
			continue
		}

		children = append(children, WalkEntry{AbsPath: absPath, RelPath: relPath, Info: info, IsSymlink: isSymlink})
	}
	return children, nil
}

// WalkOneLevel lists dir's direct children, applying the same ignore-file
// and hidden-entry rules as a full recursive walk, without descending. It's
// the single-level primitive DirectoryTree uses to build a nested tree one
// directory at a time, so directory listings share the same ignore
// semantics as every other C2 consumer instead of duplicating them.
func WalkOneLevel(root ValidatedPath, dir string, opts WalkOptions) ([]WalkEntry, error) {
	return listFilteredChildren(root, dir, opts.RespectIgnoreFiles, buildIgnoreSet)
}

// walkCore performs the shared traversal logic and invokes emit for every
// entry that survives ignore-file and hidden-file rules. emit returning
// false (for directories) suppresses descent into that directory; it always
// receives every non-suppressed entry regardless of include/exclude/size
// filters, which are applied by callers via passesFilters so that
// directories can still be traversed even when they themselves don't match
// the include glob.
func walkCore(root ValidatedPath, opts WalkOptions, emit func(WalkEntry) (descend bool)) error {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	ignoreCache := map[string]*ignoreSet{}
	var ignoreFor func(dir string) *ignoreSet
	ignoreFor = func(dir string) *ignoreSet {
		if s, ok := ignoreCache[dir]; ok {
			return s
		}
		s := buildIgnoreSet(dir)
		ignoreCache[dir] = s
		return s
	}

	var recurse func(dir string, depth int) error
	recurse = func(dir string, depth int) error {
		children, err := listFilteredChildren(root, dir, opts.RespectIgnoreFiles, ignoreFor)
		if err != nil {
			return nil
		}

		for _, walkEntry := range children {
			descend := emit(walkEntry)

			if walkEntry.IsSymlink {
				continue // never descend into symlinks
			}
			if walkEntry.Info.IsDir() && descend && depth+1 <= maxDepth {
				if err := recurse(walkEntry.AbsPath, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return recurse(root.Path, 1)
}

// WalkSequential drains the entire filtered traversal into a slice for
// single-threaded consumption.
func WalkSequential(root ValidatedPath, opts WalkOptions) ([]WalkEntry, error) {
	var results []WalkEntry
	err := walkCore(root, opts, func(entry WalkEntry) bool {
		if passesFilters(entry, opts) {
			results = append(results, entry)
		}
		return true
	})
	return results, err
}

// WalkAction is the decision a parallel callback returns for each entry.
type WalkAction int

const (
	WalkContinue WalkAction = iota
	WalkSkip
	WalkQuit
)

// WalkParallel collects the filtered entry set sequentially (directory
// traversal itself is inherently ordered and cheap) and then fans the
// resulting entries out across a work-stealing pool via errgroup, matching
// the teacher's reliance on golang.org/x/sync/errgroup for bounded
// concurrent fan-out. callback is invoked once per entry; a WalkQuit abandons
// any entries not yet started, without cancelling those already running.
func WalkParallel(root ValidatedPath, opts WalkOptions, callback func(WalkEntry) WalkAction) error {
	entries, err := WalkSequential(root, opts)
	if err != nil {
		return err
	}

	var quit atomic.Bool
	var group errgroup.Group
	group.SetLimit(parallelism())

	for _, entry := range entries {
		entry := entry
		group.Go(func() error {
			if quit.Load() {
				return nil
			}
			switch callback(entry) {
			case WalkQuit:
				quit.Store(true)
			case WalkSkip, WalkContinue:
			}
			return nil
		})
	}

	return group.Wait()
}

// parallelism returns the worker count for parallel walker fan-out.
func parallelism() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// invalidPattern surfaces a glob compile failure as a user-visible error,
// used by callers that validate patterns up front (e.g. search_files).
func invalidPattern(pattern string, err error) error {
	return fserrors.InvalidPattern(pattern, err)
}
