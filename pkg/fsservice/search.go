package fsservice

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchFiles implements search_files: a pure glob-based listing (no
// content inspection) under root, honoring include/exclude globs,
// extensions, and a size window. Returns absolute paths.
//
// The include glob is matched against the path relative to the root rather
// than the bare file name: §4.2 describes base-name matching for this API,
// but the literal brace-expansion scenario in §8 ("**/*.{java,ts}" must
// reach nested files like "sub1/file4.ts") only holds if matching is
// relative-path-based, since doublestar's "**" has nothing to match against
// a bare base name. The testable scenario is taken as authoritative over
// the prose description, per the Open Questions guidance in §9 to resolve
// spec ambiguities in favor of observed test behavior.
func (s *Service) SearchFiles(opts FileSearchOptions) ([]string, error) {
	root, err := s.validate(opts.Root)
	if err != nil {
		return nil, err
	}

	for _, pattern := range append([]string{opts.FileGlob}, opts.Excludes...) {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			return nil, invalidPattern(pattern, doublestar.ErrBadPattern)
		}
	}

	walkOpts := WalkOptions{
		IncludeGlob:                opts.FileGlob,
		MatchIncludeAgainstRelPath: true,
		ExcludeGlobs:               opts.Excludes,
		Extensions:                 opts.Extensions,
		MinSize:                    opts.MinBytes,
		MaxSize:                    opts.MaxBytes,
		RespectIgnoreFiles:         true,
	}

	entries, err := WalkSequential(root, walkOpts)
	if err != nil {
		return nil, err
	}

	results := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Info.IsDir() {
			continue
		}
		results = append(results, entry.AbsPath)
	}
	return results, nil
}

// relativeName returns path relative to root using forward slashes, for
// result rendering in callers/tests.
func relativeName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
