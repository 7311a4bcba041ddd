package fsservice

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/vaultfs/vaultfs/pkg/comparison"
	"github.com/vaultfs/vaultfs/pkg/fserrors"
	"github.com/vaultfs/vaultfs/pkg/filesystem"
)

// AllowList is an immutable, ordered sequence of absolute directory roots,
// each tilde-expanded, made absolute, and cleaned by filesystem.Normalize.
// Symlinks inside a root's own path are not resolved, so a root that
// contains one does not match candidates in their canonical form. Readers
// obtain one via (*Service).allowList.load() and hold it for the duration
// of a single validation; writers replace it
// wholesale via update_allowed_paths. This mirrors the teacher's read-mostly
// shared-state pattern (an atomic.Value holding an immutable snapshot,
// rather than a mutex guarding a mutable slice).
type AllowList struct {
	roots []string
}

// contains reports whether candidate (already absolute and cleaned) lies at
// or beneath one of the allow-list roots. Comparison is case-sensitive on
// POSIX and case-insensitive on Windows, per the platform rule in §4.1.
func (a *AllowList) contains(candidate string) bool {
	for _, root := range a.roots {
		if pathHasPrefix(candidate, root) {
			return true
		}
	}
	return false
}

// pathHasPrefix reports whether candidate is root itself, or a descendant of
// root, using platform-appropriate case sensitivity.
func pathHasPrefix(candidate, root string) bool {
	c, r := candidate, root
	if runtime.GOOS == "windows" {
		c = strings.ToLower(c)
		r = strings.ToLower(r)
	}
	if c == r {
		return true
	}
	if !strings.HasSuffix(r, string(filepath.Separator)) {
		r += string(filepath.Separator)
	}
	return strings.HasPrefix(c, r)
}

// allowListSnapshot is the atomic cell holding the current *AllowList.
type allowListSnapshot struct {
	value atomic.Value
}

func newAllowListSnapshot(roots []string) *allowListSnapshot {
	s := &allowListSnapshot{}
	s.value.Store(&AllowList{roots: append([]string(nil), roots...)})
	return s
}

func (s *allowListSnapshot) load() *AllowList {
	return s.value.Load().(*AllowList)
}

func (s *allowListSnapshot) store(roots []string) {
	s.value.Store(&AllowList{roots: append([]string(nil), roots...)})
}

// AllowedDirectories returns the current allow-list roots.
func (s *Service) AllowedDirectories() []string {
	snapshot := s.allowList.load()
	result := make([]string, len(snapshot.roots))
	copy(result, snapshot.roots)
	return result
}

// UpdateAllowedPaths atomically replaces the allow-list with new, which is
// first normalized (tilde-expanded, made absolute, cleaned). Entries that
// aren't directories are rejected.
func (s *Service) UpdateAllowedPaths(newList []string) error {
	normalized := make([]string, 0, len(newList))
	for _, raw := range newList {
		p, err := filesystem.Normalize(stripFileURI(raw))
		if err != nil {
			return fserrors.Wrapf(fserrors.CodeInvalidInput, err, "unable to normalize path %q", raw)
		}
		info, err := os.Stat(p)
		if err != nil {
			return fserrors.Wrapf(fserrors.CodeInvalidInput, err, "unable to stat path %q", p)
		}
		if !info.IsDir() {
			return fserrors.Newf(fserrors.CodeInvalidInput, "path %q is not a directory", p)
		}
		normalized = append(normalized, p)
	}
	if comparison.StringSlicesEqual(s.AllowedDirectories(), normalized) {
		return nil // no-op swap: avoid publishing a fresh snapshot readers don't need
	}
	s.allowList.store(normalized)
	return nil
}

// ValidRoots accepts a list of file://-prefixed (or raw) URIs, and returns
// the subset that are directories lying within the allow-list, plus a
// human-readable summary of anything skipped.
func (s *Service) ValidRoots(uriList []string) ([]ValidatedPath, string) {
	var valid []ValidatedPath
	var skipped []string

	for _, raw := range uriList {
		trimmed := strings.TrimSpace(raw)
		candidate := stripFileURI(trimmed)

		vp, err := s.validate(candidate)
		if err != nil {
			skipped = append(skipped, raw+" ("+err.Error()+")")
			continue
		}

		info, err := os.Stat(vp.Path)
		if err != nil || !info.IsDir() {
			skipped = append(skipped, raw+" (not a directory)")
			continue
		}

		valid = append(valid, vp)
	}

	var skippedMessage string
	if len(skipped) > 0 {
		skippedMessage = "skipped: " + strings.Join(skipped, "; ")
	}
	return valid, skippedMessage
}

// stripFileURI strips a leading "file://" scheme and decodes percent-escapes,
// falling back to the trimmed string with only the scheme removed if parsing
// fails.
func stripFileURI(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "file://") {
		return trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return strings.TrimPrefix(trimmed, "file://")
	}
	return u.Path
}

// validate implements validate_path: it expands ~, resolves to an absolute
// path, canonicalizes symlinks (or the nearest existing ancestor for a
// would-be path), rejects any symlink component along the way, and proves
// containment within the current allow-list snapshot.
func (s *Service) validate(candidate string) (ValidatedPath, error) {
	raw := strings.TrimSpace(stripFileURI(candidate))
	if raw == "" {
		return ValidatedPath{}, fserrors.InvalidInput("path must not be empty")
	}

	absolute, err := filesystem.Normalize(raw)
	if err != nil {
		return ValidatedPath{}, fserrors.Wrapf(fserrors.CodeInvalidInput, err, "unable to normalize path %q", raw)
	}

	if err := checkNoSymlinkComponents(absolute); err != nil {
		return ValidatedPath{}, err
	}

	canonical, err := canonicalizeExistingOrAncestor(absolute)
	if err != nil {
		return ValidatedPath{}, err
	}

	snapshot := s.allowList.load()
	if !snapshot.contains(canonical) {
		return ValidatedPath{}, fserrors.NotAllowed(candidate)
	}

	return ValidatedPath{Path: canonical}, nil
}

// checkNoSymlinkComponents rejects any path whose existing components
// include a symlink. It walks from the root of the path downward, lstat-ing
// each existing prefix; the volume name (including a Windows \\?\
// verbatim-disk prefix) is never lstat-ed on its own, so it is not treated
// as a symlink component, per §4.1.
func checkNoSymlinkComponents(absolute string) error {
	volume := filepath.VolumeName(absolute)
	rest := strings.TrimPrefix(absolute, volume)
	rest = strings.TrimPrefix(rest, string(filepath.Separator))

	current := volume + string(filepath.Separator)
	if rest == "" {
		return nil
	}

	for _, part := range strings.Split(rest, string(filepath.Separator)) {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if err != nil {
			// Nonexistent tail: nothing further to check.
			break
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fserrors.SymlinkInPath(absolute)
		}
	}
	return nil
}

// canonicalizeExistingOrAncestor resolves all symlinks in absolute if it
// exists; otherwise it canonicalizes the nearest existing ancestor and
// rejoins the nonexistent tail, matching the "would-be path" handling in
// §4.1. securejoin.SecureJoin is used so that the rejoined tail can never
// itself be tricked into escaping through the ancestor via ".." components.
func canonicalizeExistingOrAncestor(absolute string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(absolute); err == nil {
		return resolved, nil
	}

	dir := absolute
	var tailParts []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fserrors.Newf(fserrors.CodeNotFound, "no existing ancestor for %q", absolute)
		}
		tailParts = append([]string{filepath.Base(dir)}, tailParts...)
		dir = parent

		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			joined, err := securejoin.SecureJoin(resolved, filepath.Join(tailParts...))
			if err != nil {
				return "", fserrors.Wrap(fserrors.CodeInvalidInput, "unable to rejoin nonexistent path tail", err)
			}
			return joined, nil
		}
	}
}
