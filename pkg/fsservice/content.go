package fsservice

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
)

// literalEscapeChars are the characters escaped when is_regex=false, per
// §4.3.
const literalEscapeChars = `.^$*+?()[]{}\|/`

func escapeLiteral(query string) string {
	var b strings.Builder
	for _, r := range query {
		if strings.ContainsRune(literalEscapeChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// compileContentQuery builds a case-insensitive matcher for query, literal-
// escaping it first unless isRegex is set.
func compileContentQuery(query string, isRegex bool) (*regexp.Regexp, error) {
	pattern := query
	if !isRegex {
		pattern = escapeLiteral(query)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fserrors.InvalidPattern(query, err)
	}
	return re, nil
}

// FileContentMatches searches a single file for matches of re, stopping at
// the first NUL byte (binary quit) and reporting matches in ascending line
// order, per §4.3 and §5.
func FileContentMatches(path string, re *regexp.Regexp) ([]ContentMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []ContentMatch
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Bytes()
		if bytes.IndexByte(line, 0) != -1 {
			break // binary-terminated: quit this file
		}
		loc := re.FindIndex(line)
		if loc == nil {
			continue
		}
		matches = append(matches, ContentMatch{
			FilePath:   path,
			LineNumber: lineNumber,
			StartByte:  loc[0],
			Snippet:    extractSnippet(string(line), loc[0], defaultSnippetBackward, defaultSnippetMaxLength),
		})
	}
	// Scanner errors (including "token too long") are treated as a soft
	// per-file skip of whatever was already gathered, matching the
	// propagation policy in §7.
	return matches, nil
}

// ContentSearch implements content_search: validate path, then search the
// single file.
func (s *Service) ContentSearch(query string, path string, isRegex bool) ([]ContentMatch, error) {
	vp, err := s.validate(path)
	if err != nil {
		return nil, err
	}
	re, err := compileContentQuery(query, isRegex)
	if err != nil {
		return nil, err
	}
	return FileContentMatches(vp.Path, re)
}

// FileSearchOptions bundles the walker filter parameters shared by
// search_files, search_files_content, and search_files_ast.
type FileSearchOptions struct {
	Root       string
	FileGlob   string
	Excludes   []string
	Extensions []string
	MinBytes   *int64
	MaxBytes   *int64
}

// SearchFilesContent implements search_files_content: walk the root with
// the given glob/excludes/size window, and run ContentSearch's per-file
// logic against every regular file, collecting results across files in
// unspecified order (per §5).
func (s *Service) SearchFilesContent(opts FileSearchOptions, query string, isRegex bool) ([]ContentMatch, error) {
	root, err := s.validate(opts.Root)
	if err != nil {
		return nil, err
	}

	re, err := compileContentQuery(query, isRegex)
	if err != nil {
		return nil, err
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

	var mu sync.Mutex
	var all []ContentMatch

	err = WalkParallel(root, walkOpts, func(entry WalkEntry) WalkAction {
		if entry.Info.IsDir() || entry.IsSymlink {
			return WalkContinue
		}
		matches, ferr := FileContentMatches(entry.AbsPath, re)
		if ferr != nil || len(matches) == 0 {
			return WalkContinue
		}
		mu.Lock()
		all = append(all, matches...)
		mu.Unlock()
		return WalkContinue
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}
