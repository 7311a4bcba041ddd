package fsservice

import (
	"context"
	"os"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/vaultfs/vaultfs/pkg/contextutil"
	"github.com/vaultfs/vaultfs/pkg/fserrors"
)

const (
	astSoftFileThreshold = 2000
	astHardFileThreshold = 10000

	// astScanTimeout bounds the per-call fan-out across matched files so a
	// single pathological source file can't hang search_files_ast forever.
	astScanTimeout = 2 * time.Minute
)

// parseSource parses source under the named language, returning its root
// node. The caller owns sourceCode's lifetime; tree-sitter nodes reference
// it directly via byte ranges.
func parseSource(ctx context.Context, loader languageLoader, sourceCode []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(loader())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, err
	}
	return tree.RootNode(), nil
}

// validateAstPattern parses pattern under language and rejects it if empty
// or if it contains any ERROR node, per §4.4.
func validateAstPattern(ctx context.Context, pattern, language string) (*sitter.Node, []byte, error) {
	_, loader, known := resolveLanguage(language)
	if !known {
		return nil, nil, fserrors.UnsupportedLanguage(language)
	}
	if loader == nil {
		return nil, nil, fserrors.UnsupportedLanguage(language)
	}

	src := []byte(pattern)
	root, err := parseSource(ctx, loader, src)
	if err != nil {
		return nil, nil, fserrors.InvalidAstPattern(pattern, language, err)
	}
	if strings.TrimSpace(pattern) != "" && root.ChildCount() == 0 {
		return nil, nil, fserrors.InvalidAstPattern(pattern, language, nil)
	}
	if root.HasError() {
		return nil, nil, fserrors.InvalidAstPattern(pattern, language, nil)
	}
	return root, src, nil
}

// patternRoot reduces a parsed pattern's root node down to the single
// meaningful node to match against, skipping a wrapping expression/program
// node with exactly one named child (common when a bare expression or
// statement is supplied as the pattern).
func patternRoot(root *sitter.Node) *sitter.Node {
	node := root
	for node.NamedChildCount() == 1 && node.ChildCount() <= 2 {
		node = node.NamedChild(0)
	}
	return node
}

// isWildcardIdentifier reports whether node is an all-uppercase identifier,
// making it a "$UPPERCASE"-style wildcard that matches any subtree.
func isWildcardIdentifier(node *sitter.Node, src []byte) bool {
	if node.ChildCount() != 0 {
		return false
	}
	text := node.Content(src)
	if text == "" {
		return false
	}
	hasLetter := false
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_' || (r >= '0' && r <= '9'):
			// allowed
		default:
			return false
		}
	}
	return hasLetter
}

// matchNode recursively compares a pattern subtree against a candidate
// target subtree, treating all-uppercase identifier leaves as wildcards
// that match any subtree.
func matchNode(pattern, target *sitter.Node, patternSrc, targetSrc []byte) bool {
	if isWildcardIdentifier(pattern, patternSrc) {
		return true
	}
	if pattern.Type() != target.Type() {
		return false
	}
	if pattern.ChildCount() == 0 {
		return pattern.Content(patternSrc) == target.Content(targetSrc)
	}
	if pattern.ChildCount() != target.ChildCount() {
		return false
	}
	for i := 0; i < int(pattern.ChildCount()); i++ {
		if !matchNode(pattern.Child(i), target.Child(i), patternSrc, targetSrc) {
			return false
		}
	}
	return true
}

// findMatches walks target's tree looking for nodes whose type matches
// pattern's, attempting a full structural match at each candidate.
func findMatches(pattern, target *sitter.Node, patternSrc, targetSrc []byte, out *[]*sitter.Node) {
	if target.Type() == pattern.Type() && matchNode(pattern, target, patternSrc, targetSrc) {
		*out = append(*out, target)
	}
	for i := 0; i < int(target.ChildCount()); i++ {
		findMatches(pattern, target.Child(i), patternSrc, targetSrc, out)
	}
}

// AstSearch implements ast_search: validate path and pattern, parse the
// target file, and report every structural match.
func (s *Service) AstSearch(pattern, path, language string) ([]AstMatch, error) {
	vp, err := s.validate(path)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	root, patternSrc, err := validateAstPattern(ctx, pattern, language)
	if err != nil {
		return nil, err
	}
	pRoot := patternRoot(root)

	data, err := os.ReadFile(vp.Path)
	if err != nil {
		return nil, translateIOError(vp.Path, err)
	}

	_, loader, _ := resolveLanguage(language)
	targetRoot, err := parseSource(ctx, loader, data)
	if err != nil {
		return nil, fserrors.Wrap(fserrors.CodeInvalidInput, "unable to parse target file", err)
	}

	var found []*sitter.Node
	findMatches(pRoot, targetRoot, patternSrc, data, &found)

	matches := make([]AstMatch, 0, len(found))
	for _, n := range found {
		start := n.StartPoint()
		matches = append(matches, AstMatch{
			FilePath:    vp.Path,
			MatchedCode: n.Content(data),
			LineNumber:  int(start.Row) + 1,
			Column:      int(start.Column) + 1,
			ByteStart:   int(n.StartByte()),
			ByteEnd:     int(n.EndByte()),
		})
	}
	return matches, nil
}

// AstSearchWarning is a diagnostic emitted by SearchFilesAst when the
// matched-file count crosses one of its thresholds.
type AstSearchWarning struct {
	Message string
}

// SearchFilesAst implements search_files_ast: validate the pattern once,
// then walk with source-code defaults (depth 20, standard ignore rules, 1MB
// size cap), emitting soft/hard-threshold diagnostics at 2,000/10,000
// matched files.
func (s *Service) SearchFilesAst(opts FileSearchOptions, pattern, language string) ([]AstMatch, []AstSearchWarning, error) {
	root, err := s.validate(opts.Root)
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	parsedPattern, patternSrc, err := validateAstPattern(ctx, pattern, language)
	if err != nil {
		return nil, nil, err
	}
	pRoot := patternRoot(parsedPattern)
	_, loader, _ := resolveLanguage(language)

	oneMB := int64(1024 * 1024)
	maxSize := opts.MaxBytes
	if maxSize == nil {
		maxSize = &oneMB
	}

	walkOpts := WalkOptions{
		IncludeGlob:                opts.FileGlob,
		MatchIncludeAgainstRelPath: true,
		ExcludeGlobs:               opts.Excludes,
		Extensions:                 opts.Extensions,
		MinSize:                    opts.MinBytes,
		MaxSize:                    maxSize,
		MaxDepth:                   defaultMaxDepth,
		RespectIgnoreFiles:         true,
	}

	candidates, err := WalkSequential(root, walkOpts)
	if err != nil {
		return nil, nil, err
	}

	var warnings []AstSearchWarning
	matched := 0
	var files []string
	for _, entry := range candidates {
		if entry.Info.IsDir() || entry.IsSymlink {
			continue
		}
		matched++
		if matched == astSoftFileThreshold {
			warnings = append(warnings, AstSearchWarning{Message: "matched file count reached 2,000; this search may take a while"})
		}
		if matched > astHardFileThreshold {
			warnings = append(warnings, AstSearchWarning{Message: "matched file count exceeds 10,000; results may be incomplete"})
			break
		}
		files = append(files, entry.AbsPath)
	}

	resultCh := make(chan AstMatch, 64)
	done := make(chan struct{})
	var all []AstMatch
	go func() {
		for m := range resultCh {
			all = append(all, m)
		}
		close(done)
	}()

	scanCtx, cancelScan := context.WithTimeout(ctx, astScanTimeout)
	defer cancelScan()

	_ = parallelForEach(files, func(path string) {
		if contextutil.IsCancelled(scanCtx) {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		targetRoot, err := parseSource(scanCtx, loader, data)
		if err != nil {
			return
		}
		var found []*sitter.Node
		findMatches(pRoot, targetRoot, patternSrc, data, &found)
		for _, n := range found {
			start := n.StartPoint()
			resultCh <- AstMatch{
				FilePath:    path,
				MatchedCode: n.Content(data),
				LineNumber:  int(start.Row) + 1,
				Column:      int(start.Column) + 1,
				ByteStart:   int(n.StartByte()),
				ByteEnd:     int(n.EndByte()),
			}
		}
	})
	close(resultCh)
	<-done

	return all, warnings, nil
}
