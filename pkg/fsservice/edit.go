package fsservice

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
	"github.com/vaultfs/vaultfs/pkg/filesystem"
)

// EditResult is the outcome of apply_file_edits: the unified diff (always
// produced) and whether the file was actually written.
type EditResult struct {
	Diff    string
	Written bool
}

// detectLineEnding returns the file's dominant line-ending style: "\r\n" if
// present, else "\r" if present, else "\n", per §4.6 step 2.
func detectLineEnding(content string) string {
	switch {
	case strings.Contains(content, "\r\n"):
		return "\r\n"
	case strings.Contains(content, "\r"):
		return "\r"
	default:
		return "\n"
	}
}

func normalizeToLF(content, ending string) string {
	if ending == "\n" {
		return content
	}
	return strings.ReplaceAll(content, ending, "\n")
}

func reapplyLineEnding(content, ending string) string {
	if ending == "\n" {
		return content
	}
	return strings.ReplaceAll(content, "\n", ending)
}

// leadingWhitespace returns the leading run of spaces/tabs in s.
func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// applyEditToBuffer applies a single edit to buffer (already \n-normalized),
// trying a literal match first and falling back to the line-aware,
// indentation-tolerant match described in §4.6 step 4.
func applyEditToBuffer(buffer string, edit EditOperation) (string, error) {
	oldText := normalizeToLF(edit.OldText, detectLineEnding(edit.OldText))
	newText := normalizeToLF(edit.NewText, detectLineEnding(edit.NewText))

	if idx := strings.Index(buffer, oldText); idx != -1 {
		return buffer[:idx] + newText + buffer[idx+len(oldText):], nil
	}

	bufferLines := strings.Split(buffer, "\n")
	patternLines := strings.Split(oldText, "\n")
	replacementLines := strings.Split(newText, "\n")

	for i := 0; i+len(patternLines) <= len(bufferLines); i++ {
		matched := true
		for k, patternLine := range patternLines {
			bufLine := bufferLines[i+k]
			if patternLine != bufLine && strings.TrimSpace(patternLine) != strings.TrimSpace(bufLine) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}

		bufferIndent := leadingWhitespace(bufferLines[i])
		patternBaseIndent := leadingWhitespace(patternLines[0])

		reindented := make([]string, len(replacementLines))
		for j, line := range replacementLines {
			if j == 0 {
				reindented[j] = bufferIndent + strings.TrimLeft(line, " \t")
				continue
			}
			lineIndent := leadingWhitespace(line)
			delta := strings.TrimPrefix(lineIndent, patternBaseIndent)
			if delta == lineIndent && patternBaseIndent != "" && !strings.HasPrefix(lineIndent, patternBaseIndent) {
				// Pattern indent doesn't prefix this line's indent (the
				// line is less indented than the pattern's first line);
				// fall back to the line's own indent atop the buffer base.
				reindented[j] = bufferIndent + strings.TrimLeft(line, " \t")
				continue
			}
			reindented[j] = bufferIndent + delta + strings.TrimLeft(line, " \t")
		}

		newBufferLines := append([]string{}, bufferLines[:i]...)
		newBufferLines = append(newBufferLines, reindented...)
		newBufferLines = append(newBufferLines, bufferLines[i+len(patternLines):]...)
		return strings.Join(newBufferLines, "\n"), nil
	}

	return "", fserrors.NoMatch(fmt.Sprintf("old_text %q", truncateForError(edit.OldText)))
}

func truncateForError(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// unifiedDiff builds the fenced unified diff described in §4.6 step 6.
func unifiedDiff(fileName, original, modified string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "original",
		ToFile:   "modified",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeInvalidInput, "unable to generate diff", err)
	}
	return fmt.Sprintf("```diff\n# %s\n%s```\n", fileName, text), nil
}

// ApplyFileEdits implements apply_file_edits: read, normalize, apply each
// edit in order (all-or-nothing), re-apply the original line ending, diff,
// and (unless dry_run) write atomically to saveTo or the original path.
func (s *Service) ApplyFileEdits(path string, edits []EditOperation, dryRun bool, saveTo string) (*EditResult, error) {
	vp, err := s.validate(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(vp.Path)
	if err != nil {
		return nil, fserrors.Wrap(fserrors.CodeNotFound, "unable to read file", err)
	}
	original := string(raw)

	ending := detectLineEnding(original)
	buffer := normalizeToLF(original, ending)

	for _, edit := range edits {
		buffer, err = applyEditToBuffer(buffer, edit)
		if err != nil {
			return nil, err
		}
	}

	finalContent := reapplyLineEnding(buffer, ending)

	diff, err := unifiedDiff(vp.Path, original, finalContent)
	if err != nil {
		return nil, err
	}

	result := &EditResult{Diff: diff}
	if dryRun {
		return result, nil
	}

	destination := vp.Path
	if saveTo != "" {
		saveVP, err := s.validate(saveTo)
		if err != nil {
			return nil, err
		}
		destination = saveVP.Path
	}

	info, err := os.Stat(vp.Path)
	if err != nil {
		return nil, fserrors.Wrap(fserrors.CodeNotFound, "unable to stat file", err)
	}

	if err := filesystem.WriteFileAtomic(destination, []byte(finalContent), info.Mode(), s.logger); err != nil {
		return nil, fserrors.Wrap(fserrors.CodeInvalidInput, "unable to write file", err)
	}

	result.Written = true
	return result, nil
}
