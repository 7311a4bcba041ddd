package fsservice

import (
	"bufio"
	"os"
	"strings"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
)

// ReadFileLines implements read_file_lines, including both the from-start
// streaming path and the from-end "read-all-with-line-ending-detection"
// variant chosen in spec.md §9 as the one whose trailing-newline behavior is
// correct. limit == nil means "no limit".
func (s *Service) ReadFileLines(path string, offset int, limit *int, fromEnd bool) (string, error) {
	vp, err := s.validate(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(vp.Path)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeNotFound, "unable to stat file", err)
	}
	if info.Size() == 0 || (limit != nil && *limit == 0) {
		return "", nil
	}

	if fromEnd {
		return readLinesFromEnd(vp.Path, offset, limit)
	}
	return readLinesFromStart(vp.Path, offset, limit)
}

// readLinesFromStart skips `offset` newline-terminated chunks, then
// concatenates up to `limit` further chunks verbatim, preserving whatever
// line-ending bytes were actually present.
func readLinesFromStart(path string, offset int, limit *int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeNotFound, "unable to open file", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)

	for i := 0; i < offset; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			return "", nil // offset >= total_lines
		}
	}

	var b strings.Builder
	taken := 0
	for limit == nil || taken < *limit {
		chunk, err := reader.ReadString('\n')
		if chunk != "" {
			b.WriteString(chunk)
			taken++
		}
		if err != nil {
			break // EOF
		}
	}
	return b.String(), nil
}

// readLinesFromEnd reads the whole file, detects its dominant line ending,
// splits it into lines preserving source order, and selects the requested
// tail window, per the from-end algorithm in §4.5.
func readLinesFromEnd(path string, offset int, limit *int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeNotFound, "unable to read file", err)
	}

	terminator := "\n"
	if strings.Contains(string(data), "\r\n") {
		terminator = "\r\n"
	}

	content := string(data)
	endedWithNewline := strings.HasSuffix(content, "\n")

	var lines []string
	if content != "" {
		lines = strings.Split(content, terminator)
		if endedWithNewline && terminator == "\n" {
			lines = lines[:len(lines)-1]
		} else if terminator == "\r\n" && strings.HasSuffix(content, "\r\n") {
			lines = lines[:len(lines)-1]
		}
	}

	total := len(lines)
	if offset >= total {
		return "", nil
	}

	remaining := total - offset
	take := remaining
	if limit != nil && *limit < take {
		take = *limit
	}
	if take < 0 {
		take = 0
	}

	start := total - offset - take
	end := total - offset
	selected := lines[start:end]

	result := strings.Join(selected, terminator)
	if offset == 0 && endedWithNewline {
		result += terminator
	}
	return result, nil
}
