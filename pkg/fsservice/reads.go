package fsservice

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/vaultfs/vaultfs/pkg/fserrors"
	"github.com/vaultfs/vaultfs/pkg/filesystem"
)

// ReadTextFile implements read_text_file: validate, then return the file's
// bytes verbatim as a string.
func (s *Service) ReadTextFile(path string) (string, error) {
	vp, err := s.validate(path)
	if err != nil {
		return "", err
	}
	f, err := filesystem.OpenNoFollowLeaf(vp.Path)
	if err != nil {
		return "", translateIOError(vp.Path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", translateIOError(vp.Path, err)
	}
	return string(data), nil
}

// WriteFile implements write_file: validate, then atomically replace the
// file's contents, preserving its existing permissions if it already
// exists, or using 0644 for a new file.
func (s *Service) WriteFile(path string, contents []byte) error {
	vp, err := s.validate(path)
	if err != nil {
		return err
	}

	permissions := os.FileMode(0644)
	if info, err := os.Stat(vp.Path); err == nil {
		permissions = info.Mode()
	}

	if err := filesystem.WriteFileAtomic(vp.Path, contents, permissions, s.logger); err != nil {
		return fserrors.Wrap(fserrors.CodeInvalidInput, "unable to write file", err)
	}
	return nil
}

// CreateDirectory implements create_directory: validate, then create
// recursively (MkdirAll semantics).
func (s *Service) CreateDirectory(path string) error {
	vp, err := s.validate(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(vp.Path, 0755); err != nil {
		return translateIOError(vp.Path, err)
	}
	return nil
}

// MoveFile implements move_file: validate both endpoints, then rename
// (falling back to copy-and-remove across devices, handled by the same
// cross-device logic used for atomic writes).
func (s *Service) MoveFile(src, dst string) error {
	srcVP, err := s.validate(src)
	if err != nil {
		return err
	}
	dstVP, err := s.validate(dst)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dstVP.Path); err == nil {
		return fserrors.AlreadyExists(dstVP.Path)
	}

	if err := os.Rename(srcVP.Path, dstVP.Path); err != nil {
		if isCrossDeviceError(err) {
			info, statErr := os.Stat(srcVP.Path)
			if statErr != nil {
				return translateIOError(srcVP.Path, statErr)
			}
			data, readErr := os.ReadFile(srcVP.Path)
			if readErr != nil {
				return translateIOError(srcVP.Path, readErr)
			}
			if writeErr := filesystem.WriteFileAtomic(dstVP.Path, data, info.Mode(), s.logger); writeErr != nil {
				return fserrors.Wrap(fserrors.CodeInvalidInput, "unable to copy file across devices", writeErr)
			}
			return os.Remove(srcVP.Path)
		}
		return translateIOError(srcVP.Path, err)
	}
	return nil
}

// GetFileStats implements get_file_stats: validate, stat, and render a
// FileInfo per §6's FileInfo rendering rules.
func (s *Service) GetFileStats(path string) (FileInfo, error) {
	vp, err := s.validate(path)
	if err != nil {
		return FileInfo{}, err
	}

	info, err := os.Stat(vp.Path)
	if err != nil {
		return FileInfo{}, translateIOError(vp.Path, err)
	}

	created, accessed := statTimes(info)

	return FileInfo{
		Size:        info.Size(),
		Created:     created,
		Modified:    info.ModTime(),
		Accessed:    accessed,
		IsDirectory: info.IsDir(),
		IsFile:      info.Mode().IsRegular(),
		Permissions: renderPermissions(info),
	}, nil
}

// Render formats a FileInfo as the size/created/modified/accessed/
// isDirectory/isFile/permissions text block get_file_stats returns to
// callers, one "key: value" pair per line. A zero Created or Accessed
// renders as an empty value, matching the original's None-handling.
func (fi FileInfo) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "size: %d\n", fi.Size)
	fmt.Fprintf(&b, "created: %s\n", formatStatTime(fi.Created))
	fmt.Fprintf(&b, "modified: %s\n", formatStatTime(fi.Modified))
	fmt.Fprintf(&b, "accessed: %s\n", formatStatTime(fi.Accessed))
	fmt.Fprintf(&b, "isDirectory: %t\n", fi.IsDirectory)
	fmt.Fprintf(&b, "isFile: %t\n", fi.IsFile)
	fmt.Fprintf(&b, "permissions: %s\n", fi.Permissions)
	return b.String()
}

func formatStatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// renderPermissions renders a FileInfo's Permissions field: octal on POSIX,
// a "[d-][rw]"-style flag pair elsewhere, per §6's FileInfo rendering table
// and the Windows-format decision recorded in §9.
func renderPermissions(info os.FileInfo) string {
	if runtime.GOOS == "windows" {
		dirFlag := "-"
		if info.IsDir() {
			dirFlag = "d"
		}
		writeFlag := "r"
		if info.Mode()&0200 != 0 {
			writeFlag = "w"
		}
		return dirFlag + writeFlag
	}
	return fmt.Sprintf("0%o", info.Mode().Perm())
}

// translateIOError maps a stdlib I/O error to the fserrors taxonomy.
func translateIOError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fserrors.NotFound(path)
	case os.IsPermission(err):
		return fserrors.PermissionDenied(path, err)
	case os.IsExist(err):
		return fserrors.AlreadyExists(path)
	default:
		return fserrors.Wrap(fserrors.CodeInvalidInput, "I/O error for path "+filepath.Clean(path), err)
	}
}
