//go:build windows

package filesystem

import "os"

// OpenNoFollowLeaf opens path for reading. Windows' os.Open already resolves
// reparse points (symlinks) transparently and there is no portable
// equivalent of O_NOFOLLOW exposed without FILE_FLAG_OPEN_REPARSE_POINT
// machinery; callers on Windows rely on the validation-time symlink check
// instead (see fsservice's checkNoSymlinkComponents).
func OpenNoFollowLeaf(path string) (*os.File, error) {
	return os.Open(path)
}
