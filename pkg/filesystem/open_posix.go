//go:build !windows

package filesystem

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// OpenNoFollowLeaf opens path for reading with O_NOFOLLOW, refusing to
// resolve a symbolic link at the path's leaf component (intermediate
// symlinks in the path are still resolved normally by the kernel). It is
// the safe-open primitive that read operations use so that a symlink
// swapped into place between validation and open can't redirect a read
// outside the allow-list.
func OpenNoFollowLeaf(path string) (*os.File, error) {
	flags := unix.O_RDONLY | unix.O_NOFOLLOW | unix.O_CLOEXEC
	var descriptor int
	for {
		d, err := unix.Open(path, flags, 0)
		if err == nil {
			descriptor = d
			break
		} else if runtime.GOOS == "darwin" && err == unix.EINTR {
			continue
		} else {
			return nil, err
		}
	}
	return os.NewFile(uintptr(descriptor), path), nil
}
