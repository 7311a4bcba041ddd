package fsservice

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// statTimes extracts creation and access times from a file's OS-level
// metadata, the way the teacher's open_posix.go pulls modification time out
// of a raw unix.Stat_t. Linux's stat(2) has no birth-time field, so Created
// falls back to the inode's change time (ctime), matching what `stat -c %Z`
// reports in the absence of a dedicated birth-time syscall.
func statTimes(info os.FileInfo) (created, accessed time.Time) {
	raw, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	created = time.Unix(int64(raw.Ctim.Sec), int64(raw.Ctim.Nsec))
	accessed = time.Unix(int64(raw.Atim.Sec), int64(raw.Atim.Nsec))
	return created, accessed
}
