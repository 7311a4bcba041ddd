//go:build !windows

package fsservice

import (
	"os"
	"syscall"
)

// isCrossDeviceError checks whether err (as returned by os.Rename) is due
// to an attempted rename across devices, mirroring
// pkg/filesystem.isCrossDeviceError.
func isCrossDeviceError(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	errno, ok := linkErr.Err.(syscall.Errno)
	if !ok {
		return false
	}
	return errno == syscall.EXDEV
}
