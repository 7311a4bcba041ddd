//go:build windows

package fsservice

// isCrossDeviceError always reports false on Windows, where os.Rename
// across volumes fails with a distinct, less uniformly detectable error;
// MoveFile simply surfaces the original rename error in that case.
func isCrossDeviceError(err error) bool {
	return false
}
