// Package vaultfs holds process-wide identity constants for the vaultfs
// service: version information and debug-mode detection.
package vaultfs

import (
	"fmt"
)

const (
	// VersionMajor represents the current major version of vaultfs.
	VersionMajor = 0
	// VersionMinor represents the current minor version of vaultfs.
	VersionMinor = 1
	// VersionPatch represents the current patch version of vaultfs.
	VersionPatch = 0
)

// Version is the human-readable version string, computed once at startup.
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
