package vaultfs

import (
	"os"
)

// DebugEnabled reports whether the VAULTFS_DEBUG environment variable is set
// to "1". It is set automatically at startup; loggers take their level from
// pkg/config and do not read it.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("VAULTFS_DEBUG") == "1"
}
