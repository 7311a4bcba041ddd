// Package must provides best-effort wrappers around cleanup operations whose
// errors can't sensibly be propagated (e.g. deferred Close calls) but are
// still worth logging.
package must

import (
	"io"
	"os"

	"github.com/vaultfs/vaultfs/pkg/logging"
)

// Close closes c, logging a warning on failure.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file, logging a warning on failure.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("unable to remove '%s': %s", name, err.Error())
	}
}

// Succeed logs a warning if err is non-nil, naming the task that failed.
func Succeed(err error, task string, logger *logging.Logger) {
	if err != nil {
		logger.Warnf("unable to complete %s: %s", task, err.Error())
	}
}
