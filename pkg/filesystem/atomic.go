package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vaultfs/vaultfs/pkg/logging"
	"github.com/vaultfs/vaultfs/pkg/must"
)

const (
	// atomicWriteTemporaryNamePrefix is the file name prefix to use for
	// intermediate temporary files used in atomic writes.
	atomicWriteTemporaryNamePrefix = TemporaryNamePrefix + "atomic-write"
)

// WriteFileAtomic writes a file to disk in an atomic fashion by using an
// intermediate temporary file that is swapped in place using a rename
// operation.
func WriteFileAtomic(path string, data []byte, permissions os.FileMode, logger *logging.Logger) error {
	// Create a temporary file. The os package already uses secure permissions
	// for creating temporary files, so we don't need to change them.
	temporary, err := os.CreateTemp(filepath.Dir(path), atomicWriteTemporaryNamePrefix)
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}

	// Write data.
	if _, err = temporary.Write(data); err != nil {
		must.Close(temporary, logger)
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to write data to temporary file: %w", err)
	}

	// Close out the file.
	if err = temporary.Close(); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	// Set the file's permissions.
	if err = os.Chmod(temporary.Name(), permissions); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to change file permissions: %w", err)
	}

	// Rename the file into place. On most platforms this is already atomic
	// with respect to concurrent readers, but it can fail with an
	// EXDEV-class error if the temporary file and the destination live on
	// different devices (e.g. the destination directory is a separate
	// mount), in which case we fall back to a copy-and-remove.
	if err = os.Rename(temporary.Name(), path); err != nil {
		if isCrossDeviceError(err) {
			if copyErr := copyAcrossDevices(temporary.Name(), path, permissions); copyErr != nil {
				must.OSRemove(temporary.Name(), logger)
				return fmt.Errorf("unable to copy file across devices: %w", copyErr)
			}
			must.OSRemove(temporary.Name(), logger)
			return nil
		}
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to rename file: %w", err)
	}

	// Success.
	return nil
}

// copyAcrossDevices copies the contents of source to destination and applies
// the given permissions, for use when an atomic rename isn't possible because
// the two paths reside on different devices.
func copyAcrossDevices(source, destination string, permissions os.FileMode) error {
	input, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("unable to open source file: %w", err)
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permissions)
	if err != nil {
		return fmt.Errorf("unable to open destination file: %w", err)
	}

	if _, err = io.Copy(output, input); err != nil {
		output.Close()
		return fmt.Errorf("unable to copy data: %w", err)
	}

	return output.Close()
}
