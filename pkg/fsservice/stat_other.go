//go:build !linux

package fsservice

import (
	"os"
	"time"
)

// statTimes has no portable way to reach atime/ctime outside Linux's
// unix.Stat_t layout from here, so non-Linux platforms report a zero
// Created/Accessed rather than risk a wrong field for an OS this tree has
// no verified Stat_t layout for.
func statTimes(info os.FileInfo) (created, accessed time.Time) {
	return time.Time{}, time.Time{}
}
