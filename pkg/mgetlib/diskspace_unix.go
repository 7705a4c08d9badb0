//go:build darwin || freebsd || linux

package mgetlib

import (
	"fmt"
	"syscall"
)

// checkDiskSpace verifies the filesystem backing dir has at least
// requiredBytes free before the output file is preallocated.
func checkDiskSpace(dir string, requiredBytes int64) error {
	if requiredBytes <= 0 {
		return nil
	}
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return nil
	}
	available := int64(stat.Bavail) * int64(stat.Bsize)
	if available < requiredBytes {
		return fmt.Errorf("%w: need %s, have %s free", ErrFileError,
			ContentLength(requiredBytes), ContentLength(available))
	}
	return nil
}
