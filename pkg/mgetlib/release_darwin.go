//go:build darwin

package mgetlib

import "syscall"

// osRelease reports the Darwin kernel release string (e.g. "23.1.0"),
// the same field spec.md's User-Agent format calls "release".
func osRelease() string {
	release, err := syscall.Sysctl("kern.osrelease")
	if err != nil {
		return ""
	}
	return release
}
