//go:build linux

package mgetlib

import "syscall"

// osRelease reports the kernel release string (e.g. "6.1.0-13-amd64"),
// the same field spec.md's User-Agent format calls "release".
func osRelease() string {
	var uts syscall.Utsname
	if err := syscall.Uname(&uts); err != nil {
		return ""
	}
	return utsnameToString(uts.Release[:])
}

func utsnameToString(b []int8) string {
	buf := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	return string(buf)
}
