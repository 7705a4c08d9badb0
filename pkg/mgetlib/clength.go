package mgetlib

import "fmt"

// ContentLength represents a byte count — a file size, a written-bytes
// tally, or an in-flight task's progress. It is a named int64 so console
// output and log lines format sizes consistently instead of sprinkling
// ad-hoc division by 1024 throughout the package.
type ContentLength int64

// v returns the underlying int64 value.
func (c ContentLength) v() int64 {
	return int64(c)
}

// IsUnknown reports whether the size has not been determined yet.
func (c ContentLength) IsUnknown() bool {
	return c < 0
}

// String renders the size using the largest unit that keeps the mantissa
// readable, e.g. "4.00 MB", "512 B".
func (c ContentLength) String() string {
	if c.IsUnknown() {
		return "undefined"
	}
	n := float64(c)
	switch {
	case c >= ContentLength(GB):
		return fmt.Sprintf("%.2f GB", n/float64(GB))
	case c >= ContentLength(MB):
		return fmt.Sprintf("%.2f MB", n/float64(MB))
	case c >= ContentLength(KB):
		return fmt.Sprintf("%.2f KB", n/float64(KB))
	default:
		return fmt.Sprintf("%d B", int64(c))
	}
}
