package mgetlib

import (
	"encoding/binary"
	"io"
	"os"
)

// contextSuffix names the sibling file a Context persists its resume
// record to, alongside the output file itself.
const contextSuffix = ".mget"

// Context is the on-disk resume record for one output file: how far the
// download got, and which byte ranges were claimed but never finished.
//
// The wire format is pinned to 64-bit little-endian regardless of host
// architecture, so a record written on one machine resumes correctly on
// another:
//
//	offset        uint64
//	written_bytes uint64
//	failed_count  uint64
//	failed[...]   uint64 (failed_count entries)
type Context struct {
	path string

	Offset       int64
	WrittenBytes int64
	FailedParts  []int64

	// Clean is true when no usable record was found — either this is the
	// first session for this output file, or the record on disk could
	// not be parsed.
	Clean bool
}

// loadContext reads the resume record for fullpath, or reports Clean if
// none exists yet.
func loadContext(fullpath string) *Context {
	c := &Context{path: fullpath + contextSuffix}

	f, err := os.Open(c.path)
	if err != nil {
		c.Clean = true
		return c
	}
	defer f.Close()

	var header [24]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return &Context{path: c.path, Clean: true}
	}
	offset := binary.LittleEndian.Uint64(header[0:8])
	written := binary.LittleEndian.Uint64(header[8:16])
	failedLen := binary.LittleEndian.Uint64(header[16:24])

	var failed []int64
	if failedLen > 0 {
		buf := make([]byte, 8*failedLen)
		if _, err := io.ReadFull(f, buf); err != nil {
			return &Context{path: c.path, Clean: true}
		}
		failed = make([]int64, failedLen)
		for i := range failed {
			failed[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
		}
	}

	c.Offset = int64(offset)
	c.WrittenBytes = int64(written)
	c.FailedParts = failed
	c.Clean = false
	return c
}

// modified reports whether (offset, written, failed) differs from the
// record currently held in memory. failed is compared as a set: order
// does not matter, since it is rebuilt from a map each time the Manager
// saves progress.
func (c *Context) modified(offset, written int64, failed []int64) bool {
	if c.Offset != offset || c.WrittenBytes != written {
		return true
	}
	if len(c.FailedParts) != len(failed) {
		return true
	}
	have := make(map[int64]int, len(c.FailedParts))
	for _, v := range c.FailedParts {
		have[v]++
	}
	for _, v := range failed {
		have[v]--
	}
	for _, n := range have {
		if n != 0 {
			return true
		}
	}
	return false
}

// update persists (offset, written, failed) if it differs from what is
// already on disk. A no-op update costs nothing: the Manager calls this
// after every result it dispatches, whether or not anything changed.
func (c *Context) update(offset, written int64, failed []int64) error {
	if !c.modified(offset, written, failed) {
		return nil
	}
	c.Offset = offset
	c.WrittenBytes = written
	c.FailedParts = append([]int64(nil), failed...)

	buf := make([]byte, 24+8*len(failed))
	binary.LittleEndian.PutUint64(buf[0:8], uint64(offset))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(written))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(len(failed)))
	for i, v := range failed {
		binary.LittleEndian.PutUint64(buf[24+8*i:], uint64(v))
	}
	return os.WriteFile(c.path, buf, DefaultFileMode)
}

// reset clears the record in place, as if this were a brand new session.
func (c *Context) reset() error {
	if err := c.update(0, 0, nil); err != nil {
		return err
	}
	c.Clean = true
	return nil
}

// delete removes the resume-record file once a download finishes
// successfully. A missing file is not an error.
func (c *Context) delete() {
	os.Remove(c.path)
}
