// Package mgetlib implements the core download coordinator used by mget:
// mirror workers, the result queue, the output file with resumable
// context, and the protocol adapters for HTTP, HTTPS and FTP.
package mgetlib

import (
	"fmt"
	"runtime"
	"time"
)

// version is the mget release embedded in the User-Agent string, kept in
// step with the CLI's cli.App.Version in cmd/mget/main.go.
const version = "1.0.0"

// Size unit constants for byte conversions.
const (
	B  int64 = 1
	KB       = 1024 * B
	MB       = 1024 * KB
	GB       = 1024 * MB
)

const (
	// DefaultBlockSize is the number of bytes assigned to a mirror per task
	// when the CLI does not override it.
	DefaultBlockSize = 4 * MB
	// DefaultTimeout bounds how long a mirror worker waits on a single
	// network round-trip before the connection is considered failed.
	DefaultTimeout = 10 * time.Second
	// FragmentSize is the chunk size used when streaming a download task;
	// a Progress result is published after each fragment.
	FragmentSize = 32 * KB

	// DefaultFileMode is the permission mode used for the output file.
	DefaultFileMode = 0644
	// DefaultDirMode is the permission mode used for directories created
	// on behalf of a user-specified output path.
	DefaultDirMode = 0755

	// queuePollInterval bounds Manager.Download's non-blocking drain of
	// the result queue.
	queuePollInterval = 10 * time.Millisecond
)

// DefUserAgent is sent on every HTTP/HTTPS request unless overridden.
// Built at init time since the release component requires a syscall.
var DefUserAgent = buildUserAgent()

// buildUserAgent renders "mget/<version> (<os> <arch>, <release>)", the
// format spec.md's networking section requires for mirror identification.
func buildUserAgent() string {
	release := osRelease()
	if release == "" {
		return fmt.Sprintf("mget/%s (%s %s)", version, runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("mget/%s (%s %s, %s)", version, runtime.GOOS, runtime.GOARCH, release)
}
