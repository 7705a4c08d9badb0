package mgetlib

import "errors"

var (
	// ErrURLFormat is returned when a mirror address does not match the
	// supported URL grammar (scheme, host, optional port, path).
	ErrURLFormat = errors.New("url is not in a supported format")

	// ErrFatal is returned by Manager.Download when every mirror has been
	// removed before the file finished downloading. The returned error
	// wraps ErrFatal and carries the text of every per-mirror error
	// collected with hashicorp/go-multierror, so the CLI can print why
	// each mirror was lost.
	ErrFatal = errors.New("no mirrors remain, download cannot continue")

	// ErrFileError wraps failures opening, seeking, or writing the output
	// file or its resume-context sibling file.
	ErrFileError = errors.New("output file error")

	// ErrCancelled is returned when the user interrupts the download
	// (context cancellation) or declines a confirmation prompt.
	ErrCancelled = errors.New("download cancelled")

	// ErrNoMirrors is returned by NewManager when the supplied Config
	// carries no usable URLs.
	ErrNoMirrors = errors.New("no mirrors provided")

	// ErrPartialNotSupported marks an HTTP GET that replied 200 instead
	// of 206 to a ranged request.
	ErrPartialNotSupported = errors.New("server does not support partial download")

	// errFileSizeMismatch is raised internally when a mirror's HEAD probe
	// reports a size that disagrees with the size already established by
	// an earlier mirror; the offending mirror is dropped, not the
	// download.
	errFileSizeMismatch = errors.New("mirror reports a different file size")
)
