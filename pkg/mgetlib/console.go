package mgetlib

// Console is the external collaborator the Manager uses for all
// user-facing I/O: status messages, warnings, errors, yes/no
// confirmation prompts, and progress rendering. cmd/mget supplies a
// concrete terminal implementation; tests supply a recording fake.
type Console interface {
	// Message prints a line of status text terminated by end (usually
	// "\n", sometimes "" for an in-place update).
	Message(text, end string)
	// Warning prints text marked as a warning.
	Warning(text string)
	// Error prints text marked as an error.
	Error(text string)
	// Ask prompts text and waits for a yes/no answer. def is returned if
	// the prompt cannot be answered (non-interactive stdin, EOF). When
	// prompts are suppressed (cmd/mget's -y), the answer is yes.
	Ask(text string, def bool) bool
	// StartProgress begins rendering a progress bar sized to total. A
	// total of -1 (unknown size) renders an indeterminate bar.
	StartProgress(total ContentLength)
	// Progress reports the current byte count and the number of bytes
	// accumulated since the session began, the latter used to compute a
	// transfer rate.
	Progress(current, sessionBytes ContentLength)
	// StopProgress finalizes and removes the progress bar.
	StopProgress()
}
