package mgetlib

// Result is one message a connection or download worker hands back to the
// Manager over a ResultQueue. The Manager is the only goroutine allowed to
// act on a Result; workers never touch Manager or Mirror state directly.
//
// dispatch is unexported so no package outside mgetlib can manufacture a
// Result the Manager does not already know how to route — every variant is
// declared here, next to the handler it drives.
type Result interface {
	// Mirror is the name (host) of the mirror that produced this result.
	Mirror() string
	dispatch(m *Manager)
}

// HeadData reports a successful HEAD/SIZE probe: the mirror is reachable
// and file_size bytes are available for download.
type HeadData struct {
	MirrorName string
	Status     int
	FileSize   ContentLength
}

func (r HeadData) Mirror() string    { return r.MirrorName }
func (r HeadData) dispatch(m *Manager) { m.onHeadData(r) }

// Redirect reports a 3xx HTTP response. The Manager re-points the issuing
// mirror at To and starts a fresh connection worker against it.
type Redirect struct {
	MirrorName string
	Status     int
	To         URL
}

func (r Redirect) Mirror() string    { return r.MirrorName }
func (r Redirect) dispatch(m *Manager) { m.onRedirect(r) }

// HeadError reports a failed probe: connection refused, timeout, an HTTP
// status other than 200, or a 3xx whose Location cannot be resolved. The
// mirror that produced it is removed.
type HeadError struct {
	MirrorName string
	Status     int
}

func (r HeadError) Mirror() string    { return r.MirrorName }
func (r HeadError) dispatch(m *Manager) { m.onHeadError(r) }

// Progress reports bytes accumulated so far within the in-flight task; it
// never triggers a write, only a console update.
type Progress struct {
	MirrorName string
	Status     int
	Have       ContentLength
}

func (r Progress) Mirror() string    { return r.MirrorName }
func (r Progress) dispatch(m *Manager) { m.onProgress(r) }

// Data reports a finished task: Bytes, read starting at Offset, ready to be
// written to the output file.
type Data struct {
	MirrorName string
	Status     int
	Offset     int64
	Bytes      []byte
}

func (r Data) Mirror() string    { return r.MirrorName }
func (r Data) dispatch(m *Manager) { m.onData(r) }

// ErrorResult reports a failed in-flight task. Offset identifies the part
// that must be returned to the pending queue so another mirror can retry
// it. Status 0 means the transport itself failed (connection reset,
// timeout); any other value is the protocol status that rejected the
// request.
type ErrorResult struct {
	MirrorName string
	Status     int
	Offset     int64
}

func (r ErrorResult) Mirror() string    { return r.MirrorName }
func (r ErrorResult) dispatch(m *Manager) { m.onError(r) }
