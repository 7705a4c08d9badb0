package mgetlib

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/mget-project/mget/pkg/logger"
)

// Manager is the coordinator: it owns every Mirror, the output file, the
// resume Context, and the shared ResultQueue, and is the only goroutine
// that mutates any of them. Workers spawned by a Mirror report back to it
// exclusively through Results placed on the queue.
type Manager struct {
	console Console
	log     logger.Logger
	runID   string

	blockSize int64
	timeout   time.Duration

	serverFilename string
	mirrors        map[string]*Mirror
	mirrorErrors   *multierror.Error

	outfile *OutputFile
	context *Context

	offset          int64
	writtenBytes    int64
	oldProgress     int64
	fileSize        ContentLength
	failedParts     []int64
	partsInProgress map[int64]struct{}

	queue *ResultQueue
	ctx   context.Context
	fatal error
}

// NewManager builds mirrors from cfg.URLs, resolves the output file
// against cfg.UserPath, and loads any resume state already on disk.
// console drives every confirmation prompt this may require.
func NewManager(cfg Config, console Console, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	m := &Manager{
		console:         console,
		log:             log,
		runID:           uuid.NewString(),
		blockSize:       cfg.BlockSize,
		timeout:         cfg.Timeout,
		mirrors:         make(map[string]*Mirror),
		partsInProgress: make(map[int64]struct{}),
		queue:           NewResultQueue(),
	}

	for _, u := range cfg.URLs {
		m.createMirror(u)
	}
	if len(m.mirrors) == 0 {
		return nil, ErrNoMirrors
	}
	if m.serverFilename == "" {
		m.serverFilename = "out"
	}

	outfile, err := openOutputFile(m.serverFilename, cfg.UserPath, console)
	if err != nil {
		return nil, err
	}
	m.outfile = outfile
	m.context = outfile.context
	m.offset = m.context.Offset
	m.writtenBytes = m.context.WrittenBytes
	m.oldProgress = m.writtenBytes
	m.failedParts = append([]int64(nil), m.context.FailedParts...)

	return m, nil
}

// createMirror builds a Mirror for url and adds it to the pool, unless
// its reported filename conflicts with the one already agreed on and the
// user declines to proceed anyway.
func (m *Manager) createMirror(url URL) {
	mirror := newMirror(url, m.blockSize, m.timeout)
	if !m.checkFilename(mirror) {
		return
	}
	m.mirrors[url.Host] = mirror
}

func (m *Manager) checkFilename(mirror *Mirror) bool {
	if m.serverFilename == "" {
		if mirror.Filename() == "" {
			m.console.Warning(fmt.Sprintf("%s did not provide a filename", mirror.Name()))
			return m.console.Ask(fmt.Sprintf("download from %s anyway?", mirror.Name()), false)
		}
		m.serverFilename = mirror.Filename()
		return true
	}
	if filepath.Base(m.serverFilename) == mirror.Filename() {
		return true
	}
	m.console.Warning(fmt.Sprintf("%s serves a different filename (%s)", mirror.Name(), mirror.Filename()))
	return m.console.Ask(fmt.Sprintf("download from %s anyway?", mirror.Name()), false)
}

// Download races every mirror against the others until the file is
// complete, the user cancels via ctx, or every mirror has been lost.
func (m *Manager) Download(ctx context.Context) error {
	m.ctx = ctx
	defer m.outfile.Close()

	m.console.StartProgress(m.fileSize)
	defer m.console.StopProgress()

	for m.fileSize == 0 || m.writtenBytes < m.fileSize.v() {
		if ctx.Err() != nil {
			m.cancelAll()
			return ErrCancelled
		}

		m.waitConnections()

		for {
			res, ok := m.queue.Get(queuePollInterval)
			if !ok {
				break
			}
			res.dispatch(m)
			m.saveContext()
			if m.fatal != nil {
				m.cancelAll()
				return m.fatal
			}
		}
	}

	for _, mirror := range m.mirrors {
		mirror.join()
		mirror.close()
	}
	m.console.Message("", "\n")
	m.context.delete()
	return nil
}

// waitConnections reaps finished workers and either gives a ready mirror
// a new task or starts a connection for one that needs it.
func (m *Manager) waitConnections() {
	for _, mirror := range m.mirrors {
		if !mirror.waitConnection() {
			continue
		}
		switch {
		case mirror.IsReady():
			m.giveTask(mirror)
		case mirror.NeedConnect():
			mirror.connect(m.ctx, m.queue)
		}
	}
}

// giveTask hands mirror the next piece of work: a previously failed part
// if one is pending, otherwise the next unclaimed block.
func (m *Manager) giveTask(mirror *Mirror) {
	if len(m.failedParts) > 0 {
		offset := m.failedParts[0]
		m.failedParts = m.failedParts[1:]
		mirror.download(m.ctx, m.queue, offset)
		m.partsInProgress[offset] = struct{}{}
		return
	}
	if m.offset < m.fileSize.v() || m.fileSize == 0 {
		mirror.download(m.ctx, m.queue, m.offset)
		m.partsInProgress[m.offset] = struct{}{}
		m.offset += m.blockSize
	}
}

func (m *Manager) onHeadData(r HeadData) {
	mirror, ok := m.mirrors[r.MirrorName]
	if !ok {
		return
	}
	if r.FileSize.IsUnknown() {
		m.console.Error(fmt.Sprintf("%s did not report a file size", r.MirrorName))
		m.removeMirror(r.MirrorName)
		return
	}
	if m.fileSize == 0 {
		m.fileSize = r.FileSize
		m.console.StartProgress(m.fileSize)
		if err := m.outfile.Preallocate(m.fileSize); err != nil {
			m.fatal = err
			return
		}
		m.console.Message(fmt.Sprintf("downloading %s (%s)", m.outfile.filename, m.fileSize), "\n")
	} else if m.fileSize != r.FileSize {
		m.console.Error(fmt.Sprintf("%s: %v (expected %s, got %s)", r.MirrorName, errFileSizeMismatch, m.fileSize, r.FileSize))
		m.log.Warning("run %s: %s", m.runID, errFileSizeMismatch)
		m.removeMirror(r.MirrorName)
		return
	}
	mirror.SetFileSize(r.FileSize)
	mirror.markReady()
	if mirror.announce() {
		m.console.Message(fmt.Sprintf("connected to %s", r.MirrorName), "\n")
	}
	m.log.Info("run %s: mirror %s connected, file size %s", m.runID, r.MirrorName, r.FileSize)
}

func (m *Manager) onRedirect(r Redirect) {
	m.console.Message(fmt.Sprintf("%s redirected to %s", r.MirrorName, r.To.String()), "\n")
	m.removeMirror(r.MirrorName)
	m.createMirror(r.To)
}

func (m *Manager) onHeadError(r HeadError) {
	m.reportError(r.MirrorName, r.Status)
	m.removeMirror(r.MirrorName)
	m.checkFatal()
}

func (m *Manager) onProgress(r Progress) {
	mirror, ok := m.mirrors[r.MirrorName]
	if !ok {
		return
	}
	mirror.SetTaskProgress(r.Have)
	var inFlight ContentLength
	for _, mm := range m.mirrors {
		inFlight += mm.TaskProgress()
	}
	current := ContentLength(m.writtenBytes) + inFlight
	m.console.Progress(current, current-ContentLength(m.oldProgress))
}

func (m *Manager) onData(r Data) {
	delete(m.partsInProgress, r.Offset)
	if err := m.outfile.Seek(r.Offset); err != nil {
		m.fatal = err
		return
	}
	if err := m.outfile.Write(r.Bytes); err != nil {
		m.fatal = err
		return
	}
	m.writtenBytes += int64(len(r.Bytes))
	if mirror, ok := m.mirrors[r.MirrorName]; ok {
		mirror.done()
	}
}

func (m *Manager) onError(r ErrorResult) {
	delete(m.partsInProgress, r.Offset)
	m.failedParts = append(m.failedParts, r.Offset)
	m.reportError(r.MirrorName, r.Status)
	m.removeMirror(r.MirrorName)
	m.checkFatal()
}

func (m *Manager) reportError(name string, status int) {
	var msg string
	switch {
	case status == 0:
		msg = fmt.Sprintf("unable to connect to %s", name)
	case status == http.StatusOK:
		msg = fmt.Sprintf("%s does not support partial downloads", name)
	default:
		msg = fmt.Sprintf("%s returned status %d", name, status)
	}
	m.console.Error(msg)
	m.log.Error("run %s: %s", m.runID, msg)
	m.mirrorErrors = multierror.Append(m.mirrorErrors, fmt.Errorf("%s: %s", name, msg))
}

// checkFatal promotes the accumulated per-mirror errors to a fatal,
// download-ending error once no mirror remains.
func (m *Manager) checkFatal() {
	if len(m.mirrors) == 0 {
		m.fatal = fmt.Errorf("%w: %v", ErrFatal, m.mirrorErrors)
	}
}

func (m *Manager) removeMirror(name string) {
	mirror, ok := m.mirrors[name]
	if !ok {
		return
	}
	mirror.join()
	mirror.close()
	delete(m.mirrors, name)
}

func (m *Manager) saveContext() {
	pending := make([]int64, 0, len(m.partsInProgress)+len(m.failedParts))
	for off := range m.partsInProgress {
		pending = append(pending, off)
	}
	pending = append(pending, m.failedParts...)
	if err := m.context.update(m.offset, m.writtenBytes, pending); err != nil {
		m.log.Warning("run %s: failed to persist resume state: %v", m.runID, err)
	}
}

func (m *Manager) cancelAll() {
	for _, mirror := range m.mirrors {
		mirror.cancelWorkers()
	}
	for _, mirror := range m.mirrors {
		mirror.join()
		mirror.close()
	}
}
