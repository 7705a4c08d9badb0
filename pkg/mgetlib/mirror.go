package mgetlib

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Mirror is a passive state machine for one mirror address. It owns no
// goroutine of its own: the Manager drives every transition (connect,
// download, done) and is the only reader of its ready/needConnect flags.
// Workers spawned by a Mirror talk back to the Manager only through the
// shared ResultQueue, never through the Mirror.
type Mirror struct {
	mu sync.Mutex

	url       URL
	blockSize int64
	timeout   time.Duration

	fileSize     ContentLength
	taskProgress ContentLength
	c            conn

	needConnect bool
	ready       bool
	announced   bool

	connW connWorker
	dlW   dlWorker
}

func newMirror(url URL, blockSize int64, timeout time.Duration) *Mirror {
	return &Mirror{url: url, blockSize: blockSize, timeout: timeout, needConnect: true}
}

// Name is the mirror's identity: its host, used as the map key in Manager
// and as the label attached to every Result it produces.
func (m *Mirror) Name() string { return m.url.Host }

// Filename is the file name this mirror's URL points at.
func (m *Mirror) Filename() string { return m.url.Filename }

func (m *Mirror) isFTP() bool { return m.url.Protocol == ProtoFTP }

// connect starts a fresh connection worker in the background.
func (m *Mirror) connect(ctx context.Context, q *ResultQueue) {
	m.mu.Lock()
	m.ready = false
	m.needConnect = false
	w := newConnWorker(ctx, q, m.url, m.timeout)
	m.connW = w
	m.mu.Unlock()
	go w.run()
}

// download starts a download worker for the task beginning at offset.
func (m *Mirror) download(ctx context.Context, q *ResultQueue, offset int64) {
	m.mu.Lock()
	m.ready = false
	w := newDownloadWorker(ctx, q, m.url, m.c, offset, m.blockSize, m.fileSize)
	m.dlW = w
	m.mu.Unlock()
	go w.run()
}

// waitConnection reports whether the mirror currently has no worker in
// flight, reaping a just-finished connW/dlW along the way. It never
// blocks: a worker still running is simply reported as such.
func (m *Mirror) waitConnection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connW != nil {
		select {
		case <-m.connW.Ready():
			m.c = m.connW.Conn()
			m.connW = nil
		default:
			return false
		}
	}
	if m.dlW != nil {
		select {
		case <-m.dlW.Ready():
			m.dlW = nil
		default:
			return false
		}
	}
	return true
}

// IsReady reports whether the mirror may be given a new task.
func (m *Mirror) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// NeedConnect reports whether the mirror must (re)connect before it can
// take a task.
func (m *Mirror) NeedConnect() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.needConnect
}

// SetFileSize records the size discovered on this mirror's first
// successful probe.
func (m *Mirror) SetFileSize(size ContentLength) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileSize = size
}

// FileSize returns the size this mirror reported.
func (m *Mirror) FileSize() ContentLength {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fileSize
}

// SetTaskProgress records bytes accumulated so far in the in-flight task.
func (m *Mirror) SetTaskProgress(have ContentLength) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskProgress = have
}

// TaskProgress returns the in-flight task's accumulated byte count.
func (m *Mirror) TaskProgress() ContentLength {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskProgress
}

// done marks the current task complete. FTP's control connection does not
// survive a RETR, so an FTP mirror comes out of done() needing a fresh
// connection instead of going straight back to ready.
func (m *Mirror) done() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskProgress = 0
	if m.isFTP() {
		m.ready = false
		m.needConnect = true
		return
	}
	m.ready = true
}

// markReady is called once the Manager has accepted this mirror's file
// size and it may start taking download tasks.
func (m *Mirror) markReady() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	m.needConnect = false
}

// announce reports whether the "connected to mirror" message should be
// printed: once for any mirror, since HTTP(S) only ever connects once and
// FTP would otherwise repeat the message on every reconnect.
func (m *Mirror) announce() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.announced {
		return false
	}
	m.announced = true
	return true
}

// cancelWorkers asks any in-flight workers to stop; it does not wait for
// them to exit.
func (m *Mirror) cancelWorkers() {
	m.mu.Lock()
	cw, dw := m.connW, m.dlW
	m.mu.Unlock()
	if cw != nil {
		cw.cancel()
	}
	if dw != nil {
		dw.cancel()
	}
}

// join blocks until any in-flight workers have published their terminal
// result and exited.
func (m *Mirror) join() {
	m.mu.Lock()
	cw, dw := m.connW, m.dlW
	m.mu.Unlock()
	if cw != nil {
		<-cw.Ready()
	}
	if dw != nil {
		<-dw.Ready()
	}
}

// close releases the mirror's underlying connection, if any.
func (m *Mirror) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch c := m.c.(type) {
	case *http.Client:
		c.CloseIdleConnections()
	case *ftpConn:
		if c != nil && c.sc != nil {
			c.sc.Quit()
		}
	}
}
