package mgetlib

import (
	"context"
	"net/http"
	"time"
)

// conn is the live, protocol-specific connection handed from a connWorker
// to the Mirror that spawned it, and onward to a dlWorker. It is opaque to
// the Manager and the Mirror: only the protocol package that produced it
// knows how to use it. For HTTP/HTTPS it is an *http.Client with a
// keep-alive transport; for FTP it is an *ftpConn wrapping the
// *ftp.ServerConn control channel.
type conn interface{}

// connWorker probes a mirror once: resolves redirects, confirms
// reachability, and discovers the file size. It reports exactly one
// Result (HeadData, Redirect, or HeadError) to its queue, then signals
// Ready.
type connWorker interface {
	run()
	cancel()
	// Ready is closed once, after run has published its single Result.
	Ready() <-chan struct{}
	// Conn returns the live connection established by run, valid only
	// after a HeadData result has been published.
	Conn() conn
}

// dlWorker downloads one task — block_size bytes (or fewer, at end of
// file) starting at a given offset — over an already-established conn. It
// reports zero or more Progress results followed by exactly one terminal
// Data or ErrorResult, then signals Ready.
type dlWorker interface {
	run()
	cancel()
	Ready() <-chan struct{}
}

// workerBase factors out the cancellation plumbing and one-shot readiness
// signal shared by every connWorker/dlWorker implementation.
type workerBase struct {
	ctx     context.Context
	stop    context.CancelFunc
	ready   chan struct{}
	queue   *ResultQueue
	timeout time.Duration
}

func newWorkerBase(parent context.Context, q *ResultQueue, timeout time.Duration) workerBase {
	ctx, stop := context.WithCancel(parent)
	return workerBase{ctx: ctx, stop: stop, ready: make(chan struct{}), queue: q, timeout: timeout}
}

func (w *workerBase) cancel() { w.stop() }

func (w *workerBase) Ready() <-chan struct{} { return w.ready }

// finish publishes the worker's single terminal result and closes Ready.
// Every connWorker/dlWorker run method must end by calling finish exactly
// once, even on the cancelled/error path.
func (w *workerBase) finish(r Result) {
	w.queue.Put(r)
	close(w.ready)
}

// newConnWorker builds the connWorker appropriate for url's protocol.
func newConnWorker(ctx context.Context, q *ResultQueue, url URL, timeout time.Duration) connWorker {
	switch url.Protocol {
	case ProtoFTP:
		return newFTPConnWorker(ctx, q, url, timeout)
	default:
		return newHTTPConnWorker(ctx, q, url, timeout)
	}
}

// newDownloadWorker builds the dlWorker appropriate for url's protocol.
// c is the conn previously produced by this mirror's connWorker.
// fileSize is only consulted by the FTP worker, which has no Content-Range
// header to tell it when the final, short block ends.
func newDownloadWorker(ctx context.Context, q *ResultQueue, url URL, c conn, offset, blockSize int64, fileSize ContentLength) dlWorker {
	switch url.Protocol {
	case ProtoFTP:
		return newFTPDownloadWorker(ctx, q, url, c.(*ftpConn), offset, blockSize, fileSize)
	default:
		return newHTTPDownloadWorker(ctx, q, url, c.(*http.Client), offset, blockSize)
	}
}
