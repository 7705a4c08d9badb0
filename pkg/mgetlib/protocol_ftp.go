package mgetlib

import (
	"context"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
)

// ftpConn wraps the control connection handed from an FTP connWorker to
// the download worker that consumes it. Unlike HTTP's keep-alive client,
// an FTP control connection is single-use for a RETR: the download worker
// closes it when the task finishes, and the Mirror must dial a fresh one
// for its next task.
type ftpConn struct {
	sc *ftp.ServerConn
}

// ftpConnWorker logs in anonymously and issues SIZE to discover the file
// size, reporting it as HeadData with status 200 for HTTP compatibility —
// FTP has no status codes of its own.
type ftpConnWorker struct {
	workerBase
	url URL
	sc  *ftp.ServerConn
}

func newFTPConnWorker(parent context.Context, q *ResultQueue, url URL, timeout time.Duration) *ftpConnWorker {
	return &ftpConnWorker{workerBase: newWorkerBase(parent, q, timeout), url: url}
}

func (w *ftpConnWorker) Conn() conn { return &ftpConn{sc: w.sc} }

func (w *ftpConnWorker) run() {
	sc, err := ftp.Dial(w.url.Host, ftp.DialWithTimeout(w.timeout))
	if err != nil {
		w.finish(HeadError{MirrorName: w.url.Host, Status: 0})
		return
	}
	if err := sc.Login("anonymous", "anonymous"); err != nil {
		sc.Quit()
		w.finish(HeadError{MirrorName: w.url.Host, Status: 0})
		return
	}
	size, err := sc.FileSize(w.url.Request)
	if err != nil {
		sc.Quit()
		w.finish(HeadError{MirrorName: w.url.Host, Status: 0})
		return
	}
	w.sc = sc
	w.finish(HeadData{MirrorName: w.url.Host, Status: 200, FileSize: ContentLength(size)})
}

// ftpDownloadWorker issues REST+RETR at offset and reads up to blockSize
// bytes, or fewer at end of file — FTP carries no Content-Length on a
// RETR response, so fileSize is what tells the worker it has reached the
// last, short block.
type ftpDownloadWorker struct {
	workerBase
	url       URL
	sc        *ftp.ServerConn
	offset    int64
	blockSize int64
	fileSize  ContentLength
}

func newFTPDownloadWorker(parent context.Context, q *ResultQueue, url URL, c *ftpConn, offset, blockSize int64, fileSize ContentLength) *ftpDownloadWorker {
	return &ftpDownloadWorker{
		workerBase: newWorkerBase(parent, q, 0),
		url:        url,
		sc:         c.sc,
		offset:     offset,
		blockSize:  blockSize,
		fileSize:   fileSize,
	}
}

func (w *ftpDownloadWorker) run() {
	defer w.sc.Quit()

	resp, err := w.sc.RetrFrom(w.url.Request, uint64(w.offset))
	if err != nil {
		w.finish(ErrorResult{MirrorName: w.url.Host, Status: 0, Offset: w.offset})
		return
	}
	defer resp.Close()

	data := make([]byte, 0, w.blockSize)
	buf := make([]byte, FragmentSize)
	for int64(len(data)) < w.blockSize {
		want := w.blockSize - int64(len(data))
		if want > int64(len(buf)) {
			want = int64(len(buf))
		}
		n, rerr := resp.Read(buf[:want])
		if n > 0 {
			data = append(data, buf[:n]...)
			w.queue.Put(Progress{MirrorName: w.url.Host, Status: 206, Have: ContentLength(len(data))})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.finish(ErrorResult{MirrorName: w.url.Host, Status: 0, Offset: w.offset})
			return
		}
		if !w.fileSize.IsUnknown() && w.fileSize.v()-w.offset-int64(len(data)) <= 0 {
			break
		}
	}
	w.finish(Data{MirrorName: w.url.Host, Status: 206, Offset: w.offset, Bytes: data})
}
