package mgetlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DisableCompression: true,
		},
		// mget resolves redirects itself (Manager.onRedirect) so it can
		// re-point a mirror rather than silently follow on its behalf.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func setCommonHeaders(req *http.Request, u URL) {
	headers := Headers{
		{Key: "User-Agent", Value: DefUserAgent},
		{Key: "Referer", Value: fmt.Sprintf("%s://%s/", u.Protocol, u.Host)},
	}
	headers.Set(req.Header)
}

// httpConnWorker issues a HEAD request and classifies the response into
// HeadData, Redirect, or HeadError. On success it keeps the client alive
// so the Mirror can hand it straight to a download worker.
type httpConnWorker struct {
	workerBase
	url    URL
	client *http.Client
}

func newHTTPConnWorker(parent context.Context, q *ResultQueue, url URL, timeout time.Duration) *httpConnWorker {
	return &httpConnWorker{workerBase: newWorkerBase(parent, q, timeout), url: url}
}

func (w *httpConnWorker) Conn() conn { return w.client }

func (w *httpConnWorker) run() {
	client := newHTTPClient(w.timeout)
	req, err := http.NewRequestWithContext(w.ctx, http.MethodHead, w.url.String(), nil)
	if err != nil {
		w.finish(HeadError{MirrorName: w.url.Host, Status: 0})
		return
	}
	setCommonHeaders(req, w.url)

	resp, err := client.Do(req)
	if err != nil {
		w.finish(HeadError{MirrorName: w.url.Host, Status: 0})
		return
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode/100 == 3:
		location := resp.Header.Get("Location")
		to, err := resolveLocation(w.url, location)
		if err != nil {
			w.finish(HeadError{MirrorName: w.url.Host, Status: resp.StatusCode})
			return
		}
		w.finish(Redirect{MirrorName: w.url.Host, Status: resp.StatusCode, To: to})
	case resp.StatusCode == http.StatusOK:
		size := resp.ContentLength
		if size < 0 {
			size = -1
		}
		w.client = client
		w.finish(HeadData{MirrorName: w.url.Host, Status: resp.StatusCode, FileSize: ContentLength(size)})
	default:
		w.finish(HeadError{MirrorName: w.url.Host, Status: resp.StatusCode})
	}
}

// httpDownloadWorker issues a ranged GET for one task and streams the
// response in FragmentSize chunks, publishing Progress as it goes.
type httpDownloadWorker struct {
	workerBase
	url       URL
	client    *http.Client
	offset    int64
	blockSize int64
}

func newHTTPDownloadWorker(parent context.Context, q *ResultQueue, url URL, client *http.Client, offset, blockSize int64) *httpDownloadWorker {
	return &httpDownloadWorker{
		workerBase: newWorkerBase(parent, q, 0),
		url:        url,
		client:     client,
		offset:     offset,
		blockSize:  blockSize,
	}
}

func (w *httpDownloadWorker) Conn() conn { return w.client }

func (w *httpDownloadWorker) run() {
	req, err := http.NewRequestWithContext(w.ctx, http.MethodGet, w.url.String(), nil)
	if err != nil {
		w.finish(ErrorResult{MirrorName: w.url.Host, Status: 0, Offset: w.offset})
		return
	}
	setCommonHeaders(req, w.url)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", w.offset, w.offset+w.blockSize-1))

	resp, err := w.client.Do(req)
	if err != nil {
		w.finish(ErrorResult{MirrorName: w.url.Host, Status: 0, Offset: w.offset})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		w.finish(ErrorResult{MirrorName: w.url.Host, Status: resp.StatusCode, Offset: w.offset})
		return
	}

	partSize := resp.ContentLength
	data := make([]byte, 0, w.blockSize)
	buf := make([]byte, FragmentSize)
	for int64(len(data)) < partSize || partSize < 0 {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			w.queue.Put(Progress{MirrorName: w.url.Host, Status: resp.StatusCode, Have: ContentLength(len(data))})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.finish(ErrorResult{MirrorName: w.url.Host, Status: 0, Offset: w.offset})
			return
		}
	}
	w.finish(Data{MirrorName: w.url.Host, Status: resp.StatusCode, Offset: w.offset, Bytes: data})
}
