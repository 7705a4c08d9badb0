package mgetlib

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPConnWorker_HeadData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Length", "2048")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := ParseURL(srv.URL + "/file.bin")
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}

	q := NewResultQueue()
	w := newHTTPConnWorker(context.Background(), q, u, time.Second)
	w.run()

	res, ok := q.Get(time.Second)
	if !ok {
		t.Fatal("expected a result")
	}
	hd, ok := res.(HeadData)
	if !ok {
		t.Fatalf("result type = %T, want HeadData", res)
	}
	if hd.FileSize != 2048 {
		t.Errorf("FileSize = %d, want 2048", hd.FileSize)
	}
	if w.Conn() == nil {
		t.Error("expected a live client to be retained")
	}
}

func TestHTTPConnWorker_Redirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new-location.bin", http.StatusFound)
	}))
	defer srv.Close()

	u, _ := ParseURL(srv.URL + "/old.bin")
	q := NewResultQueue()
	w := newHTTPConnWorker(context.Background(), q, u, time.Second)
	w.run()

	res, ok := q.Get(time.Second)
	if !ok {
		t.Fatal("expected a result")
	}
	rd, ok := res.(Redirect)
	if !ok {
		t.Fatalf("result type = %T, want Redirect", res)
	}
	if rd.To.Request != "/new-location.bin" {
		t.Errorf("To.Request = %q", rd.To.Request)
	}
}

func TestHTTPConnWorker_HeadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	u, _ := ParseURL(srv.URL + "/missing.bin")
	q := NewResultQueue()
	w := newHTTPConnWorker(context.Background(), q, u, time.Second)
	w.run()

	res, ok := q.Get(time.Second)
	if !ok {
		t.Fatal("expected a result")
	}
	he, ok := res.(HeadError)
	if !ok {
		t.Fatalf("result type = %T, want HeadError", res)
	}
	if he.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", he.Status)
	}
}

func TestHTTPDownloadWorker_RangedGet(t *testing.T) {
	payload := []byte("0123456789ABCDEF")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rng := r.Header.Get("Range")
		if rng != "bytes=4-11" {
			t.Errorf("Range = %q, want bytes=4-11", rng)
		}
		w.Header().Set("Content-Range", "bytes 4-11/16")
		w.Header().Set("Content-Length", "8")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(payload[4:12])
	}))
	defer srv.Close()

	u, _ := ParseURL(srv.URL + "/payload.bin")
	q := NewResultQueue()
	client := newHTTPClient(time.Second)
	w := newHTTPDownloadWorker(context.Background(), q, u, client, 4, 8)
	w.run()

	var data Data
	found := false
	for i := 0; i < 10; i++ {
		res, ok := q.Get(time.Second)
		if !ok {
			break
		}
		if d, isData := res.(Data); isData {
			data = d
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a terminal Data result")
	}
	if string(data.Bytes) != "456789AB" {
		t.Errorf("Bytes = %q, want 456789AB", data.Bytes)
	}
	if data.Offset != 4 {
		t.Errorf("Offset = %d, want 4", data.Offset)
	}
}

func TestHTTPDownloadWorker_NonPartialContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("whole file, no ranges here"))
	}))
	defer srv.Close()

	u, _ := ParseURL(srv.URL + "/payload.bin")
	q := NewResultQueue()
	client := newHTTPClient(time.Second)
	w := newHTTPDownloadWorker(context.Background(), q, u, client, 0, 8)
	w.run()

	res, ok := q.Get(time.Second)
	if !ok {
		t.Fatal("expected a result")
	}
	errRes, ok := res.(ErrorResult)
	if !ok {
		t.Fatalf("result type = %T, want ErrorResult", res)
	}
	if errRes.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", errRes.Status)
	}
}

func TestHTTPConnWorker_ConnectionRefused(t *testing.T) {
	u, _ := ParseURL("http://127.0.0.1:1/unreachable")
	q := NewResultQueue()
	w := newHTTPConnWorker(context.Background(), q, u, 200*time.Millisecond)
	w.run()

	res, ok := q.Get(2 * time.Second)
	if !ok {
		t.Fatal("expected a result")
	}
	he, ok := res.(HeadError)
	if !ok {
		t.Fatalf("result type = %T, want HeadError", res)
	}
	if he.Status != 0 {
		t.Errorf("Status = %d, want 0 for a transport failure", he.Status)
	}
}
