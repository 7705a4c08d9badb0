package mgetlib

import (
	"testing"

	"github.com/mget-project/mget/pkg/logger"
)

func TestResult_MirrorIdentity(t *testing.T) {
	cases := []Result{
		HeadData{MirrorName: "a"},
		Redirect{MirrorName: "b"},
		HeadError{MirrorName: "c"},
		Progress{MirrorName: "d"},
		Data{MirrorName: "e"},
		ErrorResult{MirrorName: "f"},
	}
	want := []string{"a", "b", "c", "d", "e", "f"}
	for i, r := range cases {
		if got := r.Mirror(); got != want[i] {
			t.Errorf("case %d: Mirror() = %q, want %q", i, got, want[i])
		}
	}
}

func TestResult_DispatchRoutesToManager(t *testing.T) {
	u, _ := ParseURL("http://example.com/file.bin")
	cfg := DefaultConfig()
	cfg.UserPath = t.TempDir()
	cfg.URLs = []URL{u}

	m, err := NewManager(cfg, &recordingConsole{askAnswer: true}, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	// onHeadData should record the reported file size on the first probe.
	HeadData{MirrorName: "example.com", Status: 200, FileSize: 4096}.dispatch(m)
	if m.fileSize != 4096 {
		t.Errorf("fileSize = %d, want 4096 after dispatching HeadData", m.fileSize)
	}
	if !m.mirrors["example.com"].IsReady() {
		t.Error("mirror should be ready after a successful HeadData dispatch")
	}
}
