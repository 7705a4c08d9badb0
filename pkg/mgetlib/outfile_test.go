package mgetlib

import (
	"os"
	"path/filepath"
	"testing"
)

// recordingConsole is a minimal Console fake for tests: Ask answers with a
// fixed value, everything else is silently recorded.
type recordingConsole struct {
	askAnswer bool
	warnings  []string
	errors    []string
	messages  []string
}

func (c *recordingConsole) Message(text, end string)           { c.messages = append(c.messages, text) }
func (c *recordingConsole) Warning(text string)                { c.warnings = append(c.warnings, text) }
func (c *recordingConsole) Error(text string)                  { c.errors = append(c.errors, text) }
func (c *recordingConsole) Ask(text string, def bool) bool      { return c.askAnswer }
func (c *recordingConsole) StartProgress(total ContentLength)  {}
func (c *recordingConsole) Progress(current, session ContentLength) {}
func (c *recordingConsole) StopProgress()                       {}

func TestOpenOutputFile_FreshFile(t *testing.T) {
	dir := t.TempDir()
	console := &recordingConsole{askAnswer: true}

	of, err := openOutputFile("result.bin", filepath.Join(dir, "result.bin"), console)
	if err != nil {
		t.Fatalf("openOutputFile: %v", err)
	}
	defer of.Close()

	if _, err := os.Stat(filepath.Join(dir, "result.bin")); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
	if !of.context.Clean {
		t.Error("expected a fresh Context to be Clean")
	}
}

func TestOpenOutputFile_DirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	console := &recordingConsole{askAnswer: true}

	of, err := openOutputFile("server-name.bin", dir, console)
	if err != nil {
		t.Fatalf("openOutputFile: %v", err)
	}
	defer of.Close()

	want := filepath.Join(dir, "server-name.bin")
	if of.fullpath != want {
		t.Errorf("fullpath = %q, want %q", of.fullpath, want)
	}
}

func TestOpenOutputFile_ExistingFileDeclineOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.bin")
	if err := os.WriteFile(path, []byte("old"), DefaultFileMode); err != nil {
		t.Fatal(err)
	}
	console := &recordingConsole{askAnswer: false}

	_, err := openOutputFile("result.bin", path, console)
	if err == nil {
		t.Fatal("expected cancellation when overwrite is declined")
	}
}

func TestOpenOutputFile_ResumeMissingFileRestartsFromScratch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.bin")

	// Write a resume record with no underlying file.
	c := loadContext(path)
	if err := c.update(4096, 2048, []int64{0}); err != nil {
		t.Fatal(err)
	}

	console := &recordingConsole{askAnswer: true}
	of, err := openOutputFile("result.bin", path, console)
	if err != nil {
		t.Fatalf("openOutputFile: %v", err)
	}
	defer of.Close()

	if !of.context.Clean {
		t.Error("expected the context to be reset to Clean")
	}
}

func TestOutputFile_SeekWriteRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.bin")
	console := &recordingConsole{askAnswer: true}

	of, err := openOutputFile("result.bin", path, console)
	if err != nil {
		t.Fatalf("openOutputFile: %v", err)
	}
	defer of.Close()

	if err := of.Preallocate(16); err != nil {
		t.Fatalf("Preallocate: %v", err)
	}
	if err := of.Seek(4); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if err := of.Write([]byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	of.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 16 {
		t.Fatalf("file length = %d, want 16", len(raw))
	}
	if string(raw[4:8]) != "data" {
		t.Errorf("raw[4:8] = %q, want data", raw[4:8])
	}
}
