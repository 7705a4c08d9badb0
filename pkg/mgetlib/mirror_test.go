package mgetlib

import (
	"testing"
)

func TestMirror_InitialState(t *testing.T) {
	u, _ := ParseURL("http://example.com/file.bin")
	m := newMirror(u, DefaultBlockSize, DefaultTimeout)
	if !m.NeedConnect() {
		t.Error("a fresh mirror should need a connection")
	}
	if m.IsReady() {
		t.Error("a fresh mirror should not be ready before HeadData")
	}
}

func TestMirror_Done_HTTP_StaysConnected(t *testing.T) {
	u, _ := ParseURL("http://example.com/file.bin")
	m := newMirror(u, DefaultBlockSize, DefaultTimeout)
	m.markReady()

	m.done()

	if !m.IsReady() {
		t.Error("an HTTP mirror should go straight back to ready after a finished task")
	}
	if m.NeedConnect() {
		t.Error("an HTTP mirror's connection survives a finished task")
	}
}

func TestMirror_Done_FTP_ForcesReconnect(t *testing.T) {
	u, _ := ParseURL("ftp://example.com/file.bin")
	m := newMirror(u, DefaultBlockSize, DefaultTimeout)
	m.markReady()

	m.done()

	if m.IsReady() {
		t.Error("an FTP mirror should not be ready until it reconnects")
	}
	if !m.NeedConnect() {
		t.Error("an FTP mirror's control connection does not survive a RETR")
	}
}

func TestMirror_AnnounceOnlyOnce(t *testing.T) {
	u, _ := ParseURL("http://example.com/file.bin")
	m := newMirror(u, DefaultBlockSize, DefaultTimeout)
	if !m.announce() {
		t.Error("first announce() should report true")
	}
	if m.announce() {
		t.Error("second announce() should report false")
	}
}

func TestMirror_Name(t *testing.T) {
	u, _ := ParseURL("http://mirror.example.com:8080/file.bin")
	m := newMirror(u, DefaultBlockSize, DefaultTimeout)
	if m.Name() != "mirror.example.com:8080" {
		t.Errorf("Name() = %q", m.Name())
	}
}
