package mgetlib

import (
	"path/filepath"
	"testing"
)

func TestLoadContext_Clean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	c := loadContext(path)
	if !c.Clean {
		t.Error("expected Clean for a file with no resume record")
	}
}

func TestContext_UpdateAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	c := loadContext(path)

	if err := c.update(1024, 512, []int64{256, 768}); err != nil {
		t.Fatalf("update: %v", err)
	}

	reloaded := loadContext(path)
	if reloaded.Clean {
		t.Fatal("reloaded record should not be Clean")
	}
	if reloaded.Offset != 1024 || reloaded.WrittenBytes != 512 {
		t.Errorf("Offset/WrittenBytes = %d/%d, want 1024/512", reloaded.Offset, reloaded.WrittenBytes)
	}
	if len(reloaded.FailedParts) != 2 || reloaded.FailedParts[0] != 256 || reloaded.FailedParts[1] != 768 {
		t.Errorf("FailedParts = %v", reloaded.FailedParts)
	}
}

func TestContext_UpdateNoopWhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	c := loadContext(path)
	if err := c.update(100, 50, []int64{1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := c.update(100, 50, []int64{1}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	reloaded := loadContext(path)
	if reloaded.Offset != 100 {
		t.Errorf("Offset = %d, want 100", reloaded.Offset)
	}
}

func TestContext_ModifiedIgnoresFailedPartsOrder(t *testing.T) {
	c := &Context{Offset: 10, WrittenBytes: 10, FailedParts: []int64{1, 2, 3}}
	if c.modified(10, 10, []int64{3, 2, 1}) {
		t.Error("reordering failed parts should not count as modified")
	}
	if !c.modified(10, 10, []int64{1, 2}) {
		t.Error("a shorter failed-parts list should count as modified")
	}
}

func TestContext_Reset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	c := loadContext(path)
	c.update(999, 999, []int64{1, 2, 3})

	if err := c.reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !c.Clean {
		t.Error("expected Clean after reset")
	}

	reloaded := loadContext(path)
	if reloaded.Offset != 0 || reloaded.WrittenBytes != 0 || len(reloaded.FailedParts) != 0 {
		t.Errorf("reloaded after reset = %+v", reloaded)
	}
}

func TestContext_Delete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	c := loadContext(path)
	c.update(1, 1, nil)

	c.delete()

	reloaded := loadContext(path)
	if !reloaded.Clean {
		t.Error("expected Clean after delete")
	}
}
