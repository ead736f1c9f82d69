package vfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFS_WriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	f := NewOSFS()

	if f.Exists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := f.WriteFile(path, []byte("one"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := f.WriteFile(path, []byte("two"), DefaultFileMode); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	content, err := f.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "two" {
		t.Errorf("content: got %q, want %q", content, "two")
	}

	info, err := f.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode.Perm() != 0o600 {
		t.Errorf("mode: got %v, want 0600", info.Mode.Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
