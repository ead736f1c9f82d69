// Package vfs is the file I/O boundary of the editor.
//
// Buffers never touch the operating system directly. They read and write
// through a VFS, so tests (and headless runs) can swap the disk for MemFS.
package vfs

import (
	"io/fs"
	"time"
)

// VFS reads and writes whole files.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file content, creating the file if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// Abs returns the absolute, cleaned form of path.
	Abs(path string) (string, error)

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// FileInfo describes a file.
type FileInfo struct {
	Path    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// DefaultFileMode is used when writing a file that does not exist yet.
const DefaultFileMode fs.FileMode = 0o644
