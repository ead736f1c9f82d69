package filestore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/project/vfs"
)

// Handle is a reference-counted entry for one FileBuffer.
//
// Every view of a file shares the same Handle. The buffer is dropped from
// the Store when the last reference is released.
type Handle struct {
	id  uuid.UUID
	buf *buffer.FileBuffer

	mu       sync.Mutex
	path     string
	format   vfs.Format
	modTime  time.Time
	refs     int
	released bool
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Buffer returns the shared buffer.
func (h *Handle) Buffer() *buffer.FileBuffer {
	return h.buf
}

// Path returns the absolute file path, or "" for a virtual buffer.
func (h *Handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

// Format returns the on-disk format the buffer is saved with.
func (h *Handle) Format() vfs.Format {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.format
}

// DiskModTime returns the file's modification time as of the last load or
// save.
func (h *Handle) DiskModTime() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modTime
}

// Refs returns the number of live references.
func (h *Handle) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}

// Released returns true once the last reference is gone.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

func (h *Handle) synced(format vfs.Format, modTime time.Time) {
	h.mu.Lock()
	h.format = format
	h.modTime = modTime
	h.mu.Unlock()
}
