package vfs

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// MemFS implements VFS in memory. Directories exist implicitly.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	now   func() time.Time
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		now:   time.Now,
	}
}

// SetClock sets the source of modification times.
func (m *MemFS) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Ensure MemFS implements VFS.
var _ VFS = (*MemFS)(nil)

// ReadFile returns a copy of the file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.cleanPath(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, m.missing("read", filePath)
	}
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// WriteFile stores a copy of data.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.cleanPath(filePath)
	if m.isDir(filePath) {
		return &fs.PathError{Op: "write", Path: filePath, Err: syscall.EISDIR}
	}
	if f, ok := m.files[filePath]; ok {
		perm = f.mode
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.files[filePath] = &memFile{content: content, mode: perm, modTime: m.now()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.cleanPath(filePath)
	if f, ok := m.files[filePath]; ok {
		return FileInfo{
			Path:    filePath,
			Size:    int64(len(f.content)),
			Mode:    f.mode,
			ModTime: f.modTime,
		}, nil
	}
	if m.isDir(filePath) {
		return FileInfo{Path: filePath, Mode: fs.ModeDir | 0o755, IsDir: true}, nil
	}
	return FileInfo{}, m.missing("stat", filePath)
}

// Abs returns the cleaned path; every MemFS path is absolute.
func (m *MemFS) Abs(filePath string) (string, error) {
	return m.cleanPath(filePath), nil
}

// Exists returns true if the path is a file or a directory holding files.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.cleanPath(filePath)
	_, ok := m.files[filePath]
	return ok || m.isDir(filePath)
}

// AddFile is a convenience method for adding files during setup.
func (m *MemFS) AddFile(filePath string, content string) error {
	return m.WriteFile(filePath, []byte(content), DefaultFileMode)
}

// Remove deletes a file.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.cleanPath(filePath)
	if _, ok := m.files[filePath]; !ok {
		return m.missing("remove", filePath)
	}
	delete(m.files, filePath)
	return nil
}

// Files returns all file paths in sorted order.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for f := range m.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// isDir reports whether any file lives under dir. Callers hold mu.
func (m *MemFS) isDir(dir string) bool {
	if dir == "/" {
		return true
	}
	prefix := dir + "/"
	for f := range m.files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

func (m *MemFS) missing(op, filePath string) error {
	return &fs.PathError{Op: op, Path: filePath, Err: fs.ErrNotExist}
}

// cleanPath normalizes a path.
func (m *MemFS) cleanPath(p string) string {
	p = path.Clean(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
