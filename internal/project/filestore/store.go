// Package filestore owns the FileBuffers of open files.
//
// A Store hands out reference-counted Handles: opening a path that is
// already open returns the same Handle with one more reference, so every
// view of a file edits the same buffer and history. The Store also moves
// buffers between memory and disk (Save, Reload) through a vfs.VFS.
package filestore

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/project/vfs"
)

// DefaultMaxFileSize is the largest file Open reads.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Languages tokenizes buffers and detects their language from a path.
type Languages interface {
	buffer.Tokenizer
	Detect(path string) string
}

// Store manages open buffers. It is safe for concurrent use, but the
// buffers it returns are not: callers serialize edits, saves and reloads
// of the same buffer.
type Store struct {
	mu      sync.Mutex
	handles map[uuid.UUID]*Handle
	paths   map[string]*Handle

	vfs         vfs.VFS
	languages   Languages
	maxFileSize int64
	historyOpts []history.Option
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxFileSize sets the maximum file size (0 = unlimited).
func WithMaxFileSize(size int64) Option {
	return func(s *Store) {
		s.maxFileSize = size
	}
}

// WithHistory sets the history options of every buffer the store creates.
func WithHistory(opts ...history.Option) Option {
	return func(s *Store) {
		s.historyOpts = append(s.historyOpts, opts...)
	}
}

// New creates a Store reading and writing through files.
func New(files vfs.VFS, languages Languages, opts ...Option) *Store {
	s := &Store{
		handles:     make(map[uuid.UUID]*Handle),
		paths:       make(map[string]*Handle),
		vfs:         files,
		languages:   languages,
		maxFileSize: DefaultMaxFileSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a Handle for path, adding a reference to it.
// A path that does not exist yet opens as an empty buffer; it is created on
// the first Save.
func (s *Store) Open(ctx context.Context, path string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}

	absPath, err := s.vfs.Abs(path)
	if err != nil {
		return nil, &PathError{Op: "open", Path: path, Err: err}
	}

	if h := s.acquire(absPath); h != nil {
		return h, nil
	}

	text, format, modTime, err := s.load(absPath)
	if err != nil {
		return nil, &PathError{Op: "open", Path: absPath, Err: err}
	}

	lang := s.languages.Detect(absPath)
	buf := buffer.New(text,
		buffer.WithPath(absPath),
		buffer.WithLanguage(lang),
		buffer.WithHistory(s.historyOpts...),
	)
	if err := buf.Retokenize(s.languages); err != nil {
		return nil, &PathError{Op: "open", Path: absPath, Err: err}
	}

	h := &Handle{
		id:      uuid.New(),
		buf:     buf,
		path:    absPath,
		format:  format,
		modTime: modTime,
		refs:    1,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another goroutine may have opened it meanwhile.
	if existing, ok := s.paths[absPath]; ok {
		existing.mu.Lock()
		existing.refs++
		existing.mu.Unlock()
		return existing, nil
	}
	s.handles[h.id] = h
	s.paths[absPath] = h
	return h, nil
}

// Virtual creates a buffer with no file behind it.
func (s *Store) Virtual(text, lang string) (*Handle, error) {
	if err := s.languages.Supports(lang); err != nil {
		return nil, &PathError{Op: "virtual", Err: err}
	}
	buf := buffer.New(text,
		buffer.WithLanguage(lang),
		buffer.WithHistory(s.historyOpts...),
	)
	if err := buf.Retokenize(s.languages); err != nil {
		return nil, &PathError{Op: "virtual", Err: err}
	}

	h := &Handle{id: uuid.New(), buf: buf, format: vfs.DefaultFormat, refs: 1}
	s.mu.Lock()
	s.handles[h.id] = h
	s.mu.Unlock()
	return h, nil
}

// Acquire adds a reference to h.
func (s *Store) Acquire(h *Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h.id]; !ok {
		return s.lost(h)
	}
	h.mu.Lock()
	h.refs++
	h.mu.Unlock()
	return nil
}

// Release drops one reference to h. The last release removes the buffer
// from the store; unsaved changes are discarded.
func (s *Store) Release(h *Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h.id]; !ok {
		return s.lost(h)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs--
	if h.refs > 0 {
		return nil
	}
	h.released = true
	delete(s.handles, h.id)
	if h.path != "" && s.paths[h.path] == h {
		delete(s.paths, h.path)
	}
	return nil
}

// Lookup returns the open Handle for path without adding a reference.
func (s *Store) Lookup(path string) (*Handle, bool) {
	absPath, err := s.vfs.Abs(path)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.paths[absPath]
	return h, ok
}

// Get returns the Handle with id without adding a reference.
func (s *Store) Get(id uuid.UUID) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	return h, ok
}

// Handles returns every open Handle.
func (s *Store) Handles() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Handle, 0, len(s.handles))
	for _, h := range s.handles {
		out = append(out, h)
	}
	return out
}

// Paths returns the paths of every open file.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	return out
}

// Count returns the number of open buffers.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Save writes the buffer to its path in the format it was loaded with and
// marks it saved.
func (s *Store) Save(ctx context.Context, h *Handle) error {
	if err := s.owned(h); err != nil {
		return err
	}
	path := h.Path()
	if err := ctx.Err(); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	if path == "" {
		return &PathError{Op: "save", Err: ErrNoPath}
	}

	format := h.Format()
	content, err := vfs.Encode(h.buf.Text(), format)
	if err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	if err := s.vfs.WriteFile(path, content, vfs.DefaultFileMode); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}

	modTime := s.now()
	if info, err := s.vfs.Stat(path); err == nil {
		modTime = info.ModTime
	}
	h.synced(format, modTime)
	h.buf.MarkSaved()
	return nil
}

// SaveAs saves the buffer to a new path, which the Handle then follows.
func (s *Store) SaveAs(ctx context.Context, h *Handle, path string) error {
	if err := s.owned(h); err != nil {
		return err
	}
	absPath, err := s.vfs.Abs(path)
	if err != nil {
		return &PathError{Op: "saveas", Path: path, Err: err}
	}

	s.mu.Lock()
	if other, ok := s.paths[absPath]; ok && other != h {
		s.mu.Unlock()
		return &PathError{Op: "saveas", Path: absPath, Err: ErrAlreadyOpen}
	}
	h.mu.Lock()
	old := h.path
	h.path = absPath
	h.mu.Unlock()
	if old != "" {
		delete(s.paths, old)
	}
	s.paths[absPath] = h
	s.mu.Unlock()

	h.buf.SetPath(absPath)
	return s.Save(ctx, h)
}

// Changed reports whether the file on disk was modified since the buffer
// was last loaded or saved.
func (s *Store) Changed(h *Handle) (bool, error) {
	path := h.Path()
	if path == "" {
		return false, nil
	}
	info, err := s.vfs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &PathError{Op: "stat", Path: path, Err: err}
	}
	return !info.ModTime.Equal(h.DiskModTime()), nil
}

func (s *Store) acquire(absPath string) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.paths[absPath]
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.refs++
	h.mu.Unlock()
	return h
}

// load reads and decodes a file. A missing file loads as empty text.
func (s *Store) load(absPath string) (string, vfs.Format, time.Time, error) {
	info, err := s.vfs.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", vfs.DefaultFormat, time.Time{}, nil
	}
	if err != nil {
		return "", vfs.Format{}, time.Time{}, err
	}
	if info.IsDir {
		return "", vfs.Format{}, time.Time{}, ErrIsDirectory
	}
	if s.maxFileSize > 0 && info.Size > s.maxFileSize {
		return "", vfs.Format{}, time.Time{}, ErrFileTooLarge
	}

	content, err := s.vfs.ReadFile(absPath)
	if err != nil {
		return "", vfs.Format{}, time.Time{}, err
	}
	text, format, err := vfs.Decode(content)
	if err != nil {
		return "", vfs.Format{}, time.Time{}, err
	}
	return text, format, info.ModTime, nil
}

func (s *Store) owned(h *Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h.id]; !ok {
		return s.lost(h)
	}
	return nil
}

func (s *Store) lost(h *Handle) error {
	if h.Released() {
		return &PathError{Op: "handle", Path: h.Path(), Err: ErrReleased}
	}
	return &PathError{Op: "handle", Path: h.Path(), Err: ErrUnknownHandle}
}
