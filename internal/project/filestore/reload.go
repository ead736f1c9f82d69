package filestore

import (
	"context"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Reload replaces the buffer content with the file on disk.
//
// The difference is applied as ordinary insert and remove edits owned by no
// view (uuid.Nil), so every view shifts its selections through catch-up and
// the reload undoes as one step. A buffer with unsaved changes is only
// reloaded when force is set. Reload reports whether the text changed.
func (s *Store) Reload(ctx context.Context, h *Handle, force bool) (bool, error) {
	if err := s.owned(h); err != nil {
		return false, err
	}
	path := h.Path()
	if err := ctx.Err(); err != nil {
		return false, &PathError{Op: "reload", Path: path, Err: err}
	}
	if path == "" {
		return false, &PathError{Op: "reload", Err: ErrNoPath}
	}
	if !force && h.buf.Modified() {
		return false, &PathError{Op: "reload", Path: path, Err: ErrModified}
	}
	if !s.vfs.Exists(path) {
		return false, &PathError{Op: "reload", Path: path, Err: fs.ErrNotExist}
	}

	text, format, modTime, err := s.load(path)
	if err != nil {
		return false, &PathError{Op: "reload", Path: path, Err: err}
	}

	changed, err := applyDiff(h.buf, text)
	if err != nil {
		return false, &PathError{Op: "reload", Path: path, Err: err}
	}
	if changed {
		if err := h.buf.Retokenize(s.languages); err != nil {
			return true, &PathError{Op: "reload", Path: path, Err: err}
		}
	}
	h.synced(format, modTime)
	h.buf.MarkSaved()
	return changed, nil
}

// applyDiff edits buf until its text equals text. The terminator is left
// out of the diff so no edit can touch it.
func applyDiff(buf *buffer.FileBuffer, text string) (bool, error) {
	current := strings.TrimSuffix(buf.Text(), string(buffer.Terminator))
	target := strings.TrimSuffix(text, string(buffer.Terminator))
	if current == target {
		return false, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(current, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	index := 0
	combine := false
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			index += n
		case diffmatchpatch.DiffDelete:
			if _, err := buf.RemoveText(uuid.Nil, index, n, combine); err != nil {
				return true, err
			}
			combine = true
		case diffmatchpatch.DiffInsert:
			if _, err := buf.InsertText(uuid.Nil, index, d.Text, combine); err != nil {
				return true, err
			}
			index += n
			combine = true
		}
	}
	return true, nil
}
