package buffer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/language"
)

// Terminator is the character every buffer ends with.
const Terminator = '\n'

// Tokenizer splits text into classified tokens.
type Tokenizer interface {
	Supports(lang string) error
	Tokenize(lang, text string) ([]language.Token, []language.Diagnostic, error)
}

// FileBuffer holds the text, history and words of one file.
//
// FileBuffer is not safe for concurrent use; callers serialize access.
type FileBuffer struct {
	text    []rune
	history *history.History
	index   int

	words       []Word
	diagnostics []language.Diagnostic
	language    string
	path        string

	savedIndex       int
	savedTruncations int
	savedLost        bool

	historyOpts []history.Option
}

// New creates a buffer holding text.
// Line endings are normalized to '\n' and a terminator is appended when text
// does not already end with one.
func New(text string, opts ...Option) *FileBuffer {
	b := &FileBuffer{
		text:     withTerminator(text),
		language: language.PlainText,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = history.New(b.historyOpts...)
	return b
}

func withTerminator(text string) []rune {
	text = normalizeLineEndings(text)
	runes := []rune(text)
	if len(runes) == 0 || runes[len(runes)-1] != Terminator {
		runes = append(runes, Terminator)
	}
	return runes
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content, terminator included.
func (b *FileBuffer) Text() string {
	return string(b.text)
}

// Slice returns the characters in [start, end).
// The range is clamped to the buffer.
func (b *FileBuffer) Slice(start, end int) string {
	start = max(0, start)
	end = min(len(b.text), end)
	if start >= end {
		return ""
	}
	return string(b.text[start:end])
}

// Character returns the character at index.
func (b *FileBuffer) Character(index int) (rune, error) {
	if index < 0 || index >= len(b.text) {
		return 0, fmt.Errorf("%w: character %d (len %d)", ErrOutOfRange, index, len(b.text))
	}
	return b.text[index], nil
}

// Len returns the number of characters, terminator included.
func (b *FileBuffer) Len() int {
	return len(b.text)
}

// LastIndex returns the index of the terminator.
func (b *FileBuffer) LastIndex() int {
	return len(b.text) - 1
}

// LastCharacter returns the terminator.
func (b *FileBuffer) LastCharacter() rune {
	return b.text[len(b.text)-1]
}

// IsEmpty returns true when the buffer holds only its terminator.
func (b *FileBuffer) IsEmpty() bool {
	return len(b.text) == 1
}

// HistoryIndex returns the number of history entries currently applied.
func (b *FileBuffer) HistoryIndex() int {
	return b.index
}

// History returns the buffer's edit log.
func (b *FileBuffer) History() *history.History {
	return b.history
}

// Language returns the current language name.
func (b *FileBuffer) Language() string {
	return b.language
}

// Path returns the file path, or "" for a virtual buffer.
func (b *FileBuffer) Path() string {
	return b.path
}

// SetPath associates the buffer with a new file path.
func (b *FileBuffer) SetPath(path string) {
	b.path = path
}

// InsertText inserts text before index and logs it.
// Valid indices run from 0 to LastIndex; nothing can follow the terminator.
// Inserting an empty string is a no-op.
func (b *FileBuffer) InsertText(id history.WindowID, index int, text string, combine bool) (int, error) {
	if index < 0 || index > b.LastIndex() {
		return b.index, fmt.Errorf("%w: %w: insert at %d (last %d)", ErrInvalidState, ErrOutOfRange, index, b.LastIndex())
	}
	if text == "" {
		return b.index, nil
	}
	b.text = slices.Insert(b.text, index, []rune(text)...)
	b.index = b.history.InsertText(b.index, id, text, index, combine)
	return b.index, nil
}

// RemoveText removes length characters starting at index and logs them.
// The terminator can never be removed. Removing zero characters is a no-op.
func (b *FileBuffer) RemoveText(id history.WindowID, index, length int, combine bool) (int, error) {
	if index < 0 || length < 0 || index+length > b.LastIndex() {
		return b.index, fmt.Errorf("%w: %w: remove %d at %d (last %d)", ErrInvalidState, ErrOutOfRange, length, index, b.LastIndex())
	}
	if length == 0 {
		return b.index, nil
	}
	removed := string(b.text[index : index+length])
	b.text = slices.Delete(b.text, index, index+length)
	b.index = b.history.RemoveText(b.index, id, removed, index, combine)
	return b.index, nil
}

// SetText replaces everything before the terminator with text.
// A trailing '\n' on text is absorbed by the terminator. The change is logged
// as a removal followed by a combined insertion, so it joins neither the
// previous nor the next edit but undoes as one step.
func (b *FileBuffer) SetText(id history.WindowID, text string) int {
	runes := []rune(normalizeLineEndings(text))
	if n := len(runes); n > 0 && runes[n-1] == Terminator {
		runes = runes[:n-1]
	}

	old := string(b.text[:b.LastIndex()])
	b.index = b.history.RemoveText(b.index, id, old, 0, false)
	b.text = append(b.text[:0], Terminator)

	b.text = slices.Insert(b.text, 0, runes...)
	b.index = b.history.Push(b.index, history.InsertText{Window: id, Text: string(runes), Index: 0}, true)
	b.history.Seal()
	return b.index
}

// AddSelection logs that view id created a selection in slot.
func (b *FileBuffer) AddSelection(id history.WindowID, slot int, sel cursor.Selection, combine bool) int {
	b.index = b.history.AddSelection(b.index, id, slot, sel, combine)
	return b.index
}

// RemoveSelection logs that view id dropped the selection in slot.
func (b *FileBuffer) RemoveSelection(id history.WindowID, slot int, sel cursor.Selection, combine bool) int {
	b.index = b.history.RemoveSelection(b.index, id, slot, sel, combine)
	return b.index
}

// ChangePrimaryIndex logs a primary index move.
func (b *FileBuffer) ChangePrimaryIndex(id history.WindowID, slot, previous, next int, combine bool) int {
	b.index = b.history.ChangePrimaryIndex(b.index, id, slot, previous, next, combine)
	return b.index
}

// ChangeSecondaryIndex logs a secondary index move.
func (b *FileBuffer) ChangeSecondaryIndex(id history.WindowID, slot, previous, next int, combine bool) int {
	b.index = b.history.ChangeSecondaryIndex(b.index, id, slot, previous, next, combine)
	return b.index
}

// ChangeOffset logs a remembered-column change.
func (b *FileBuffer) ChangeOffset(id history.WindowID, slot, previous, next int, combine bool) int {
	b.index = b.history.ChangeOffset(b.index, id, slot, previous, next, combine)
	return b.index
}

// ChangeSelectionMode logs a mode switch.
func (b *FileBuffer) ChangeSelectionMode(id history.WindowID, previous, next cursor.Mode, combine bool) int {
	b.index = b.history.ChangeSelectionMode(b.index, id, previous, next, combine)
	return b.index
}

// Modified returns true when the text may differ from the last saved state.
// Selection and mode changes do not count.
func (b *FileBuffer) Modified() bool {
	if b.savedLost {
		return true
	}
	for _, tr := range b.history.TruncationsSince(b.savedTruncations) {
		if tr.At < b.savedIndex {
			b.savedLost = true
			return true
		}
	}
	b.savedTruncations = b.history.Truncations()

	lo, hi := min(b.index, b.savedIndex), max(b.index, b.savedIndex)
	for i := lo; i < hi; i++ {
		if a, err := b.history.Get(i); err == nil && history.IsText(a) {
			return true
		}
	}
	return false
}

// MarkSaved records the current state as the saved one.
func (b *FileBuffer) MarkSaved() {
	b.savedIndex = b.index
	b.savedTruncations = b.history.Truncations()
	b.savedLost = false
}

// applyText applies a text action to text and returns the result.
// Selection actions leave text untouched.
func applyText(text []rune, a history.Action) ([]rune, error) {
	switch a := a.(type) {
	case history.InsertText:
		if a.Index < 0 || a.Index > len(text)-1 {
			return text, fmt.Errorf("%w: %s", ErrCorruptHistory, a)
		}
		return slices.Insert(text, a.Index, []rune(a.Text)...), nil
	case history.RemoveText:
		end := a.Index + utf8.RuneCountInString(a.Text)
		if a.Index < 0 || end > len(text)-1 || string(text[a.Index:end]) != a.Text {
			return text, fmt.Errorf("%w: %s", ErrCorruptHistory, a)
		}
		return slices.Delete(text, a.Index, end), nil
	}
	return text, nil
}
