package buffer

import (
	"fmt"
	"slices"

	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/language"
)

// Checkpoint marks a history position that Rollback can return to.
type Checkpoint struct {
	index       int
	length      int
	truncations int
	words       []Word
	diagnostics []language.Diagnostic
}

// Checkpoint records the current history position and words.
func (b *FileBuffer) Checkpoint() Checkpoint {
	return Checkpoint{
		index:       b.index,
		length:      b.history.Len(),
		truncations: b.history.Truncations(),
		words:       b.words,
		diagnostics: b.diagnostics,
	}
}

// Rollback discards every entry appended since cp, reverts its text and
// restores the words recorded in cp. It reports whether anything was
// discarded. A history that only moved through undo or redo since cp is
// left alone.
func (b *FileBuffer) Rollback(cp Checkpoint) (bool, error) {
	if b.history.Len() == cp.length && b.history.Truncations() == cp.truncations {
		return false, nil
	}
	if b.index < cp.index {
		return false, fmt.Errorf("%w: rollback to %d from %d", ErrInvalidState, cp.index, b.index)
	}
	text := slices.Clone(b.text)
	for i := b.index - 1; i >= cp.index; i-- {
		a, err := b.history.Get(i)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if !history.IsText(a) {
			continue
		}
		if text, err = applyText(text, a.Invert()); err != nil {
			return false, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}
	b.history.PopUntil(cp.index)
	b.history.Seal()
	b.text = text
	b.index = cp.index
	b.words = cp.words
	b.diagnostics = cp.diagnostics
	return true, nil
}

// relevant reports whether view id takes part in replaying a.
func relevant(a history.Action, id history.WindowID) bool {
	return history.IsText(a) || history.IsSelection(a, id)
}

// Undo reverts the most recent combined run of actions relevant to view id.
//
// The walk moves backward from the current index, stepping over other views'
// selection actions, inverting text actions, and stopping at the first
// relevant action that is not combined with its predecessor. Undo at the
// start of history is a no-op.
func (b *FileBuffer) Undo(t Tokenizer, id history.WindowID) error {
	text := slices.Clone(b.text)
	changed := false
	stop := -1

	for i := b.index - 1; i >= 0; i-- {
		e, err := b.history.Entry(i)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if !relevant(e.Action, id) {
			continue
		}
		if history.IsText(e.Action) {
			if text, err = applyText(text, e.Action.Invert()); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
			changed = true
		}
		stop = i
		if !e.Combined {
			break
		}
	}

	if stop < 0 {
		return nil
	}
	return b.commit(t, text, stop, changed)
}

// Redo reapplies the next combined run of actions relevant to view id.
//
// Irrelevant actions before and after the run are stepped over, so redo
// lands exactly where the matching undo started. Redo at the end of history
// is a no-op.
func (b *FileBuffer) Redo(t Tokenizer, id history.WindowID) error {
	text := slices.Clone(b.text)
	changed := false
	found := false

	i := b.index
	for ; i < b.history.Len(); i++ {
		e, err := b.history.Entry(i)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if !relevant(e.Action, id) {
			continue
		}
		if found && !e.Combined {
			break
		}
		if history.IsText(e.Action) {
			if text, err = applyText(text, e.Action); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
			changed = true
		}
		found = true
	}

	if !found {
		return nil
	}
	return b.commit(t, text, i, changed)
}
