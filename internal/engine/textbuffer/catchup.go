package textbuffer

import (
	"fmt"
	"slices"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
)

// HistoryCatchUp brings this view's selections in line with the shared
// history.
//
// Truncated branches the view had already replayed are rewound first. The
// view then steps toward the buffer's history index: its own selection
// actions are replayed onto its selections, and other views' text actions
// shift its indices. The view's own text actions need no replay because the
// selection changes they caused were logged alongside them.
func (t *TextBuffer) HistoryCatchUp() error {
	h := t.fb.History()

	for _, tr := range h.TruncationsSince(t.truncations) {
		if t.index <= tr.At {
			continue
		}
		for i := min(t.index-tr.At, len(tr.Discarded)) - 1; i >= 0; i-- {
			if err := t.replay(tr.Discarded[i].Action.Invert()); err != nil {
				return err
			}
		}
		t.index = tr.At
	}
	t.truncations = h.Truncations()

	target := t.fb.HistoryIndex()
	for t.index < target {
		a, err := h.Get(t.index)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if err := t.replay(a); err != nil {
			return err
		}
		t.index++
	}
	for t.index > target {
		a, err := h.Get(t.index - 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if err := t.replay(a.Invert()); err != nil {
			return err
		}
		t.index--
	}

	last := t.fb.LastIndex()
	for i, sel := range t.selections {
		t.selections[i] = sel.Clamp(last)
	}
	if len(t.selections) == 0 {
		return ErrNoSelections
	}
	return nil
}

// replay applies one history action to this view's local state.
func (t *TextBuffer) replay(a history.Action) error {
	if history.IsOtherText(a, t.window) {
		at, delta, _ := history.TextDelta(a)
		for i, sel := range t.selections {
			if delta > 0 {
				sel.Primary = shiftInsert(sel.Primary, at, delta)
				sel.Secondary = shiftInsert(sel.Secondary, at, delta)
			} else {
				sel.Primary = shiftRemove(sel.Primary, at, -delta)
				sel.Secondary = shiftRemove(sel.Secondary, at, -delta)
			}
			t.selections[i] = sel
		}
		return nil
	}
	if !history.IsSelection(a, t.window) {
		return nil
	}

	switch a := a.(type) {
	case history.AddSelection:
		if a.Slot < 0 || a.Slot > len(t.selections) {
			return t.badSlot(a, a.Slot)
		}
		sel := cursor.Selection{Primary: a.Primary, Secondary: a.Secondary, Offset: a.Offset}
		t.selections = slices.Insert(t.selections, a.Slot, sel)
	case history.RemoveSelection:
		if a.Slot < 0 || a.Slot >= len(t.selections) {
			return t.badSlot(a, a.Slot)
		}
		t.selections = slices.Delete(t.selections, a.Slot, a.Slot+1)
	case history.ChangePrimaryIndex:
		if a.Slot < 0 || a.Slot >= len(t.selections) {
			return t.badSlot(a, a.Slot)
		}
		t.selections[a.Slot].Primary = a.New
	case history.ChangeSecondaryIndex:
		if a.Slot < 0 || a.Slot >= len(t.selections) {
			return t.badSlot(a, a.Slot)
		}
		t.selections[a.Slot].Secondary = a.New
	case history.ChangeOffset:
		if a.Slot < 0 || a.Slot >= len(t.selections) {
			return t.badSlot(a, a.Slot)
		}
		t.selections[a.Slot].Offset = a.New
	case history.ChangeSelectionMode:
		t.mode = a.New
	}
	return nil
}

func (t *TextBuffer) badSlot(a history.Action, slot int) error {
	return fmt.Errorf("%w: %s refers to slot %d of %d", ErrInvalidState, a, slot, len(t.selections))
}
