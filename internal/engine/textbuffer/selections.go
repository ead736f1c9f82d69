package textbuffer

import (
	"slices"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// driven returns the slots a command acts on: only the last one while a new
// selection is being placed, otherwise all of them.
func (t *TextBuffer) driven() []int {
	if t.adding {
		return []int{len(t.selections) - 1}
	}
	slots := make([]int, len(t.selections))
	for i := range slots {
		slots[i] = i
	}
	return slots
}

// ordered returns the driven slots sorted by their smallest index.
// Edits walk selections in this order so each one sees the text as left by
// the edits before it.
func (t *TextBuffer) ordered() []int {
	slots := t.driven()
	slices.SortStableFunc(slots, func(a, b int) int {
		return t.selections[a].Smallest() - t.selections[b].Smallest()
	})
	return slots
}

// place sets slot without logging. Used by plain motions.
func (t *TextBuffer) place(slot int, sel cursor.Selection) {
	t.selections[slot] = sel.Clamp(t.fb.LastIndex())
}

// set sets slot and logs every field that changed.
func (t *TextBuffer) set(slot int, sel cursor.Selection) {
	sel = sel.Clamp(t.fb.LastIndex())
	old := t.selections[slot]
	if sel.Primary != old.Primary {
		t.fb.ChangePrimaryIndex(t.window, slot, old.Primary, sel.Primary, t.nextCombine())
	}
	if sel.Secondary != old.Secondary {
		t.fb.ChangeSecondaryIndex(t.window, slot, old.Secondary, sel.Secondary, t.nextCombine())
	}
	if sel.Offset != old.Offset {
		t.fb.ChangeOffset(t.window, slot, old.Offset, sel.Offset, t.nextCombine())
	}
	t.selections[slot] = sel
}

// apply sets slot with or without logging.
func (t *TextBuffer) apply(slot int, sel cursor.Selection, logged bool) {
	if logged {
		t.set(slot, sel)
		return
	}
	t.place(slot, sel)
}

// push appends a logged selection.
func (t *TextBuffer) push(sel cursor.Selection) {
	sel = sel.Clamp(t.fb.LastIndex())
	slot := len(t.selections)
	t.fb.AddSelection(t.window, slot, sel, t.nextCombine())
	t.selections = append(t.selections, sel)
}

// drop removes slot and logs it.
func (t *TextBuffer) drop(slot int) {
	t.fb.RemoveSelection(t.window, slot, t.selections[slot], t.nextCombine())
	t.selections = slices.Delete(t.selections, slot, slot+1)
}

// setMode switches mode and logs it.
func (t *TextBuffer) setMode(mode cursor.Mode) {
	if mode == t.mode {
		return
	}
	t.fb.ChangeSelectionMode(t.window, t.mode, mode, t.nextCombine())
	t.mode = mode
}

// withOffset returns sel with its offset set to the column of its primary index.
func (t *TextBuffer) withOffset(sel cursor.Selection) cursor.Selection {
	sel.Offset = t.fb.Column(sel.Primary)
	return sel
}

// insertAt inserts text and shifts every selection at or after index.
func (t *TextBuffer) insertAt(index int, text string) error {
	if _, err := t.fb.InsertText(t.window, index, text, t.nextCombine()); err != nil {
		return err
	}
	t.textChanged = true
	n := utf8.RuneCountInString(text)
	t.shiftAll(func(i int) int { return shiftInsert(i, index, n) })
	return nil
}

// removeAt removes length characters and shifts every selection after the
// removed span left; indices inside the span collapse onto its start.
func (t *TextBuffer) removeAt(index, length int) error {
	if length <= 0 {
		return nil
	}
	if _, err := t.fb.RemoveText(t.window, index, length, t.nextCombine()); err != nil {
		return err
	}
	t.textChanged = true
	t.shiftAll(func(i int) int { return shiftRemove(i, index, length) })
	return nil
}

// removeSpan removes the inclusive range [start, end], never the terminator.
func (t *TextBuffer) removeSpan(start, end int) error {
	end = min(end, t.fb.LastIndex()-1)
	if end < start {
		return nil
	}
	return t.removeAt(start, end-start+1)
}

func (t *TextBuffer) shiftAll(shift func(int) int) {
	for slot, sel := range t.selections {
		sel.Primary = shift(sel.Primary)
		sel.Secondary = shift(sel.Secondary)
		t.set(slot, sel)
	}
}

func shiftInsert(i, at, n int) int {
	if i >= at {
		return i + n
	}
	return i
}

func shiftRemove(i, at, n int) int {
	switch {
	case i >= at+n:
		return i - n
	case i >= at:
		return at
	}
	return i
}

// overlapping returns true if any two selections share an index.
func (t *TextBuffer) overlapping() bool {
	for i := range t.selections {
		for j := i + 1; j < len(t.selections); j++ {
			if t.selections[i].Overlaps(t.selections[j]) {
				return true
			}
		}
	}
	return false
}

// covered returns true if [start, end] overlaps any selection.
func (t *TextBuffer) covered(start, end int) bool {
	r := cursor.NewRangeSelection(start, end)
	for _, sel := range t.selections {
		if sel.Overlaps(r) {
			return true
		}
	}
	return false
}
