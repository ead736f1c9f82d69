package textbuffer

import (
	"slices"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// addSelection spawns a collapsed selection just past the last one (the next
// line in line mode) and starts placing it.
func (t *TextBuffer) addSelection() error {
	last := t.selections[len(t.selections)-1]
	var sel cursor.Selection
	if t.mode == cursor.ModeLine {
		start, ok := t.fb.LineStartOf(t.fb.LineOf(last.Biggest()) + 1)
		if !ok {
			return nil
		}
		sel = t.lineSpan(start, start)
	} else {
		at := last.Biggest() + 1
		if at > t.fb.LastIndex() {
			return nil
		}
		sel = t.withOffset(cursor.NewSelection(at))
	}
	t.push(sel)
	t.adding = true
	return nil
}

// abort drops the selection being placed, or every selection but the first.
func (t *TextBuffer) abort() error {
	if t.adding && len(t.selections) > 1 {
		t.drop(len(t.selections) - 1)
		t.adding = false
		return nil
	}
	t.adding = false
	for slot := len(t.selections) - 1; slot > 0; slot-- {
		t.drop(slot)
	}
	base := t.selections[0]
	if t.mode == cursor.ModeLine {
		t.set(0, t.lineSpan(base.Primary, base.Primary))
	} else {
		t.set(0, base.Reset())
	}
	return nil
}

// selectNext selects the next occurrence of the last selection's content
// that no selection covers yet. The search wraps around the buffer and tries
// the occurrence under the last selection last.
func (t *TextBuffer) selectNext() error {
	last := t.selections[len(t.selections)-1]
	text := []rune(t.fb.Text())
	needle := text[last.Smallest() : last.Biggest()+1]
	size := len(needle)

	positions := len(text) - size + 1
	if positions <= 0 {
		return nil
	}
	from := last.Biggest() + 1
	for k := 0; k < positions; k++ {
		p := (from + k) % positions
		if !slices.Equal(text[p:p+size], needle) || t.covered(p, p+size-1) {
			continue
		}
		sel := cursor.NewRangeSelection(p, p+size-1)
		if last.IsInverted() {
			sel = sel.Flip()
		}
		t.push(t.withOffset(sel))
		return nil
	}
	return nil
}

// duplicate clones the last selection dir lines away at the same columns.
func (t *TextBuffer) duplicate(dir int) error {
	last := t.selections[len(t.selections)-1]
	moved := func(index int) (int, bool) {
		start, ok := t.fb.LineStartOf(t.fb.LineOf(index) + dir)
		if !ok {
			return 0, false
		}
		return min(start+t.fb.Column(index), t.fb.LineEnd(start)), true
	}

	primary, ok := moved(last.Primary)
	if !ok {
		return nil
	}
	secondary, ok := moved(last.Secondary)
	if !ok {
		return nil
	}
	sel := cursor.Selection{Primary: primary, Secondary: secondary, Offset: last.Offset}
	if t.mode == cursor.ModeLine {
		sel = t.lineSpan(secondary, primary)
	}
	t.push(sel)
	return nil
}

// rotate moves the content of every selection into the next one, the last
// wrapping to the first. It needs two or more selections, none overlapping.
func (t *TextBuffer) rotate() error {
	n := len(t.selections)
	if n < 2 || t.overlapping() {
		return nil
	}

	contents := make([]string, n)
	for i, sel := range t.selections {
		end := min(sel.Biggest(), t.fb.LastIndex()-1)
		contents[i] = t.fb.Slice(sel.Smallest(), end+1)
	}

	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	slices.SortFunc(slots, func(a, b int) int {
		return t.selections[a].Smallest() - t.selections[b].Smallest()
	})

	for _, slot := range slots {
		sel := t.selections[slot]
		content := contents[(slot-1+n)%n]
		if err := t.removeSpan(sel.Smallest(), sel.Biggest()); err != nil {
			return err
		}
		at := t.selections[slot].Smallest()
		if err := t.insertAt(at, content); err != nil {
			return err
		}

		next := cursor.NewSelection(at)
		if size := utf8.RuneCountInString(content); size > 0 {
			next = cursor.NewRangeSelection(at, at+size-1)
			if sel.IsInverted() {
				next = next.Flip()
			}
		}
		t.set(slot, t.withOffset(next))
	}
	return nil
}
