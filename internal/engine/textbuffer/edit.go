package textbuffer

import (
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// typeText replaces or inserts s at every driven selection and collapses
// each one just after the inserted text.
func (t *TextBuffer) typeText(s string) error {
	t.setMode(cursor.ModeCharacter)
	n := utf8.RuneCountInString(s)
	for _, slot := range t.ordered() {
		sel := t.selections[slot]
		at := sel.Smallest()
		if sel.IsExtended() {
			end := sel.Biggest()
			if t.preserveLines {
				if r, _ := t.fb.Character(end); r == '\n' {
					end--
				}
			}
			if err := t.removeSpan(at, end); err != nil {
				return err
			}
		}
		if err := t.insertAt(at, s); err != nil {
			return err
		}
		t.set(slot, t.withOffset(cursor.NewSelection(at+n)))
	}
	return nil
}

// remove deletes each extended selection, or the character before each
// cursor.
func (t *TextBuffer) remove() error {
	switch t.mode {
	case cursor.ModeLine:
		return t.deleteLines()
	case cursor.ModeWord:
		return t.removeWords()
	}
	slots, spans := t.spans(false)
	consumed := -1
	for _, slot := range slots {
		sel := t.selections[slot]
		switch {
		case sel.IsExtended():
			if spans[slot].end > consumed {
				if err := t.removeSpan(sel.Smallest(), sel.Biggest()); err != nil {
					return err
				}
				consumed = spans[slot].end
			}
		case sel.Primary > 0:
			if err := t.removeAt(sel.Primary-1, 1); err != nil {
				return err
			}
		default:
			continue
		}
		t.set(slot, t.withOffset(t.selections[slot].Reset()))
	}
	return nil
}

// delete deletes each extended selection, or the character under each cursor.
func (t *TextBuffer) delete() error {
	switch t.mode {
	case cursor.ModeLine:
		return t.deleteLines()
	case cursor.ModeWord:
		return t.deleteWords()
	}
	slots, spans := t.spans(false)
	consumed := -1
	for _, slot := range slots {
		sel := t.selections[slot]
		if !sel.IsExtended() && sel.Primary == t.fb.LastIndex() {
			continue
		}
		if spans[slot].end > consumed {
			if err := t.removeSpan(sel.Smallest(), sel.Biggest()); err != nil {
				return err
			}
			consumed = spans[slot].end
		}
		t.set(slot, t.withOffset(t.selections[slot].Reset()))
	}
	return nil
}

// deleteLine deletes each extended selection, or the whole line of each
// cursor. In line mode it always deletes whole lines.
func (t *TextBuffer) deleteLine() error {
	if t.mode == cursor.ModeLine {
		return t.deleteLines()
	}
	slots, spans := t.spans(true)
	consumed := -1
	for _, slot := range slots {
		sel := t.selections[slot]
		if spans[slot].end > consumed {
			var err error
			if sel.IsExtended() {
				err = t.removeSpan(sel.Smallest(), sel.Biggest())
			} else {
				err = t.deleteLineSpan(slot)
			}
			if err != nil {
				return err
			}
			consumed = spans[slot].end
		}
		t.set(slot, t.withOffset(t.selections[slot].Reset()))
	}
	return nil
}

// deleteLines removes the full line span of every driven selection and
// selects the line that takes its place.
func (t *TextBuffer) deleteLines() error {
	slots, spans := t.spans(true)
	consumed := -1
	for _, slot := range slots {
		if spans[slot].end > consumed {
			if err := t.deleteLineSpan(slot); err != nil {
				return err
			}
			consumed = spans[slot].end
		}
		at := t.selections[slot].Smallest()
		t.set(slot, t.lineSpan(at, at))
	}
	return nil
}

// span is an inclusive index range in the text as it was when a command began.
type span struct {
	start, end int
}

// spans returns the driven slots in edit order and the range each one will
// consume, widened to whole lines when lines is set (collapsed cursors only,
// unless in line mode). A slot whose range ends inside an earlier slot's
// removal has nothing left to remove.
func (t *TextBuffer) spans(lines bool) ([]int, map[int]span) {
	slots := t.ordered()
	out := make(map[int]span, len(slots))
	for _, slot := range slots {
		sel := t.selections[slot]
		sp := span{start: sel.Smallest(), end: sel.Biggest()}
		if lines && (t.mode == cursor.ModeLine || !sel.IsExtended()) {
			sp = span{start: t.fb.LineStart(sp.start), end: t.fb.LineEnd(sp.end)}
		}
		out[slot] = sp
	}
	return slots, out
}

// deleteLineSpan removes every line slot touches. The terminator line cannot
// go, so when the span reaches it the '\n' before the span goes instead.
// The selection is left collapsed at the start of the line now in place.
func (t *TextBuffer) deleteLineSpan(slot int) error {
	sel := t.selections[slot]
	start := t.fb.LineStart(sel.Smallest())
	end := t.fb.LineEnd(sel.Biggest())
	if end == t.fb.LastIndex() {
		if start == 0 {
			if err := t.removeSpan(0, end-1); err != nil {
				return err
			}
			t.set(slot, cursor.NewSelection(0))
			return nil
		}
		start--
		end--
	}
	if err := t.removeAt(start, end-start+1); err != nil {
		return err
	}
	t.set(slot, cursor.NewSelection(t.fb.LineStart(start)))
	return nil
}

// removeWords deletes each selection's span and selects the word before it.
func (t *TextBuffer) removeWords() error {
	slots := t.ordered()
	for _, slot := range slots {
		sel := t.selections[slot]
		if err := t.removeSpan(sel.Smallest(), sel.Biggest()); err != nil {
			return err
		}
	}
	if err := t.retokenize(); err != nil {
		return err
	}
	words := t.words()
	for _, slot := range slots {
		at := t.selections[slot].Smallest()
		next := cursor.NewSelection(at)
		for i := len(words) - 1; i >= 0; i-- {
			if words[i].End() < at {
				next = selectWord(words[i], false)
				break
			}
		}
		t.set(slot, t.withOffset(next))
	}
	return nil
}

// deleteWords deletes each selection's span together with the gap up to the
// next word, then selects the word that moved into place. Repeating it keeps
// consuming whole words.
func (t *TextBuffer) deleteWords() error {
	slots := t.ordered()
	words := t.words()
	gaps := make(map[int]int, len(slots))
	for _, slot := range slots {
		end := t.selections[slot].Biggest()
		for _, w := range words {
			if w.Index > end {
				gaps[slot] = w.Index - 1 - end
				break
			}
		}
	}
	for _, slot := range slots {
		sel := t.selections[slot]
		if err := t.removeSpan(sel.Smallest(), sel.Biggest()+gaps[slot]); err != nil {
			return err
		}
	}
	if err := t.retokenize(); err != nil {
		return err
	}
	words = t.words()
	for _, slot := range slots {
		at := t.selections[slot].Smallest()
		next := cursor.NewSelection(at)
		for _, w := range words {
			if w.Contains(at) {
				next = selectWord(w, false)
				break
			}
		}
		t.set(slot, t.withOffset(next))
	}
	return nil
}

// newline opens an empty line below (down) or above each selection and moves
// the selection onto it.
func (t *TextBuffer) newline(down bool) error {
	for _, slot := range t.ordered() {
		sel := t.selections[slot]
		at := t.fb.LineStart(sel.Smallest())
		if down {
			at = t.fb.LineEnd(sel.Biggest())
		}
		if err := t.insertAt(at, "\n"); err != nil {
			return err
		}
		target := at
		if down {
			target = at + 1
		}
		next := cursor.NewSelection(target)
		if t.mode == cursor.ModeLine {
			next = t.lineSpan(target, target)
		}
		t.set(slot, next)
	}
	return nil
}

// collapse switches to character mode and collapses each selection onto its
// start, or just past its end when after is set. The move is logged only
// when it comes with a mode switch.
func (t *TextBuffer) collapse(after bool) error {
	logged := t.mode != cursor.ModeCharacter
	t.setMode(cursor.ModeCharacter)
	for _, slot := range t.driven() {
		sel := t.selections[slot]
		at := sel.Smallest()
		if after {
			at = min(sel.Biggest()+1, t.fb.LastIndex())
		}
		t.apply(slot, t.withOffset(cursor.NewSelection(at)), logged)
	}
	return nil
}

// switchMode enters mode and re-derives every selection for its granularity.
// Entering the current mode does nothing.
func (t *TextBuffer) switchMode(mode cursor.Mode) error {
	if mode == t.mode {
		return nil
	}
	t.setMode(mode)
	for slot, sel := range t.selections {
		switch mode {
		case cursor.ModeLine:
			next := cursor.NewRangeSelection(t.fb.LineStart(sel.Secondary), t.fb.LineEnd(sel.Primary))
			if sel.IsInverted() {
				next = cursor.NewRangeSelection(t.fb.LineEnd(sel.Secondary), t.fb.LineStart(sel.Primary))
			}
			next.Offset = sel.Offset
			t.set(slot, next)
		case cursor.ModeWord:
			t.set(slot, t.expandToWords(sel))
		}
	}
	return nil
}

// expandToWords grows sel so both ends cover whole words.
func (t *TextBuffer) expandToWords(sel cursor.Selection) cursor.Selection {
	words := t.fb.Words()
	grow := func(index int, toEnd bool) int {
		i, ok := t.fb.WordAt(index)
		if !ok || words[i].IsIgnored() {
			return index
		}
		if toEnd {
			return words[i].End()
		}
		return words[i].Index
	}
	if sel.IsInverted() {
		sel.Secondary = grow(sel.Secondary, true)
		sel.Primary = grow(sel.Primary, false)
	} else {
		sel.Secondary = grow(sel.Secondary, false)
		sel.Primary = grow(sel.Primary, true)
	}
	return sel
}
