package textbuffer

import (
	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/input/action"
)

// move runs one motion over the driven selections. Motions are view-local
// and never logged.
func (t *TextBuffer) move(a action.Action) error {
	extend := a.IsExtend()
	for _, slot := range t.driven() {
		sel := t.selections[slot]
		var next cursor.Selection
		switch t.mode {
		case cursor.ModeWord:
			next = t.moveWord(sel, a, extend)
		case cursor.ModeLine:
			next = t.moveLine(sel, a, extend)
		default:
			next = t.moveCharacter(sel, a, extend)
		}
		t.place(slot, next)
	}
	return nil
}

func (t *TextBuffer) moveCharacter(sel cursor.Selection, a action.Action, extend bool) cursor.Selection {
	fb := t.fb
	p := sel.Primary
	keepOffset := false

	switch a {
	case action.MoveLeft, action.ExtendLeft:
		p = max(p-1, 0)
	case action.MoveRight, action.ExtendRight:
		p = min(p+1, fb.LastIndex())
	case action.MoveUp, action.ExtendUp:
		p = t.verticalTarget(p, sel.Offset, -1)
		keepOffset = true
	case action.MoveDown, action.ExtendDown:
		p = t.verticalTarget(p, sel.Offset, 1)
		keepOffset = true
	case action.Start, action.ExtendStart:
		p = fb.LineStart(p)
	case action.End, action.ExtendEnd:
		p = fb.LineEnd(p)
	}

	sel.Primary = p
	if !keepOffset {
		sel.Offset = fb.Column(p)
	}
	if !extend {
		sel = sel.Reset()
	}
	return sel
}

// verticalTarget returns the index dir lines away from index at column
// offset, clipped to the target line. On the first or last line it returns
// index unchanged.
func (t *TextBuffer) verticalTarget(index, offset, dir int) int {
	line := t.fb.LineOf(index) + dir
	start, ok := t.fb.LineStartOf(line)
	if !ok {
		return index
	}
	return min(start+offset, t.fb.LineEnd(start))
}

// words returns the words that word mode can land on.
func (t *TextBuffer) words() []buffer.Word {
	all := t.fb.Words()
	out := make([]buffer.Word, 0, len(all))
	for _, w := range all {
		if !w.IsIgnored() && w.Index < t.fb.LastIndex() {
			out = append(out, w)
		}
	}
	return out
}

// wordsOnLine returns the landable words starting on line.
func (t *TextBuffer) wordsOnLine(words []buffer.Word, line int) []buffer.Word {
	var out []buffer.Word
	for _, w := range words {
		if t.fb.LineOf(w.Index) == line {
			out = append(out, w)
		}
	}
	return out
}

func selectWord(w buffer.Word, inverted bool) cursor.Selection {
	if inverted {
		return cursor.NewRangeSelection(w.End(), w.Index)
	}
	return cursor.NewRangeSelection(w.Index, w.End())
}

func (t *TextBuffer) moveWord(sel cursor.Selection, a action.Action, extend bool) cursor.Selection {
	words := t.words()
	if len(words) == 0 {
		return sel
	}

	var (
		target buffer.Word
		found  bool
		after  bool
	)
	switch a {
	case action.MoveRight, action.ExtendRight:
		ref := sel.Biggest()
		if extend {
			ref = sel.Primary
		}
		for _, w := range words {
			if w.Index > ref {
				target, found, after = w, true, true
				break
			}
		}
	case action.MoveLeft, action.ExtendLeft:
		ref := sel.Smallest()
		if extend {
			ref = sel.Primary
		}
		for i := len(words) - 1; i >= 0; i-- {
			if words[i].End() < ref {
				target, found = words[i], true
				break
			}
		}
	case action.MoveUp, action.ExtendUp:
		target, found = t.nearestWord(words, sel, -1)
	case action.MoveDown, action.ExtendDown:
		target, found = t.nearestWord(words, sel, 1)
		after = true
	case action.Start, action.ExtendStart:
		if line := t.wordsOnLine(words, t.fb.LineOf(sel.Primary)); len(line) > 0 {
			target, found = line[0], true
		}
	case action.End, action.ExtendEnd:
		if line := t.wordsOnLine(words, t.fb.LineOf(sel.Primary)); len(line) > 0 {
			target, found, after = line[len(line)-1], true, true
		}
	}
	if !found {
		return sel
	}

	if extend {
		if after {
			sel.Primary = target.End()
		} else {
			sel.Primary = target.Index
		}
		return sel
	}
	next := selectWord(target, !after)
	next.Offset = t.fb.Column(target.Index)
	if a == action.MoveUp || a == action.MoveDown {
		next.Offset = sel.Offset
	}
	return next
}

// nearestWord finds the word closest to sel's remembered column on the
// nearest line in direction dir that holds any word.
func (t *TextBuffer) nearestWord(words []buffer.Word, sel cursor.Selection, dir int) (buffer.Word, bool) {
	count := t.fb.LineCount()
	for line := t.fb.LineOf(sel.Primary) + dir; line >= 0 && line < count; line += dir {
		candidates := t.wordsOnLine(words, line)
		if len(candidates) == 0 {
			continue
		}
		for _, w := range candidates {
			if t.fb.Column(w.End()) >= sel.Offset {
				return w, true
			}
		}
		return candidates[len(candidates)-1], true
	}
	return buffer.Word{}, false
}

// lineSpan returns a selection over every line from the line of secondary to
// the line of primary, oriented like the lines themselves.
func (t *TextBuffer) lineSpan(secondary, primary int) cursor.Selection {
	if t.fb.LineOf(primary) < t.fb.LineOf(secondary) {
		return cursor.NewRangeSelection(t.fb.LineEnd(secondary), t.fb.LineStart(primary))
	}
	return cursor.NewRangeSelection(t.fb.LineStart(secondary), t.fb.LineEnd(primary))
}

func (t *TextBuffer) moveLine(sel cursor.Selection, a action.Action, extend bool) cursor.Selection {
	var dir int
	switch a {
	case action.MoveUp, action.ExtendUp:
		dir = -1
	case action.MoveDown, action.ExtendDown:
		dir = 1
	default:
		return sel
	}

	if extend {
		p, ok := t.fb.LineStartOf(t.fb.LineOf(sel.Primary) + dir)
		if !ok {
			return sel
		}
		return t.lineSpan(sel.Secondary, p)
	}

	ref := sel.Biggest()
	if dir < 0 {
		ref = sel.Smallest()
	}
	start, ok := t.fb.LineStartOf(t.fb.LineOf(ref) + dir)
	if !ok {
		return sel
	}
	return t.lineSpan(start, start)
}
