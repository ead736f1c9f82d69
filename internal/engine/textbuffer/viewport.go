package textbuffer

import (
	"github.com/mattn/go-runewidth"
)

// LineInfo describes one visible line for drawing.
type LineInfo struct {
	Line     int  // zero-based line number
	Start    int  // buffer index of the first character
	Length   int  // characters, excluding the '\n'
	Width    int  // display columns
	Selected bool // any selection intersects the line
}

// SetViewport sets the visible size in lines and display columns and
// re-checks the scroll position.
func (t *TextBuffer) SetViewport(rows, cols int) {
	t.rows = max(0, rows)
	t.cols = max(0, cols)
	t.checkSelectionGaps()
}

// Scroll returns the first visible line and display column.
func (t *TextBuffer) Scroll() (line, col int) {
	return t.vscroll, t.hscroll
}

// checkSelectionGaps keeps the last selection's primary index at least the
// configured gap away from every edge of the viewport. A gap larger than
// half the viewport is reduced so the cursor can still sit in the middle.
func (t *TextBuffer) checkSelectionGaps() {
	if len(t.selections) == 0 {
		return
	}
	p := t.selections[len(t.selections)-1].Primary

	if t.rows > 0 {
		gap := min(t.selectionGap, (t.rows-1)/2)
		line := t.fb.LineOf(p)
		if line < t.vscroll+gap {
			t.vscroll = max(0, line-gap)
		}
		if bottom := t.vscroll + t.rows - 1 - gap; line > bottom {
			t.vscroll = line - (t.rows - 1 - gap)
		}
	}

	if t.cols > 0 {
		gap := min(t.horizontalGap, (t.cols-1)/2)
		col := runewidth.StringWidth(t.fb.Slice(t.fb.LineStart(p), p))
		if col < t.hscroll+gap {
			t.hscroll = max(0, col-gap)
		}
		if right := t.hscroll + t.cols - 1 - gap; col > right {
			t.hscroll = col - (t.cols - 1 - gap)
		}
	}
}

// LineInfo returns the visible lines, or every line when no viewport is set.
func (t *TextBuffer) LineInfo() []LineInfo {
	count := t.fb.LineCount()
	first, last := 0, count
	if t.rows > 0 {
		first = min(t.vscroll, count)
		last = min(t.vscroll+t.rows, count)
	}

	start, ok := t.fb.LineStartOf(first)
	if !ok {
		return nil
	}
	out := make([]LineInfo, 0, last-first)
	for line := first; line < last; line++ {
		end := t.fb.LineEnd(start)
		text := t.fb.Slice(start, end)
		info := LineInfo{
			Line:   line,
			Start:  start,
			Length: end - start,
			Width:  runewidth.StringWidth(text),
		}
		for _, sel := range t.selections {
			if sel.Smallest() <= end && sel.Biggest() >= start {
				info.Selected = true
				break
			}
		}
		out = append(out, info)
		start = end + 1
	}
	return out
}
