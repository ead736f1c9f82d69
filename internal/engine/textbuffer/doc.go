// Package textbuffer provides TextBuffer, the per-view editing controller.
//
// Several TextBuffers can share one FileBuffer. Each keeps its own
// selections, selection mode, scroll position and a private index into the
// shared history. Commands arrive through HandleAction (or AddCharacter and
// InsertText for typing) and run to completion one at a time:
//
//	view := textbuffer.New(fb, languages)
//	if next, err := view.HandleAction(action.Delete); err == nil && next != action.None {
//		// not a view command: route it elsewhere
//	}
//
// # Selections
//
// Every command acts on all selections, or only on the last one while a new
// selection is being placed (after add_selection, until confirm or abort).
// Edits walk selections from the lowest index up; each mutation shifts every
// selection after it, and indices inside a removed span collapse onto the
// span's start. Overlapping selections are allowed and never merged; each
// one acts on what is left of its range, and rotate refuses to run while any
// two overlap.
//
// # History
//
// Selection changes caused by edits, selection-set changes and mode switches
// are logged to the shared history in the same undo step as the command's
// text changes. Plain motions are view-local and not logged. HistoryCatchUp
// replays the shared log: this view's own selection actions are applied
// directly, other views' text actions shift this view's indices.
package textbuffer
