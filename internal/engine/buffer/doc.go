// Package buffer provides FileBuffer, the text store shared by every view of
// one file.
//
// A FileBuffer owns the text, the edit history and the current word list.
// The text is a sequence of runes that always ends with a '\n' terminator;
// the terminator cannot be removed, so LastIndex is always a valid cursor
// position and every line, including the last one, ends with '\n'.
//
// # Mutation
//
// All changes go through the buffer's own methods, each of which appends to
// the history and returns the new history index:
//
//	fb := buffer.New("hello\n")
//	idx, err := fb.InsertText(id, 5, ", world", false) // idx == 1
//
// Selection primitives (AddSelection, ChangePrimaryIndex, ...) do not touch
// the text; they log how a view's cursors changed so that undo, redo and the
// catch-up of other views can replay them.
//
// # Undo and Redo
//
// Undo and Redo walk the history from the current index, applying text
// actions directly to the text without logging them, and stop at the edge of
// a combined run. Actions that are neither text actions nor selection actions
// of the calling view are stepped over.
//
// # Words
//
// Retokenize replaces the word list wholesale from an external Tokenizer. A
// failing tokenizer leaves the previous words in place.
package buffer
