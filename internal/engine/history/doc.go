// Package history provides the transactional edit log shared by every view
// of a file buffer.
//
// The log is an append-only sequence of invertible actions. Text actions
// (InsertText, RemoveText) change the buffer content; selection actions
// (AddSelection, RemoveSelection, ChangePrimaryIndex, ChangeSecondaryIndex,
// ChangeOffset, ChangeSelectionMode) record how one view's cursors changed.
// Every action carries the WindowID of the view that produced it.
//
// # Combining
//
// An entry is flagged Combined when the caller asked for it and the previous
// entry was appended less than the combine window ago (500ms by default).
// Undo and redo treat a run of combined entries as one step:
//
//	h := history.New()
//	h.InsertText(0, id, "a", 0, true)  // Combined: false (first entry)
//	h.InsertText(1, id, "b", 1, true)  // Combined: true  (within window)
//
// # Branching
//
// Appending at a position below Len discards the redo tail. The discarded
// entries are kept as a Truncation record so views that have not yet caught
// up can rewind across the branch point.
//
// The clock is injectable (WithClock) so combining is deterministic in tests.
package history
