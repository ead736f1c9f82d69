package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// DefaultCombineWindow is the largest gap between two appends that still
// lets the second one combine with the first.
const DefaultCombineWindow = 500 * time.Millisecond

// ErrOutOfRange indicates a history position outside [0, Len).
var ErrOutOfRange = errors.New("history position out of range")

// Clock returns the current time.
type Clock func() time.Time

// Entry is one logged action.
// Combined means the entry undoes and redoes together with the one before it.
type Entry struct {
	Action   Action
	Combined bool
}

// Truncation records the redo tail discarded when a new action was appended
// below the end of the log.
type Truncation struct {
	At        int     // Position of the first discarded entry
	Discarded []Entry // Entries that used to live at At, At+1, ...
}

// History is the append-only action log of one file buffer.
// It is not safe for concurrent use; callers serialize access.
type History struct {
	entries     []Entry
	truncations []Truncation
	timestamp   time.Time
	sealed      bool
	clock       Clock
	window      time.Duration
}

// Option configures a History.
type Option func(*History)

// WithClock sets the clock used to decide combining.
func WithClock(clock Clock) Option {
	return func(h *History) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithCombineWindow sets the combine window.
func WithCombineWindow(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.window = d
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{
		clock:  time.Now,
		window: DefaultCombineWindow,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Get returns the action at position i.
func (h *History) Get(i int) (Action, error) {
	if i < 0 || i >= len(h.entries) {
		return nil, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(h.entries))
	}
	return h.entries[i].Action, nil
}

// Entry returns the entry at position i.
func (h *History) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(h.entries) {
		return Entry{}, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(h.entries))
	}
	return h.entries[i], nil
}

// IsActionCombined returns true if the entry at i undoes together with i-1.
// Out-of-range positions report false.
func (h *History) IsActionCombined(i int) bool {
	if i < 0 || i >= len(h.entries) {
		return false
	}
	return h.entries[i].Combined
}

// PopUntil removes every entry at position n or above.
// A non-empty removal is recorded as a Truncation.
func (h *History) PopUntil(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(h.entries) {
		return
	}
	discarded := make([]Entry, len(h.entries)-n)
	copy(discarded, h.entries[n:])
	h.truncations = append(h.truncations, Truncation{At: n, Discarded: discarded})
	h.entries = h.entries[:n]
}

// Truncations returns the number of truncations recorded so far.
func (h *History) Truncations() int {
	return len(h.truncations)
}

// TruncationsSince returns the truncations recorded after the first seen ones.
func (h *History) TruncationsSince(seen int) []Truncation {
	if seen < 0 {
		seen = 0
	}
	if seen >= len(h.truncations) {
		return nil
	}
	return h.truncations[seen:]
}

// Push discards the redo tail above current and appends a.
// It returns the position after the new entry.
func (h *History) Push(current int, a Action, combine bool) int {
	h.PopUntil(current)

	now := h.clock()
	combined := combine && !h.sealed && len(h.entries) > 0 && now.Sub(h.timestamp) < h.window
	h.timestamp = now
	h.sealed = false

	h.entries = append(h.entries, Entry{Action: a, Combined: combined})
	return len(h.entries)
}

// Seal keeps the next pushed entry from combining with the last one.
func (h *History) Seal() {
	h.sealed = true
}

// InsertText logs an insertion.
func (h *History) InsertText(current int, id WindowID, text string, index int, combine bool) int {
	return h.Push(current, InsertText{Window: id, Text: text, Index: index}, combine)
}

// RemoveText logs a removal.
func (h *History) RemoveText(current int, id WindowID, text string, index int, combine bool) int {
	return h.Push(current, RemoveText{Window: id, Text: text, Index: index}, combine)
}

// AddSelection logs a new selection at slot.
func (h *History) AddSelection(current int, id WindowID, slot int, sel cursor.Selection, combine bool) int {
	return h.Push(current, AddSelection{
		Window:    id,
		Slot:      slot,
		Primary:   sel.Primary,
		Secondary: sel.Secondary,
		Offset:    sel.Offset,
	}, combine)
}

// RemoveSelection logs the removal of the selection at slot.
func (h *History) RemoveSelection(current int, id WindowID, slot int, sel cursor.Selection, combine bool) int {
	return h.Push(current, RemoveSelection{
		Window:    id,
		Slot:      slot,
		Primary:   sel.Primary,
		Secondary: sel.Secondary,
		Offset:    sel.Offset,
	}, combine)
}

// ChangePrimaryIndex logs a primary index change.
func (h *History) ChangePrimaryIndex(current int, id WindowID, slot, previous, next int, combine bool) int {
	return h.Push(current, ChangePrimaryIndex{Window: id, Slot: slot, Previous: previous, New: next}, combine)
}

// ChangeSecondaryIndex logs a secondary index change.
func (h *History) ChangeSecondaryIndex(current int, id WindowID, slot, previous, next int, combine bool) int {
	return h.Push(current, ChangeSecondaryIndex{Window: id, Slot: slot, Previous: previous, New: next}, combine)
}

// ChangeOffset logs a column memory change.
func (h *History) ChangeOffset(current int, id WindowID, slot, previous, next int, combine bool) int {
	return h.Push(current, ChangeOffset{Window: id, Slot: slot, Previous: previous, New: next}, combine)
}

// ChangeSelectionMode logs a mode switch.
func (h *History) ChangeSelectionMode(current int, id WindowID, previous, next cursor.Mode, combine bool) int {
	return h.Push(current, ChangeSelectionMode{Window: id, Previous: previous, New: next}, combine)
}
