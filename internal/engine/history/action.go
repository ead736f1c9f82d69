package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/cursor"
)

// WindowID identifies the view that produced an action.
// uuid.Nil marks edits that belong to no view (e.g. reload from disk).
type WindowID = uuid.UUID

// Action is a single loggable, invertible mutation.
// The set of implementations is closed; use a type switch to inspect one.
type Action interface {
	// Owner returns the view that produced the action.
	Owner() WindowID
	// Invert returns the action that undoes this one.
	Invert() Action
	// String returns a short description.
	String() string

	action()
}

// InsertText inserts Text before Index.
type InsertText struct {
	Window WindowID
	Text   string
	Index  int
}

// RemoveText removes Text, which starts at Index.
type RemoveText struct {
	Window WindowID
	Text   string
	Index  int
}

// AddSelection inserts a selection at Slot.
type AddSelection struct {
	Window    WindowID
	Slot      int
	Primary   int
	Secondary int
	Offset    int
}

// RemoveSelection removes the selection at Slot.
type RemoveSelection struct {
	Window    WindowID
	Slot      int
	Primary   int
	Secondary int
	Offset    int
}

// ChangePrimaryIndex moves the primary index of the selection at Slot.
type ChangePrimaryIndex struct {
	Window   WindowID
	Slot     int
	Previous int
	New      int
}

// ChangeSecondaryIndex moves the secondary index of the selection at Slot.
type ChangeSecondaryIndex struct {
	Window   WindowID
	Slot     int
	Previous int
	New      int
}

// ChangeOffset changes the remembered column of the selection at Slot.
type ChangeOffset struct {
	Window   WindowID
	Slot     int
	Previous int
	New      int
}

// ChangeSelectionMode switches the mode of a view.
type ChangeSelectionMode struct {
	Window   WindowID
	Previous cursor.Mode
	New      cursor.Mode
}

func (InsertText) action()           {}
func (RemoveText) action()           {}
func (AddSelection) action()         {}
func (RemoveSelection) action()      {}
func (ChangePrimaryIndex) action()   {}
func (ChangeSecondaryIndex) action() {}
func (ChangeOffset) action()         {}
func (ChangeSelectionMode) action()  {}

func (a InsertText) Owner() WindowID           { return a.Window }
func (a RemoveText) Owner() WindowID           { return a.Window }
func (a AddSelection) Owner() WindowID         { return a.Window }
func (a RemoveSelection) Owner() WindowID      { return a.Window }
func (a ChangePrimaryIndex) Owner() WindowID   { return a.Window }
func (a ChangeSecondaryIndex) Owner() WindowID { return a.Window }
func (a ChangeOffset) Owner() WindowID         { return a.Window }
func (a ChangeSelectionMode) Owner() WindowID  { return a.Window }

// Invert returns the matching RemoveText.
func (a InsertText) Invert() Action {
	return RemoveText(a)
}

// Invert returns the matching InsertText.
func (a RemoveText) Invert() Action {
	return InsertText(a)
}

// Invert returns the matching RemoveSelection.
func (a AddSelection) Invert() Action {
	return RemoveSelection(a)
}

// Invert returns the matching AddSelection.
func (a RemoveSelection) Invert() Action {
	return AddSelection(a)
}

// Invert swaps Previous and New.
func (a ChangePrimaryIndex) Invert() Action {
	a.Previous, a.New = a.New, a.Previous
	return a
}

// Invert swaps Previous and New.
func (a ChangeSecondaryIndex) Invert() Action {
	a.Previous, a.New = a.New, a.Previous
	return a
}

// Invert swaps Previous and New.
func (a ChangeOffset) Invert() Action {
	a.Previous, a.New = a.New, a.Previous
	return a
}

// Invert swaps Previous and New.
func (a ChangeSelectionMode) Invert() Action {
	a.Previous, a.New = a.New, a.Previous
	return a
}

func (a InsertText) String() string {
	return fmt.Sprintf("insert %q at %d", a.Text, a.Index)
}

func (a RemoveText) String() string {
	return fmt.Sprintf("remove %q at %d", a.Text, a.Index)
}

func (a AddSelection) String() string {
	return fmt.Sprintf("add selection %d (%d,%d)", a.Slot, a.Secondary, a.Primary)
}

func (a RemoveSelection) String() string {
	return fmt.Sprintf("remove selection %d (%d,%d)", a.Slot, a.Secondary, a.Primary)
}

func (a ChangePrimaryIndex) String() string {
	return fmt.Sprintf("selection %d primary %d -> %d", a.Slot, a.Previous, a.New)
}

func (a ChangeSecondaryIndex) String() string {
	return fmt.Sprintf("selection %d secondary %d -> %d", a.Slot, a.Previous, a.New)
}

func (a ChangeOffset) String() string {
	return fmt.Sprintf("selection %d offset %d -> %d", a.Slot, a.Previous, a.New)
}

func (a ChangeSelectionMode) String() string {
	return fmt.Sprintf("mode %s -> %s", a.Previous, a.New)
}

// IsText returns true for InsertText and RemoveText.
func IsText(a Action) bool {
	switch a.(type) {
	case InsertText, RemoveText:
		return true
	}
	return false
}

// IsSelection returns true if a is a selection action produced by id.
func IsSelection(a Action, id WindowID) bool {
	return !IsText(a) && a.Owner() == id
}

// IsOtherText returns true if a is a text action not produced by id.
func IsOtherText(a Action, id WindowID) bool {
	return IsText(a) && a.Owner() != id
}

// TextDelta returns the start index and signed length change of a text action.
// ok is false for selection actions.
func TextDelta(a Action) (index, delta int, ok bool) {
	switch a := a.(type) {
	case InsertText:
		return a.Index, utf8.RuneCountInString(a.Text), true
	case RemoveText:
		return a.Index, -utf8.RuneCountInString(a.Text), true
	}
	return 0, 0, false
}
