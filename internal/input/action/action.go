// Package action defines the closed vocabulary of editing commands.
//
// Commands are a small enum rather than free text so that every layer (the
// per-view controller, the application, scripts and the CLI) agrees on what
// can be asked for. Unknown names never reach the editing core: Parse rejects
// them with ErrUnknownAction.
package action

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned by Parse for names outside the vocabulary.
var ErrUnknownAction = errors.New("unknown action")

// Action is one editing command.
type Action uint8

const (
	// None means "nothing to do"; a controller returns it for consumed actions.
	None Action = iota

	// Motion
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	ExtendLeft
	ExtendRight
	ExtendUp
	ExtendDown
	Start
	End
	ExtendStart
	ExtendEnd

	// Multi-cursor
	AddSelection
	SelectNext
	DuplicateUp
	DuplicateDown
	Rotate

	// Editing
	Remove
	Delete
	DeleteLine
	Insert
	Append
	NewlineUp
	NewlineDown

	// Modes
	CharacterMode
	WordMode
	LineMode

	// History
	Undo
	Redo

	// Selection set
	Abort
	Confirm

	// Application level, passed through by views
	Save
	Reload
	NextView
	PreviousView
	Quit
)

var names = [...]string{
	None:          "none",
	MoveLeft:      "move_left",
	MoveRight:     "move_right",
	MoveUp:        "move_up",
	MoveDown:      "move_down",
	ExtendLeft:    "extend_left",
	ExtendRight:   "extend_right",
	ExtendUp:      "extend_up",
	ExtendDown:    "extend_down",
	Start:         "start",
	End:           "end",
	ExtendStart:   "extend_start",
	ExtendEnd:     "extend_end",
	AddSelection:  "add_selection",
	SelectNext:    "select_next",
	DuplicateUp:   "duplicate_up",
	DuplicateDown: "duplicate_down",
	Rotate:        "rotate",
	Remove:        "remove",
	Delete:        "delete",
	DeleteLine:    "delete_line",
	Insert:        "insert",
	Append:        "append",
	NewlineUp:     "newline_up",
	NewlineDown:   "newline_down",
	CharacterMode: "character_mode",
	WordMode:      "word_mode",
	LineMode:      "line_mode",
	Undo:          "undo",
	Redo:          "redo",
	Abort:         "abort",
	Confirm:       "confirm",
	Save:          "save",
	Reload:        "reload",
	NextView:      "next_view",
	PreviousView:  "previous_view",
	Quit:          "quit",
}

var byName = func() map[string]Action {
	m := make(map[string]Action, len(names))
	for a, name := range names {
		m[name] = Action(a)
	}
	// Accepted spellings
	m["left"] = MoveLeft
	m["right"] = MoveRight
	m["up"] = MoveUp
	m["down"] = MoveDown
	m["rotate_selections"] = Rotate
	m["char_mode"] = CharacterMode
	m["escape"] = Abort
	return m
}()

// String returns the canonical snake_case name.
func (a Action) String() string {
	if int(a) < len(names) {
		return names[a]
	}
	return fmt.Sprintf("action(%d)", a)
}

// Parse returns the Action named s (case-insensitive, '-' and ' ' accepted
// in place of '_').
func Parse(s string) (Action, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if a, ok := byName[key]; ok {
		return a, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// All returns every action except None, in declaration order.
func All() []Action {
	all := make([]Action, 0, len(names)-1)
	for a := 1; a < len(names); a++ {
		all = append(all, Action(a))
	}
	return all
}

// IsMotion returns true for actions that only move selections.
func (a Action) IsMotion() bool {
	return a >= MoveLeft && a <= ExtendEnd
}

// IsExtend returns true for motions that keep the secondary index fixed.
func (a Action) IsExtend() bool {
	switch a {
	case ExtendLeft, ExtendRight, ExtendUp, ExtendDown, ExtendStart, ExtendEnd:
		return true
	}
	return false
}

// IsEdit returns true for actions that change text.
func (a Action) IsEdit() bool {
	return a == Rotate || (a >= Remove && a <= NewlineDown && a != Insert && a != Append)
}

// IsApplication returns true for actions a single view cannot handle.
func (a Action) IsApplication() bool {
	return a >= Save && a <= Quit
}
