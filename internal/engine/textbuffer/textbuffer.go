package textbuffer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/input/action"
)

// Errors returned by TextBuffer operations.
var (
	// ErrNoSelections indicates a view that lost its base cursor.
	ErrNoSelections = errors.New("view has no selections")

	// ErrInvalidState indicates selection state the shared history cannot explain.
	ErrInvalidState = errors.New("invalid view state")
)

// Default viewport gaps.
const (
	DefaultSelectionGap  = 4
	DefaultHorizontalGap = 8
)

// TextBuffer is one view's editing controller over a shared FileBuffer.
//
// A TextBuffer owns its selections, mode and scroll position. The text and
// the history belong to the FileBuffer; a TextBuffer learns about edits made
// by other views through HistoryCatchUp.
type TextBuffer struct {
	fb        *buffer.FileBuffer
	tokenizer buffer.Tokenizer
	window    history.WindowID

	selections []cursor.Selection
	mode       cursor.Mode
	adding     bool

	// index is how far into the shared history this view has replayed.
	index int
	// truncations is how many history truncations this view has replayed.
	truncations int

	vscroll int
	hscroll int
	rows    int
	cols    int

	selectionGap  int
	horizontalGap int
	preserveLines bool

	// per-command state
	combine     bool
	pushed      bool
	textChanged bool
}

// Option configures a TextBuffer during creation.
type Option func(*TextBuffer)

// WithSelectionGap sets how many lines the active selection keeps from the
// top and bottom of the viewport.
func WithSelectionGap(lines int) Option {
	return func(t *TextBuffer) {
		t.selectionGap = max(0, lines)
	}
}

// WithHorizontalGap sets how many display columns the active selection keeps
// from the left and right of the viewport.
func WithHorizontalGap(cols int) Option {
	return func(t *TextBuffer) {
		t.horizontalGap = max(0, cols)
	}
}

// WithPreserveLines makes replacing an extended selection keep a trailing '\n'.
func WithPreserveLines(preserve bool) Option {
	return func(t *TextBuffer) {
		t.preserveLines = preserve
	}
}

// WithViewport sets the visible size in lines and display columns.
func WithViewport(rows, cols int) Option {
	return func(t *TextBuffer) {
		t.rows = max(0, rows)
		t.cols = max(0, cols)
	}
}

// WithWindowID sets the view identity instead of a random one.
func WithWindowID(id history.WindowID) Option {
	return func(t *TextBuffer) {
		t.window = id
	}
}

// New creates a view over fb with one collapsed selection at index 0.
// The view starts in sync with fb's current history position.
func New(fb *buffer.FileBuffer, tokenizer buffer.Tokenizer, opts ...Option) *TextBuffer {
	t := &TextBuffer{
		fb:            fb,
		tokenizer:     tokenizer,
		window:        uuid.New(),
		selections:    []cursor.Selection{cursor.NewSelection(0)},
		mode:          cursor.ModeCharacter,
		index:         fb.HistoryIndex(),
		truncations:   fb.History().Truncations(),
		selectionGap:  DefaultSelectionGap,
		horizontalGap: DefaultHorizontalGap,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WindowID returns the identity this view tags its history entries with.
func (t *TextBuffer) WindowID() history.WindowID {
	return t.window
}

// FileBuffer returns the shared buffer.
func (t *TextBuffer) FileBuffer() *buffer.FileBuffer {
	return t.fb
}

// Selections returns a copy of the selections in creation order.
func (t *TextBuffer) Selections() []cursor.Selection {
	out := make([]cursor.Selection, len(t.selections))
	copy(out, t.selections)
	return out
}

// Mode returns the current selection mode.
func (t *TextBuffer) Mode() cursor.Mode {
	return t.mode
}

// IsAdding returns true while a freshly added selection is being placed.
func (t *TextBuffer) IsAdding() bool {
	return t.adding
}

// HistoryIndex returns how far into the shared history this view has replayed.
func (t *TextBuffer) HistoryIndex() int {
	return t.index
}

// HandleAction runs a. It returns action.None when a was consumed and a
// itself when this view does not handle it.
func (t *TextBuffer) HandleAction(a action.Action) (action.Action, error) {
	var err error
	switch a {
	case action.None:
		return action.None, nil
	case action.MoveLeft, action.MoveRight, action.MoveUp, action.MoveDown,
		action.ExtendLeft, action.ExtendRight, action.ExtendUp, action.ExtendDown,
		action.Start, action.End, action.ExtendStart, action.ExtendEnd:
		err = t.run(false, false, func() error { return t.move(a) })
	case action.AddSelection:
		err = t.run(false, false, t.addSelection)
	case action.SelectNext:
		err = t.run(false, false, t.selectNext)
	case action.DuplicateUp:
		err = t.run(false, false, func() error { return t.duplicate(-1) })
	case action.DuplicateDown:
		err = t.run(false, false, func() error { return t.duplicate(1) })
	case action.Rotate:
		err = t.run(false, true, t.rotate)
	case action.Remove:
		err = t.run(true, true, t.remove)
	case action.Delete:
		err = t.run(true, true, t.delete)
	case action.DeleteLine:
		err = t.run(false, true, t.deleteLine)
	case action.Insert:
		err = t.run(false, false, func() error { return t.collapse(false) })
	case action.Append:
		err = t.run(false, false, func() error { return t.collapse(true) })
	case action.NewlineUp:
		err = t.run(false, true, func() error { return t.newline(false) })
	case action.NewlineDown:
		err = t.run(false, true, func() error { return t.newline(true) })
	case action.CharacterMode:
		err = t.run(false, false, func() error { return t.switchMode(cursor.ModeCharacter) })
	case action.WordMode:
		err = t.run(false, false, func() error { return t.switchMode(cursor.ModeWord) })
	case action.LineMode:
		err = t.run(false, false, func() error { return t.switchMode(cursor.ModeLine) })
	case action.Undo:
		err = t.run(false, false, t.undo)
	case action.Redo:
		err = t.run(false, false, t.redo)
	case action.Abort:
		err = t.run(false, false, t.abort)
	case action.Confirm:
		err = t.run(false, false, t.confirm)
	default:
		return a, nil
	}
	return action.None, err
}

// AddCharacter types r at every driven selection.
func (t *TextBuffer) AddCharacter(r rune) error {
	return t.InsertText(string(r))
}

// InsertText types s at every driven selection, replacing extended ones.
// It always leaves the view in character mode.
func (t *TextBuffer) InsertText(s string) error {
	if s == "" {
		return nil
	}
	return t.run(true, true, func() error { return t.typeText(s) })
}

// run executes one command: catch up with the shared history, check the
// language when the command edits, run fn, then resync and retokenize once.
// A command that fails is rolled back, so none of its edits stay applied.
func (t *TextBuffer) run(combine, edits bool, fn func() error) error {
	if err := t.HistoryCatchUp(); err != nil {
		return err
	}
	if len(t.selections) == 0 {
		return ErrNoSelections
	}
	if edits && t.tokenizer != nil {
		if err := t.tokenizer.Supports(t.fb.Language()); err != nil {
			return err
		}
	}

	t.combine = combine
	t.pushed = false
	t.textChanged = false
	saved := t.save()

	err := fn()
	if err == nil && t.textChanged {
		err = t.fb.Retokenize(t.tokenizer)
	}
	t.textChanged = false
	if err != nil {
		if rerr := t.restore(saved); rerr != nil {
			err = errors.Join(err, rerr)
		}
		t.checkSelectionGaps()
		return err
	}

	t.index = t.fb.HistoryIndex()
	t.truncations = t.fb.History().Truncations()
	t.checkSelectionGaps()
	return nil
}

// snapshot is the view state a failed command returns to.
type snapshot struct {
	checkpoint buffer.Checkpoint
	index      int
	selections []cursor.Selection
	mode       cursor.Mode
	adding     bool
}

func (t *TextBuffer) save() snapshot {
	return snapshot{
		checkpoint: t.fb.Checkpoint(),
		index:      t.index,
		selections: t.Selections(),
		mode:       t.mode,
		adding:     t.adding,
	}
}

// restore discards the entries a failed command logged and puts the view
// back where it was. When the buffer moved through undo or redo instead,
// the view keeps whatever its catch-up reached.
func (t *TextBuffer) restore(s snapshot) error {
	undone, err := t.fb.Rollback(s.checkpoint)
	if err != nil {
		return err
	}
	if !undone && t.fb.HistoryIndex() != s.index {
		return nil
	}
	t.selections = s.selections
	t.mode = s.mode
	t.adding = s.adding
	t.index = s.index
	t.truncations = t.fb.History().Truncations()
	return nil
}

// nextCombine returns the combine flag for the next history entry of the
// running command. Only the first entry may start a new undo step.
func (t *TextBuffer) nextCombine() bool {
	if !t.pushed {
		t.pushed = true
		return t.combine
	}
	return true
}

// retokenize refreshes words in the middle of a command.
func (t *TextBuffer) retokenize() error {
	if !t.textChanged {
		return nil
	}
	if err := t.fb.Retokenize(t.tokenizer); err != nil {
		return err
	}
	t.textChanged = false
	return nil
}

func (t *TextBuffer) confirm() error {
	t.adding = false
	return nil
}

func (t *TextBuffer) undo() error {
	t.adding = false
	if err := t.fb.Undo(t.tokenizer, t.window); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	return t.HistoryCatchUp()
}

func (t *TextBuffer) redo() error {
	t.adding = false
	if err := t.fb.Redo(t.tokenizer, t.window); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	return t.HistoryCatchUp()
}
