package textbuffer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/input/action"
	"github.com/dshills/inkwell/internal/language"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var languages = language.NewManager()

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

func newFileBuffer(t testingT, text string, opts ...buffer.Option) (*buffer.FileBuffer, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	opts = append(opts, buffer.WithHistory(history.WithClock(clock.Now)))
	fb := buffer.New(text, opts...)
	require.NoError(t, fb.Retokenize(languages))
	return fb, clock
}

func newView(t testingT, text string) (*TextBuffer, *fakeClock) {
	t.Helper()
	fb, clock := newFileBuffer(t, text)
	return New(fb, languages), clock
}

// flakyTokenizer fails every Tokenize call while down is set.
type flakyTokenizer struct {
	down bool
}

func (f *flakyTokenizer) Supports(lang string) error {
	return languages.Supports(lang)
}

func (f *flakyTokenizer) Tokenize(lang, text string) ([]language.Token, []language.Diagnostic, error) {
	if f.down {
		return nil, nil, errors.New("tokenizer down")
	}
	return languages.Tokenize(lang, text)
}

func handle(t testingT, v *TextBuffer, actions ...action.Action) {
	t.Helper()
	for _, a := range actions {
		next, err := v.HandleAction(a)
		require.NoError(t, err, a.String())
		require.Equal(t, action.None, next, a.String())
	}
}

func cursors(indices ...int) []cursor.Selection {
	out := make([]cursor.Selection, len(indices))
	for i, idx := range indices {
		out[i] = cursor.NewSelection(idx)
	}
	return out
}

func primaries(v *TextBuffer) []int {
	out := make([]int, 0, len(v.selections))
	for _, sel := range v.selections {
		out = append(out, sel.Primary)
	}
	return out
}

func TestMultiCursorDelete(t *testing.T) {
	v, _ := newView(t, "abc\ndef\n")
	v.selections = cursors(1, 5)

	handle(t, v, action.Delete)

	assert.Equal(t, "ac\ndf\n", v.fb.Text())
	require.Len(t, v.selections, 2)
	assert.Equal(t, []int{1, 4}, primaries(v))
	for _, sel := range v.selections {
		assert.True(t, sel.Valid(v.fb.LastIndex()))
		assert.False(t, sel.IsExtended())
	}

	handle(t, v, action.Undo)
	assert.Equal(t, "abc\ndef\n", v.fb.Text())
	assert.Equal(t, []int{1, 5}, primaries(v))
}

func TestSelectNext(t *testing.T) {
	v, _ := newView(t, "foo bar foo")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(0, 2)}

	handle(t, v, action.SelectNext)

	assert.Equal(t, "foo bar foo\n", v.fb.Text())
	require.Len(t, v.selections, 2)
	assert.Equal(t, 0, v.selections[0].Secondary)
	assert.Equal(t, 2, v.selections[0].Primary)
	assert.Equal(t, 8, v.selections[1].Smallest())
	assert.Equal(t, 10, v.selections[1].Biggest())

	// every occurrence is taken now
	handle(t, v, action.SelectNext)
	assert.Len(t, v.selections, 2)
}

func TestSelectNextWrapsAround(t *testing.T) {
	v, _ := newView(t, "ab ab ab\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(6, 7)}

	handle(t, v, action.SelectNext)

	require.Len(t, v.selections, 2)
	assert.Equal(t, 0, v.selections[1].Smallest())
	assert.Equal(t, 1, v.selections[1].Biggest())
}

func TestCombineWindow(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		want string
	}{
		{"fast typing undoes together", 100 * time.Millisecond, "\n"},
		{"pause splits undo steps", time.Second, "a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, clock := newView(t, "")
			require.NoError(t, v.AddCharacter('a'))
			clock.Advance(tt.gap)
			require.NoError(t, v.AddCharacter('b'))
			assert.Equal(t, "ab\n", v.fb.Text())

			handle(t, v, action.Undo)
			assert.Equal(t, tt.want, v.fb.Text())
			assert.Equal(t, []int{v.fb.LastIndex()}, primaries(v))
		})
	}
}

func TestRedoTailTruncation(t *testing.T) {
	v, clock := newView(t, "")
	require.NoError(t, v.AddCharacter('a'))
	handle(t, v, action.Undo)
	assert.Equal(t, "\n", v.fb.Text())

	clock.Advance(time.Second)
	require.NoError(t, v.AddCharacter('b'))
	handle(t, v, action.Redo)

	assert.Equal(t, "b\n", v.fb.Text())
	assert.Equal(t, v.fb.History().Len(), v.fb.HistoryIndex())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	v, clock := newView(t, "one\ntwo\n")
	v.selections = cursors(2)

	steps := []func(){
		func() { require.NoError(t, v.InsertText("X")) },
		func() { handle(t, v, action.Remove) },
		func() { handle(t, v, action.NewlineDown) },
		func() { require.NoError(t, v.InsertText("new")) },
		func() { handle(t, v, action.DeleteLine) },
	}
	var texts []string
	for _, step := range steps {
		texts = append(texts, v.fb.Text())
		clock.Advance(time.Second)
		step()
	}
	final := v.fb.Text()

	for i := len(steps) - 1; i >= 0; i-- {
		handle(t, v, action.Undo)
		assert.Equal(t, texts[i], v.fb.Text(), "undo %d", i)
	}
	for range steps {
		handle(t, v, action.Redo)
	}
	assert.Equal(t, final, v.fb.Text())
}

func TestCatchUpShiftsOtherView(t *testing.T) {
	fb, _ := newFileBuffer(t, "abc\ndef\n")
	a := New(fb, languages)
	b := New(fb, languages)
	a.selections = cursors(2)
	b.selections = cursors(0, 2, 4)
	b.mode = cursor.ModeWord

	require.NoError(t, a.InsertText("xy"))
	require.NoError(t, b.HistoryCatchUp())

	assert.Equal(t, "abxyc\ndef\n", fb.Text())
	assert.Equal(t, []int{0, 4, 6}, primaries(b))
	assert.Equal(t, cursor.ModeWord, b.Mode())
	assert.Equal(t, fb.HistoryIndex(), b.HistoryIndex())
}

func TestCatchUpFollowsUndo(t *testing.T) {
	fb, _ := newFileBuffer(t, "abc\n")
	a := New(fb, languages)
	b := New(fb, languages)
	b.selections = cursors(3)

	require.NoError(t, a.InsertText("--"))
	require.NoError(t, b.HistoryCatchUp())
	assert.Equal(t, []int{5}, primaries(b))

	handle(t, a, action.Undo)
	require.NoError(t, b.HistoryCatchUp())
	assert.Equal(t, []int{3}, primaries(b))
	assert.Equal(t, []int{0}, primaries(a))
}

func TestConfirmCatchesUp(t *testing.T) {
	fb, _ := newFileBuffer(t, "abc\n")
	a := New(fb, languages)
	b := New(fb, languages)
	b.selections = cursors(2)

	require.NoError(t, a.InsertText("xy"))
	handle(t, b, action.Confirm)
	assert.Equal(t, []int{4}, primaries(b))
	assert.Equal(t, fb.HistoryIndex(), b.HistoryIndex())
}

func TestUndoTokenizerFailureKeepsViewInSync(t *testing.T) {
	fb, _ := newFileBuffer(t, "")
	tok := &flakyTokenizer{}
	v := New(fb, tok)

	require.NoError(t, v.InsertText("abc"))
	tok.down = true

	_, err := v.HandleAction(action.Undo)
	require.Error(t, err)
	assert.Equal(t, "abc\n", fb.Text())
	assert.Equal(t, []int{3}, primaries(v))
	assert.Equal(t, fb.HistoryIndex(), v.HistoryIndex())
	for _, sel := range v.Selections() {
		assert.True(t, sel.Valid(fb.LastIndex()))
	}

	tok.down = false
	handle(t, v, action.Undo)
	assert.Equal(t, "\n", fb.Text())
	assert.Equal(t, []int{0}, primaries(v))

	tok.down = true
	_, err = v.HandleAction(action.Redo)
	require.Error(t, err)
	assert.Equal(t, "\n", fb.Text())
	assert.Equal(t, []int{0}, primaries(v))

	tok.down = false
	handle(t, v, action.Redo)
	assert.Equal(t, "abc\n", fb.Text())
	assert.Equal(t, []int{3}, primaries(v))
}

func TestFailedCommandIsRolledBack(t *testing.T) {
	fb, _ := newFileBuffer(t, "abcd\n")
	tok := &flakyTokenizer{}
	v := New(fb, tok)
	v.selections = cursors(0, 2)
	before := fb.History().Len()

	tok.down = true
	require.Error(t, v.InsertText("x"))
	assert.Equal(t, "abcd\n", fb.Text())
	assert.Equal(t, before, fb.History().Len())
	assert.Equal(t, []int{0, 2}, primaries(v))
	assert.Equal(t, fb.HistoryIndex(), v.HistoryIndex())
	assert.False(t, fb.Modified())

	tok.down = false
	require.NoError(t, v.InsertText("x"))
	assert.Equal(t, "xabxcd\n", fb.Text())
	assert.Equal(t, []int{1, 4}, primaries(v))
}

func TestFailedWordRemoveIsRolledBack(t *testing.T) {
	fb, _ := newFileBuffer(t, "one two three\n")
	tok := &flakyTokenizer{}
	v := New(fb, tok)
	handle(t, v, action.WordMode)
	v.selections = []cursor.Selection{
		cursor.NewRangeSelection(4, 6),
		cursor.NewRangeSelection(8, 12),
	}
	words := fb.Words()
	length := fb.History().Len()

	tok.down = true
	_, err := v.HandleAction(action.Remove)
	require.Error(t, err)
	assert.Equal(t, "one two three\n", fb.Text())
	assert.Equal(t, length, fb.History().Len())
	assert.Equal(t, words, fb.Words())
	assert.Equal(t, cursor.ModeWord, v.Mode())
	require.Len(t, v.selections, 2)
	assert.Equal(t, 6, v.selections[0].Primary)
	assert.Equal(t, 12, v.selections[1].Primary)
}

func TestCatchUpAcrossTruncation(t *testing.T) {
	fb, clock := newFileBuffer(t, "")
	a := New(fb, languages)
	b := New(fb, languages)

	require.NoError(t, a.AddCharacter('a'))
	require.NoError(t, b.HistoryCatchUp())
	clock.Advance(time.Second)
	require.NoError(t, a.AddCharacter('b'))
	require.NoError(t, b.HistoryCatchUp())
	assert.Equal(t, []int{2}, primaries(b))

	handle(t, a, action.Undo)
	clock.Advance(time.Second)
	require.NoError(t, a.AddCharacter('z'))
	assert.Equal(t, "az\n", fb.Text())

	require.NoError(t, b.HistoryCatchUp())
	assert.Equal(t, []int{2}, primaries(b))
	assert.Equal(t, fb.HistoryIndex(), b.HistoryIndex())
}

func TestOwnEditsAreNotReplayed(t *testing.T) {
	v, _ := newView(t, "abc\n")
	v.selections = cursors(1)
	require.NoError(t, v.InsertText("z"))
	require.NoError(t, v.HistoryCatchUp())
	assert.Equal(t, []int{2}, primaries(v))
}

func TestOverlappingSelectionsAreKept(t *testing.T) {
	v, _ := newView(t, "abcdef\n")
	v.selections = []cursor.Selection{
		cursor.NewRangeSelection(0, 2),
		cursor.NewRangeSelection(1, 3),
	}

	handle(t, v, action.Rotate)
	assert.Equal(t, "abcdef\n", v.fb.Text())
	assert.Equal(t, 0, v.fb.History().Len())

	handle(t, v, action.Delete)
	assert.Equal(t, "ef\n", v.fb.Text())
	require.Len(t, v.selections, 2)
	assert.Equal(t, []int{0, 0}, primaries(v))
}

func TestRotate(t *testing.T) {
	v, _ := newView(t, "a b c\n")
	v.selections = cursors(0, 2, 4)

	handle(t, v, action.Rotate)

	assert.Equal(t, "c a b\n", v.fb.Text())
	assert.Equal(t, []int{0, 2, 4}, primaries(v))

	handle(t, v, action.Undo)
	assert.Equal(t, "a b c\n", v.fb.Text())
}

func TestRotateNeedsTwoSelections(t *testing.T) {
	v, _ := newView(t, "abc\n")
	handle(t, v, action.Rotate)
	assert.Equal(t, 0, v.fb.History().Len())
}

func TestCharacterMotion(t *testing.T) {
	v, _ := newView(t, "abcd\nx\nabcd\n")
	v.selections = []cursor.Selection{{Primary: 3, Secondary: 3, Offset: 3}}

	handle(t, v, action.MoveUp)
	assert.Equal(t, []int{3}, primaries(v))

	handle(t, v, action.MoveDown)
	assert.Equal(t, []int{6}, primaries(v))
	handle(t, v, action.MoveDown)
	assert.Equal(t, []int{10}, primaries(v))
	handle(t, v, action.MoveDown)
	assert.Equal(t, []int{10}, primaries(v))

	handle(t, v, action.Start)
	assert.Equal(t, []int{7}, primaries(v))
	handle(t, v, action.ExtendEnd)
	assert.Equal(t, 7, v.selections[0].Secondary)
	assert.Equal(t, 11, v.selections[0].Primary)

	handle(t, v, action.MoveLeft)
	assert.Equal(t, []int{10}, primaries(v))
	assert.False(t, v.selections[0].IsExtended())

	// motions are view-local
	assert.Equal(t, 0, v.fb.History().Len())
}

func TestMoveLeftAtStartIsNoop(t *testing.T) {
	v, _ := newView(t, "abc\n")
	handle(t, v, action.MoveLeft)
	assert.Equal(t, []int{0}, primaries(v))
}

func TestRemoveAndDeleteAtEdges(t *testing.T) {
	v, _ := newView(t, "ab\n")
	handle(t, v, action.Remove)
	assert.Equal(t, "ab\n", v.fb.Text())

	v.selections = cursors(2)
	handle(t, v, action.Delete)
	assert.Equal(t, "ab\n", v.fb.Text())
	assert.Equal(t, 0, v.fb.History().Len())

	handle(t, v, action.Remove)
	assert.Equal(t, "a\n", v.fb.Text())
	assert.Equal(t, []int{1}, primaries(v))
}

func TestAddCharacterReplacesSelection(t *testing.T) {
	v, _ := newView(t, "hello world\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(6, 10)}
	v.mode = cursor.ModeWord

	require.NoError(t, v.AddCharacter('W'))

	assert.Equal(t, "hello W\n", v.fb.Text())
	assert.Equal(t, cursor.ModeCharacter, v.Mode())
	assert.Equal(t, []int{7}, primaries(v))
}

func TestPreserveLines(t *testing.T) {
	fb, _ := newFileBuffer(t, "ab\ncd\n")
	v := New(fb, languages, WithPreserveLines(true))
	v.selections = []cursor.Selection{cursor.NewRangeSelection(0, 2)}

	require.NoError(t, v.AddCharacter('x'))
	assert.Equal(t, "x\ncd\n", fb.Text())
}

func TestNewline(t *testing.T) {
	v, _ := newView(t, "ab\ncd\n")

	handle(t, v, action.NewlineDown)
	assert.Equal(t, "ab\n\ncd\n", v.fb.Text())
	assert.Equal(t, []int{3}, primaries(v))

	v.selections = cursors(5)
	handle(t, v, action.NewlineUp)
	assert.Equal(t, "ab\n\n\ncd\n", v.fb.Text())
	assert.Equal(t, []int{4}, primaries(v))
}

func TestDeleteLine(t *testing.T) {
	v, _ := newView(t, "ab\ncd\nef\n")
	v.selections = cursors(4)

	handle(t, v, action.DeleteLine)
	assert.Equal(t, "ab\nef\n", v.fb.Text())
	assert.Equal(t, []int{3}, primaries(v))

	handle(t, v, action.DeleteLine)
	assert.Equal(t, "ab\n", v.fb.Text())
	assert.Equal(t, []int{0}, primaries(v))

	handle(t, v, action.DeleteLine)
	assert.Equal(t, "\n", v.fb.Text())
	assert.True(t, v.fb.IsEmpty())
}

func TestLineMode(t *testing.T) {
	v, _ := newView(t, "ab\ncd\nef\n")

	handle(t, v, action.LineMode)
	assert.Equal(t, cursor.ModeLine, v.Mode())
	assert.Equal(t, 0, v.selections[0].Secondary)
	assert.Equal(t, 2, v.selections[0].Primary)

	handle(t, v, action.MoveDown)
	assert.Equal(t, 3, v.selections[0].Secondary)
	assert.Equal(t, 5, v.selections[0].Primary)

	// horizontal motion means nothing to whole lines
	handle(t, v, action.MoveLeft, action.End)
	assert.Equal(t, 5, v.selections[0].Primary)

	handle(t, v, action.Delete)
	assert.Equal(t, "ab\nef\n", v.fb.Text())
	assert.Equal(t, 3, v.selections[0].Secondary)
	assert.Equal(t, 5, v.selections[0].Primary)

	handle(t, v, action.Remove)
	assert.Equal(t, "ab\n", v.fb.Text())
	assert.Equal(t, 0, v.selections[0].Secondary)
	assert.Equal(t, 2, v.selections[0].Primary)

	handle(t, v, action.LineMode)
	assert.Equal(t, cursor.ModeLine, v.Mode())
}

func TestLineModeKeepsInversion(t *testing.T) {
	v, _ := newView(t, "hello world\nnext\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(8, 2)}

	handle(t, v, action.LineMode)
	sel := v.selections[0]
	assert.Equal(t, 11, sel.Secondary)
	assert.Equal(t, 0, sel.Primary)
	assert.True(t, sel.IsInverted())

	v, _ = newView(t, "hello world\nnext\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(2, 8)}
	handle(t, v, action.LineMode)
	assert.Equal(t, 0, v.selections[0].Secondary)
	assert.Equal(t, 11, v.selections[0].Primary)
}

func TestLineModeExtend(t *testing.T) {
	v, _ := newView(t, "ab\ncd\nef\n")
	v.selections = cursors(4)

	handle(t, v, action.LineMode, action.ExtendUp)
	sel := v.selections[0]
	assert.True(t, sel.IsInverted())
	assert.Equal(t, 0, sel.Primary)
	assert.Equal(t, 5, sel.Secondary)

	handle(t, v, action.ExtendDown, action.ExtendDown)
	sel = v.selections[0]
	assert.False(t, sel.IsInverted())
	assert.Equal(t, 3, sel.Secondary)
	assert.Equal(t, 8, sel.Primary)
}

func TestWordMode(t *testing.T) {
	v, _ := newView(t, "foo bar baz\n")

	handle(t, v, action.WordMode)
	assert.Equal(t, 0, v.selections[0].Secondary)
	assert.Equal(t, 2, v.selections[0].Primary)

	handle(t, v, action.MoveRight)
	assert.Equal(t, 4, v.selections[0].Secondary)
	assert.Equal(t, 6, v.selections[0].Primary)

	handle(t, v, action.Delete)
	assert.Equal(t, "foo baz\n", v.fb.Text())
	assert.Equal(t, 4, v.selections[0].Smallest())
	assert.Equal(t, 6, v.selections[0].Biggest())

	handle(t, v, action.MoveLeft)
	assert.Equal(t, 0, v.selections[0].Smallest())
	assert.Equal(t, 2, v.selections[0].Biggest())
	assert.True(t, v.selections[0].IsInverted())

	handle(t, v, action.End)
	assert.Equal(t, 4, v.selections[0].Smallest())
	handle(t, v, action.Start)
	assert.Equal(t, 0, v.selections[0].Smallest())
}

func TestWordModeRemove(t *testing.T) {
	v, _ := newView(t, "foo bar\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(4, 6)}
	v.mode = cursor.ModeWord

	handle(t, v, action.Remove)
	assert.Equal(t, "foo \n", v.fb.Text())
	assert.Equal(t, 0, v.selections[0].Smallest())
	assert.Equal(t, 2, v.selections[0].Biggest())
}

func TestWordModeVertical(t *testing.T) {
	v, _ := newView(t, "alpha beta\n\ngamma delta\n")
	v.selections = []cursor.Selection{{Primary: 9, Secondary: 6, Offset: 6}}
	v.mode = cursor.ModeWord

	handle(t, v, action.MoveDown)
	assert.Equal(t, 18, v.selections[0].Smallest())
	assert.Equal(t, 22, v.selections[0].Biggest())
}

func TestModeSwitchIsIdempotent(t *testing.T) {
	v, _ := newView(t, "abc\n")
	handle(t, v, action.CharacterMode)
	assert.Equal(t, 0, v.fb.History().Len())

	handle(t, v, action.WordMode)
	n := v.fb.History().Len()
	handle(t, v, action.WordMode)
	assert.Equal(t, n, v.fb.History().Len())
}

func TestModeSwitchUndo(t *testing.T) {
	v, clock := newView(t, "abc def\n")
	handle(t, v, action.LineMode)
	clock.Advance(time.Second)

	handle(t, v, action.Undo)
	assert.Equal(t, cursor.ModeCharacter, v.Mode())
	assert.Equal(t, []int{0}, primaries(v))
	assert.False(t, v.selections[0].IsExtended())
}

func TestInsertAndAppend(t *testing.T) {
	v, _ := newView(t, "hello\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(1, 3)}
	v.mode = cursor.ModeWord

	handle(t, v, action.Append)
	assert.Equal(t, cursor.ModeCharacter, v.Mode())
	assert.Equal(t, []int{4}, primaries(v))

	v.selections = []cursor.Selection{cursor.NewRangeSelection(1, 3)}
	handle(t, v, action.Insert)
	assert.Equal(t, []int{1}, primaries(v))
}

func TestAddSelectionConfirmAbort(t *testing.T) {
	v, _ := newView(t, "abcdef\n")

	handle(t, v, action.AddSelection)
	assert.True(t, v.IsAdding())
	assert.Equal(t, []int{0, 1}, primaries(v))

	handle(t, v, action.MoveRight)
	assert.Equal(t, []int{0, 2}, primaries(v))

	handle(t, v, action.Confirm)
	assert.False(t, v.IsAdding())
	handle(t, v, action.MoveRight)
	assert.Equal(t, []int{1, 3}, primaries(v))

	handle(t, v, action.AddSelection)
	assert.Equal(t, []int{1, 3, 4}, primaries(v))
	handle(t, v, action.Abort)
	assert.False(t, v.IsAdding())
	assert.Equal(t, []int{1, 3}, primaries(v))

	handle(t, v, action.Abort)
	assert.Equal(t, []int{1}, primaries(v))
}

func TestDuplicate(t *testing.T) {
	v, _ := newView(t, "abcd\nxy\nabcd\n")
	v.selections = []cursor.Selection{cursor.NewRangeSelection(1, 3)}

	handle(t, v, action.DuplicateDown)
	require.Len(t, v.selections, 2)
	assert.Equal(t, 6, v.selections[1].Secondary)
	assert.Equal(t, 7, v.selections[1].Primary)

	handle(t, v, action.DuplicateUp, action.DuplicateUp)
	require.Len(t, v.selections, 3)
	assert.Equal(t, 1, v.selections[2].Secondary)
	assert.Equal(t, 2, v.selections[2].Primary)
}

func TestPassThrough(t *testing.T) {
	v, _ := newView(t, "abc\n")
	for _, a := range []action.Action{action.Save, action.Reload, action.NextView, action.Quit} {
		next, err := v.HandleAction(a)
		require.NoError(t, err)
		assert.Equal(t, a, next)
	}
	next, err := v.HandleAction(action.None)
	require.NoError(t, err)
	assert.Equal(t, action.None, next)
}

func TestUnsupportedLanguageLeavesTextAlone(t *testing.T) {
	fb2 := buffer.New("abc\n", buffer.WithLanguage("klingon"))
	v := New(fb2, languages)

	_, err := v.HandleAction(action.Delete)
	require.Error(t, err)
	assert.ErrorIs(t, err, language.ErrLanguageNotFound)
	assert.Equal(t, "abc\n", fb2.Text())
	assert.Equal(t, 0, fb2.History().Len())

	assert.ErrorIs(t, v.AddCharacter('x'), language.ErrLanguageNotFound)
	assert.Equal(t, "abc\n", fb2.Text())
}

func TestSelectionGaps(t *testing.T) {
	fb, _ := newFileBuffer(t, "a\nb\nc\nd\ne\nf\n")
	v := New(fb, languages, WithViewport(3, 10), WithSelectionGap(1))

	handle(t, v, action.MoveDown, action.MoveDown, action.MoveDown, action.MoveDown)
	line, _ := v.Scroll()
	assert.Equal(t, 3, line)

	info := v.LineInfo()
	require.Len(t, info, 3)
	assert.Equal(t, LineInfo{Line: 3, Start: 6, Length: 1, Width: 1}, info[0])
	assert.True(t, info[1].Selected)
	assert.False(t, info[2].Selected)

	handle(t, v, action.MoveUp, action.MoveUp, action.MoveUp, action.MoveUp)
	line, _ = v.Scroll()
	assert.Equal(t, 0, line)
}

func TestHorizontalGap(t *testing.T) {
	fb, _ := newFileBuffer(t, "abcdefghijklmnop\n")
	v := New(fb, languages, WithViewport(5, 5), WithHorizontalGap(1))

	handle(t, v, action.End)
	_, col := v.Scroll()
	assert.Equal(t, 13, col)

	handle(t, v, action.Start)
	_, col = v.Scroll()
	assert.Equal(t, 0, col)
}

func TestLineInfoWideCharacters(t *testing.T) {
	v, _ := newView(t, "日本\nab\n")
	info := v.LineInfo()
	require.Len(t, info, 2)
	assert.Equal(t, 2, info[0].Length)
	assert.Equal(t, 4, info[0].Width)
	assert.True(t, info[0].Selected)
	assert.Equal(t, 3, info[1].Start)
}
