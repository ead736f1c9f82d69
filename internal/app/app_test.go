package app

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/input/action"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/project/vfs"
	"github.com/dshills/inkwell/internal/project/watcher"
)

// fakeWatcher records watched paths and lets tests inject events.
type fakeWatcher struct {
	mu      sync.Mutex
	watched map[string]bool
	events  chan watcher.Event
	errors  chan error
	closed  bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		watched: make(map[string]bool),
		events:  make(chan watcher.Event, 10),
		errors:  make(chan error, 10),
	}
}

func (w *fakeWatcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watched[path] = true
	return nil
}

func (w *fakeWatcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, path)
	return nil
}

func (w *fakeWatcher) Events() <-chan watcher.Event { return w.events }
func (w *fakeWatcher) Errors() <-chan error         { return w.errors }

func (w *fakeWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
		close(w.errors)
	}
	return nil
}

func (w *fakeWatcher) isWatching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watched[path]
}

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

type testApp struct {
	*Application
	files   *vfs.MemFS
	watcher *fakeWatcher
	log     *bytes.Buffer
}

func setupTestApp(t *testing.T, files map[string]string) *testApp {
	t.Helper()
	memfs := vfs.NewMemFS()
	memfs.SetClock(tick())
	for path, content := range files {
		require.NoError(t, memfs.AddFile(path, content))
	}

	var out bytes.Buffer
	w := newFakeWatcher()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app, err := New(Options{
		Files:   memfs,
		Logger:  logging.New(logging.Config{Level: logging.LevelDebug, Output: &out}),
		Watcher: w,
		Clock:   func() time.Time { return fixed },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return &testApp{Application: app, files: memfs, watcher: w, log: &out}
}

func TestApplication_OpenAndType(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/src/notes.txt": "abc\n"})
	ctx := context.Background()

	v, err := a.Open(ctx, "/src/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", v.Name())
	assert.Equal(t, "/src/notes.txt", v.Path())
	assert.True(t, a.watcher.isWatching("/src/notes.txt"))

	require.NoError(t, a.Type("XY"))
	assert.Equal(t, "XYabc\n", v.Text())
	assert.Equal(t, 2, v.Selections()[0].Primary)
	assert.Equal(t, []string{"notes.txt"}, a.Modified())

	require.NoError(t, a.HandleName(ctx, "save"))
	data, err := a.files.ReadFile("/src/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "XYabc\n", string(data))
	assert.Empty(t, a.Modified())
}

func TestApplication_NoView(t *testing.T) {
	a := setupTestApp(t, nil)
	ctx := context.Background()

	err := a.HandleAction(ctx, action.MoveRight)
	assert.ErrorIs(t, err, ErrNoActiveView)
	assert.ErrorIs(t, a.Type("x"), ErrNoActiveView)
	_, err = a.Split()
	assert.ErrorIs(t, err, ErrNoActiveView)
	_, err = a.Focused()
	assert.ErrorIs(t, err, ErrNoActiveView)
	assert.ErrorIs(t, a.Focus(0), ErrNoActiveView)
}

func TestApplication_SplitSharesBuffer(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "abc\n"})
	ctx := context.Background()

	first, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	second, err := a.Split()
	require.NoError(t, err)
	assert.Same(t, first.Handle(), second.Handle())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 2, first.Handle().Refs())
	assert.Equal(t, 1, a.FocusIndex())

	require.NoError(t, a.HandleName(ctx, "move_right"))
	require.NoError(t, a.HandleName(ctx, "move_right"))
	assert.Equal(t, 2, second.Selections()[0].Primary)
	assert.Equal(t, 0, first.Selections()[0].Primary, "motions stay in their view")

	require.NoError(t, a.Focus(0))
	require.NoError(t, a.Type("XY"))
	assert.Equal(t, "XYabc\n", second.Text())
	assert.Equal(t, 2, first.Selections()[0].Primary)
	assert.Equal(t, 4, second.Selections()[0].Primary, "other view shifts past the insert")
}

func TestApplication_CycleViews(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "a\n", "/b.txt": "b\n"})
	ctx := context.Background()

	_, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	_, err = a.Open(ctx, "/b.txt")
	require.NoError(t, err)
	_, err = a.Scratch("scratch\n", "text")
	require.NoError(t, err)
	assert.Equal(t, 2, a.FocusIndex())

	require.NoError(t, a.HandleAction(ctx, action.NextView))
	assert.Equal(t, 0, a.FocusIndex())
	require.NoError(t, a.HandleAction(ctx, action.PreviousView))
	assert.Equal(t, 2, a.FocusIndex())
	require.NoError(t, a.HandleAction(ctx, action.PreviousView))
	assert.Equal(t, 1, a.FocusIndex())

	v, err := a.Focused()
	require.NoError(t, err)
	assert.Equal(t, "b.txt", v.Name())

	names := make([]string, 0, 3)
	for _, v := range a.Views() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "[scratch]"}, names)
}

func TestApplication_Quit(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "a\n"})
	ctx := context.Background()

	_, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	require.NoError(t, a.Type("z"))

	err = a.HandleAction(ctx, action.Quit)
	assert.ErrorIs(t, err, ErrUnsavedChanges)
	assert.False(t, a.Quitting())

	require.NoError(t, a.Save(ctx))
	require.NoError(t, a.HandleAction(ctx, action.Quit))
	assert.True(t, a.Quitting())
}

func TestApplication_CloseView(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "a\n"})
	ctx := context.Background()

	v, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	_, err = a.Split()
	require.NoError(t, err)
	require.NoError(t, a.Type("z"))

	require.NoError(t, a.CloseView(false), "another view still holds the buffer")
	assert.Len(t, a.Views(), 1)
	assert.Equal(t, 1, v.Handle().Refs())

	err = a.CloseView(false)
	assert.ErrorIs(t, err, ErrUnsavedChanges)
	assert.Len(t, a.Views(), 1)

	require.NoError(t, a.CloseView(true))
	assert.Empty(t, a.Views())
	assert.True(t, v.Handle().Released())
	assert.False(t, a.watcher.isWatching("/a.txt"))
	assert.Equal(t, 0, a.Store().Count())
}

func TestApplication_SaveAs(t *testing.T) {
	a := setupTestApp(t, nil)
	ctx := context.Background()

	v, err := a.Scratch("draft\n", "text")
	require.NoError(t, err)
	assert.Equal(t, "[scratch]", v.Name())

	err = a.Save(ctx)
	require.Error(t, err)

	require.NoError(t, a.SaveAs(ctx, "/out/draft.txt"))
	assert.Equal(t, "/out/draft.txt", v.Path())
	assert.True(t, a.watcher.isWatching("/out/draft.txt"))
	data, err := a.files.ReadFile("/out/draft.txt")
	require.NoError(t, err)
	assert.Equal(t, "draft\n", string(data))
}

func TestApplication_ExternalChangeReloads(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "one\ntwo\n"})
	ctx := context.Background()

	first, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	second, err := a.Split()
	require.NoError(t, err)
	require.NoError(t, a.HandleName(ctx, "move_down"))
	require.Equal(t, 4, second.Selections()[0].Primary)

	require.NoError(t, a.ExternalChange(ctx, "/a.txt"), "unchanged file is ignored")
	assert.Equal(t, 0, first.Handle().Buffer().HistoryIndex())

	require.NoError(t, a.files.AddFile("/a.txt", "zero\none\ntwo\n"))
	require.NoError(t, a.ExternalChange(ctx, "/a.txt"))
	assert.Equal(t, "zero\none\ntwo\n", first.Text())
	assert.Equal(t, 9, second.Selections()[0].Primary)
	assert.Equal(t, 5, first.Selections()[0].Primary)
	assert.Empty(t, a.Modified())
	assert.Contains(t, a.log.String(), "reloaded")

	require.NoError(t, a.HandleAction(ctx, action.Undo))
	assert.Equal(t, "one\ntwo\n", first.Text(), "a reload undoes in one step")
}

func TestApplication_ExternalChangeKeepsModified(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "one\n"})
	ctx := context.Background()

	v, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)
	require.NoError(t, a.Type("local "))

	require.NoError(t, a.files.AddFile("/a.txt", "remote\n"))
	require.NoError(t, a.ExternalChange(ctx, "/a.txt"))
	assert.Equal(t, "local one\n", v.Text())
	assert.Contains(t, a.log.String(), "changed on disk while modified")

	err = a.HandleAction(ctx, action.Reload)
	assert.Error(t, err)
	assert.Equal(t, "local one\n", v.Text())

	require.NoError(t, a.ExternalChange(ctx, "/not-open.txt"))
}

func TestApplication_RunReloadsOnEvent(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "old\n"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := a.Open(ctx, "/a.txt")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.NoError(t, a.files.AddFile("/a.txt", "new\n"))
	a.watcher.events <- watcher.Event{Path: "/a.txt", Op: watcher.OpWrite, Timestamp: time.Now()}

	assert.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return v.Text() == "new\n"
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApplication_RunStopsWhenWatcherCloses(t *testing.T) {
	a := setupTestApp(t, nil)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()
	require.NoError(t, a.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after close")
	}
}

func TestNew_LanguagesFile(t *testing.T) {
	memfs := vfs.NewMemFS()
	require.NoError(t, memfs.AddFile("/etc/languages.yaml", "languages:\n  - name: notes\n    lexer: markdown\n    extensions: [\".note\"]\n"))
	require.NoError(t, memfs.AddFile("/todo.note", "# list\n"))

	cfg := config.Default()
	cfg.Languages.File = "/etc/languages.yaml"
	app, err := New(Options{Config: cfg, Files: memfs})
	require.NoError(t, err)
	defer app.Close()

	v, err := app.Open(context.Background(), "/todo.note")
	require.NoError(t, err)
	assert.Equal(t, "notes", v.Handle().Buffer().Language())

	cfg = config.Default()
	cfg.Languages.File = "/missing.yaml"
	_, err = New(Options{Config: cfg, Files: memfs})
	assert.Error(t, err)
}

func TestApplication_ClosedRejectsOpen(t *testing.T) {
	a := setupTestApp(t, map[string]string{"/a.txt": "a\n"})
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	_, err := a.Open(context.Background(), "/a.txt")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, a.ExternalChange(context.Background(), "/a.txt"), ErrClosed)
}
