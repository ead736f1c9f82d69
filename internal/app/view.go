package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/textbuffer"
	"github.com/dshills/inkwell/internal/project/filestore"
)

// View is one window onto a buffer. Several views may share a buffer.
type View struct {
	handle *filestore.Handle
	text   *textbuffer.TextBuffer
}

// ID returns the view's window id, the owner of the history actions it
// logs.
func (v *View) ID() uuid.UUID {
	return v.text.WindowID()
}

// Name returns the base name of the file, or "[scratch]" for a virtual
// buffer.
func (v *View) Name() string {
	if p := v.handle.Path(); p != "" {
		return filepath.Base(p)
	}
	return "[scratch]"
}

// Path returns the file path, or "" for a virtual buffer.
func (v *View) Path() string {
	return v.handle.Path()
}

// Handle returns the shared buffer handle.
func (v *View) Handle() *filestore.Handle {
	return v.handle
}

// TextBuffer returns the view's editing state.
func (v *View) TextBuffer() *textbuffer.TextBuffer {
	return v.text
}

// Text returns the buffer content.
func (v *View) Text() string {
	return v.handle.Buffer().Text()
}

// Selections returns the view's selections.
func (v *View) Selections() []cursor.Selection {
	return v.text.Selections()
}

// Mode returns the view's selection mode.
func (v *View) Mode() cursor.Mode {
	return v.text.Mode()
}

// Open opens path in a new view and focuses it.
func (app *Application) Open(ctx context.Context, path string) (*View, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil, NewOperationError("open", path, ErrClosed)
	}

	h, err := app.store.Open(ctx, path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	if h.Refs() == 1 && app.watcher != nil {
		if err := app.watcher.Watch(h.Path()); err != nil {
			app.logger.WithComponent("app").WithField("path", h.Path()).Warn("not watching: %v", err)
		}
	}
	v := app.attach(h)
	app.logger.WithComponent("app").WithField("path", h.Path()).Debug("opened view %d", len(app.views)-1)
	return v, nil
}

// Scratch creates a view on a new buffer with no file behind it.
func (app *Application) Scratch(text, lang string) (*View, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil, NewOperationError("scratch", lang, ErrClosed)
	}

	h, err := app.store.Virtual(text, lang)
	if err != nil {
		return nil, NewOperationError("scratch", lang, err)
	}
	return app.attach(h), nil
}

// Split opens a second view on the focused view's buffer and focuses it.
// The new view starts with a cursor at the beginning of the buffer.
func (app *Application) Split() (*View, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	cur, err := app.focused()
	if err != nil {
		return nil, NewOperationError("split", "", err)
	}
	if err := app.store.Acquire(cur.handle); err != nil {
		return nil, NewOperationError("split", cur.Name(), err)
	}
	return app.attach(cur.handle), nil
}

// attach creates a view on h, which already carries a reference for it.
func (app *Application) attach(h *filestore.Handle) *View {
	e := app.cfg.Editor
	v := &View{
		handle: h,
		text: textbuffer.New(h.Buffer(), app.languages,
			textbuffer.WithSelectionGap(e.SelectionGap),
			textbuffer.WithHorizontalGap(e.HorizontalGap),
			textbuffer.WithPreserveLines(e.PreserveLines),
			textbuffer.WithViewport(e.ViewportRows, e.ViewportColumns),
		),
	}
	app.views = append(app.views, v)
	app.focus = len(app.views) - 1
	return v
}

// CloseView closes the focused view. Closing the last view of a buffer
// with unsaved changes fails unless force is set.
func (app *Application) CloseView(force bool) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.focused()
	if err != nil {
		return NewOperationError("close", "", err)
	}
	if !force && v.handle.Refs() == 1 && v.handle.Buffer().Modified() {
		return NewOperationError("close", v.Name(), ErrUnsavedChanges)
	}

	path := v.handle.Path()
	if err := app.store.Release(v.handle); err != nil {
		return NewOperationError("close", v.Name(), err)
	}
	if v.handle.Released() && path != "" && app.watcher != nil {
		if err := app.watcher.Unwatch(path); err != nil {
			app.logger.WithComponent("app").WithField("path", path).Warn("unwatch: %v", err)
		}
	}

	app.views = append(app.views[:app.focus], app.views[app.focus+1:]...)
	if app.focus >= len(app.views) {
		app.focus = max(len(app.views)-1, 0)
	}
	return nil
}

// Views returns every view in order.
func (app *Application) Views() []*View {
	app.mu.Lock()
	defer app.mu.Unlock()
	out := make([]*View, len(app.views))
	copy(out, app.views)
	return out
}

// Focused returns the view that receives commands.
func (app *Application) Focused() (*View, error) {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.focused()
}

// FocusIndex returns the position of the focused view.
func (app *Application) FocusIndex() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.focus
}

// Focus moves focus to the view at index i.
func (app *Application) Focus(i int) error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if i < 0 || i >= len(app.views) {
		return NewOperationError("focus", fmt.Sprint(i), ErrNoActiveView)
	}
	app.focus = i
	return app.views[i].text.HistoryCatchUp()
}

func (app *Application) focused() (*View, error) {
	if len(app.views) == 0 {
		return nil, ErrNoActiveView
	}
	return app.views[app.focus], nil
}
