package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dshills/inkwell/internal/input/action"
	"github.com/dshills/inkwell/internal/project/filestore"
)

// HandleAction sends a to the focused view. Actions the view passes
// through are handled by the application; any other leftover is an
// ErrUnhandledAction.
func (app *Application) HandleAction(ctx context.Context, a action.Action) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.focused()
	if err != nil {
		return NewOperationError("action", a.String(), err)
	}

	rest, err := v.text.HandleAction(a)
	if err != nil {
		return NewOperationError("action", a.String(), err)
	}
	if err := app.sync(v.handle); err != nil {
		return NewOperationError("action", a.String(), err)
	}

	switch rest {
	case action.None:
		return nil
	case action.Save:
		return app.save(ctx, v)
	case action.Reload:
		return app.reload(ctx, v.handle, false)
	case action.NextView:
		return app.cycle(1)
	case action.PreviousView:
		return app.cycle(-1)
	case action.Quit:
		if names := app.modified(); len(names) > 0 {
			return NewOperationError("quit", strings.Join(names, ", "), ErrUnsavedChanges)
		}
		app.quitting = true
		return nil
	default:
		return NewOperationError("action", rest.String(), ErrUnhandledAction)
	}
}

// HandleName parses name and sends the action to the focused view.
func (app *Application) HandleName(ctx context.Context, name string) error {
	a, err := action.Parse(name)
	if err != nil {
		return NewOperationError("action", name, err)
	}
	return app.HandleAction(ctx, a)
}

// Type inserts s at every selection of the focused view.
func (app *Application) Type(s string) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.focused()
	if err != nil {
		return NewOperationError("type", "", err)
	}
	if err := v.text.InsertText(s); err != nil {
		return NewOperationError("type", v.Name(), err)
	}
	return app.sync(v.handle)
}

// Save writes the focused view's buffer to disk.
func (app *Application) Save(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.focused()
	if err != nil {
		return NewOperationError("save", "", err)
	}
	return app.save(ctx, v)
}

// SaveAs writes the focused view's buffer to path, which it then follows.
func (app *Application) SaveAs(ctx context.Context, path string) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	v, err := app.focused()
	if err != nil {
		return NewOperationError("save", path, err)
	}
	old := v.handle.Path()
	if err := app.store.SaveAs(ctx, v.handle, path); err != nil {
		return NewOperationError("save", path, err)
	}
	if app.watcher != nil && old != v.handle.Path() {
		if old != "" {
			_ = app.watcher.Unwatch(old)
		}
		if err := app.watcher.Watch(v.handle.Path()); err != nil {
			app.logger.WithComponent("app").WithField("path", v.handle.Path()).Warn("not watching: %v", err)
		}
	}
	return nil
}

func (app *Application) save(ctx context.Context, v *View) error {
	if err := app.store.Save(ctx, v.handle); err != nil {
		return NewOperationError("save", v.Name(), err)
	}
	app.logger.WithComponent("app").WithField("path", v.handle.Path()).Info("saved")
	return nil
}

// reload reloads h from disk and brings every view of it up to date.
func (app *Application) reload(ctx context.Context, h *filestore.Handle, force bool) error {
	changed, err := app.store.Reload(ctx, h, force)
	if err != nil {
		return NewOperationError("reload", h.Path(), err)
	}
	if changed {
		app.logger.WithComponent("app").WithField("path", h.Path()).Info("reloaded")
	}
	if err := app.sync(h); err != nil {
		return NewOperationError("reload", h.Path(), err)
	}
	return nil
}

// cycle moves focus dir views along, wrapping around.
func (app *Application) cycle(dir int) error {
	n := len(app.views)
	app.focus = ((app.focus+dir)%n + n) % n
	if err := app.views[app.focus].text.HistoryCatchUp(); err != nil {
		return NewOperationError("focus", app.views[app.focus].Name(), err)
	}
	return nil
}

// sync catches up every view of h with its buffer's history.
func (app *Application) sync(h *filestore.Handle) error {
	var errs []error
	for _, v := range app.views {
		if v.handle == h {
			if err := v.text.HistoryCatchUp(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
