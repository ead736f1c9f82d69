// Package app ties buffers, views and files into one editing session.
//
// An Application owns the file store and an ordered set of views, one of
// which has focus. Commands go to the focused view; the actions a view
// passes through (save, reload, view switching, quit) are handled here.
// All methods are safe for concurrent use: commands and file-change
// reloads are serialized by one mutex.
package app

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/language"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/project/filestore"
	"github.com/dshills/inkwell/internal/project/vfs"
	"github.com/dshills/inkwell/internal/project/watcher"
)

// Options configures the application. Zero fields get defaults.
type Options struct {
	// Config holds editor settings. Defaults to config.Default().
	Config *config.Config

	// Files is the file system. Defaults to the OS file system.
	Files vfs.VFS

	// Languages tokenizes buffers. Defaults to a manager with the built-in
	// definitions plus Config.Languages.File.
	Languages *language.Manager

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *logging.Logger

	// Watcher reports files changed by other programs. Nil disables
	// reloading on change.
	Watcher watcher.Watcher

	// Clock drives undo grouping. Defaults to the wall clock.
	Clock history.Clock
}

// Application is one editing session.
type Application struct {
	mu sync.Mutex

	cfg       *config.Config
	files     vfs.VFS
	languages *language.Manager
	store     *filestore.Store
	watcher   watcher.Watcher
	logger    *logging.Logger

	views []*View
	focus int

	quitting bool
	closed   bool
}

// New creates an Application.
func New(opts Options) (*Application, error) {
	app := &Application{
		cfg:       opts.Config,
		files:     opts.Files,
		languages: opts.Languages,
		watcher:   opts.Watcher,
		logger:    opts.Logger,
	}
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	if app.files == nil {
		app.files = vfs.NewOSFS()
	}
	if app.logger == nil {
		app.logger = logging.Nop()
	}
	if app.languages == nil {
		app.languages = language.NewManager()
		if path := app.cfg.Languages.File; path != "" {
			data, err := app.files.ReadFile(path)
			if err != nil {
				return nil, NewOperationError("load languages", path, err)
			}
			if err := app.languages.LoadDefinitions(bytes.NewReader(data)); err != nil {
				return nil, NewOperationError("load languages", path, err)
			}
		}
	}

	historyOpts := []history.Option{history.WithCombineWindow(app.cfg.History.CombineWindow.Std())}
	if opts.Clock != nil {
		historyOpts = append(historyOpts, history.WithClock(opts.Clock))
	}
	app.store = filestore.New(app.files, app.languages, filestore.WithHistory(historyOpts...))
	return app, nil
}

// Store returns the file store.
func (app *Application) Store() *filestore.Store {
	return app.store
}

// Languages returns the language manager.
func (app *Application) Languages() *language.Manager {
	return app.languages
}

// Logger returns the application's logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Quitting returns true once a quit action was accepted.
func (app *Application) Quitting() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.quitting
}

// Modified returns the paths, or view names for virtual buffers, of every
// buffer with unsaved changes.
func (app *Application) Modified() []string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.modified()
}

func (app *Application) modified() []string {
	var out []string
	seen := make(map[*filestore.Handle]bool)
	for _, v := range app.views {
		if seen[v.handle] {
			continue
		}
		seen[v.handle] = true
		if v.handle.Buffer().Modified() {
			out = append(out, v.Name())
		}
	}
	return out
}

// Close releases every view and stops the watcher. Unsaved changes are
// discarded.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true

	var errs []error
	for _, v := range app.views {
		if err := app.store.Release(v.handle); err != nil {
			errs = append(errs, err)
		}
	}
	app.views = nil
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run blocks until ctx is done, reloading files changed by other programs.
// Without a watcher it only waits for ctx.
func (app *Application) Run(ctx context.Context) error {
	if app.watcher == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return app.watch(ctx)
}
