package app

import (
	"context"
	"errors"

	"github.com/dshills/inkwell/internal/project/filestore"
)

// ExternalChange handles a report that path changed on disk. An open,
// unmodified buffer is reloaded; a modified one is left alone and the
// conflict is logged. Changes the store already knows about, such as its
// own saves, are ignored.
func (app *Application) ExternalChange(ctx context.Context, path string) error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return ErrClosed
	}

	h, ok := app.store.Lookup(path)
	if !ok {
		return nil
	}
	log := app.logger.WithComponent("watch").WithField("path", h.Path())

	changed, err := app.store.Changed(h)
	if err != nil {
		return NewOperationError("reload", h.Path(), err)
	}
	if !changed {
		return nil
	}
	if h.Buffer().Modified() {
		log.Warn("changed on disk while modified; keeping buffer")
		return nil
	}
	err = app.reload(ctx, h, false)
	if errors.Is(err, filestore.ErrModified) {
		return nil
	}
	return err
}

// watch reloads files as the watcher reports them until ctx is done or
// the watcher closes.
func (app *Application) watch(ctx context.Context) error {
	log := app.logger.WithComponent("watch")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-app.watcher.Events():
			if !ok {
				return nil
			}
			if !ev.Op.Changed() {
				continue
			}
			if err := app.ExternalChange(ctx, ev.Path); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				log.WithField("path", ev.Path).Error("reload failed: %v", err)
			}

		case err, ok := <-app.watcher.Errors():
			if !ok {
				return nil
			}
			log.Warn("%v", err)
		}
	}
}
