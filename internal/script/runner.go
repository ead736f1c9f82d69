// Package script runs Lua scripts against an editing session.
//
// Scripts see a sandboxed Lua: base, table, string and math libraries only,
// with every way of loading outside code removed. Editing goes through the
// global editor table:
//
//	editor.action(name)      run an action in the focused view
//	editor.type(text)        insert text at every selection
//	editor.undo(), editor.redo()
//	editor.text()            focused buffer content
//	editor.path()            focused buffer path, "" for scratch buffers
//	editor.selections()      {primary=, secondary=, offset=} per selection
//	editor.mode()            "character", "word" or "line"
//	editor.open(path), editor.save(), editor.save_as(path)
//	editor.split(), editor.close([force])
//	editor.views()           names of every view
//	editor.current()         1-based index of the focused view
//	editor.focus(i)          focus the i-th view
//
// Indices in selections are 0-based rune offsets, as the editor counts
// them. View numbers are 1-based, as Lua counts them.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Runner executes scripts against an Editor. A Runner keeps its Lua state
// between runs, so globals set by one script are seen by the next.
// Runs are serialized.
type Runner struct {
	mu sync.Mutex

	L       *lua.LState
	editor  Editor
	out     io.Writer
	timeout time.Duration
	logger  *logging.Logger

	// Set for the duration of a run.
	ctx     context.Context
	failure error

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where print writes. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout sets the time limit of each run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger editor calls are traced to.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner driving ed.
func NewRunner(ed Editor, opts ...Option) *Runner {
	r := &Runner{
		editor:  ed,
		out:     io.Discard,
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSandbox(r.L, r.out)
	r.install()
	return r
}

// Run executes src. chunk names the script in error messages.
func (r *Runner) Run(ctx context.Context, chunk, src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	fn, err := r.L.Load(strings.NewReader(src), chunk)
	if err != nil {
		return &Error{Chunk: chunk, Err: err}
	}

	r.ctx = ctx
	r.failure = nil
	r.L.SetContext(ctx)
	defer func() {
		r.L.RemoveContext()
		r.L.SetTop(0)
		r.ctx = context.Background()
	}()

	r.logger.Debug("running %s", chunk)
	r.L.Push(fn)
	err = r.doWithRecovery(func() error {
		return r.L.PCall(0, lua.MultRet, nil)
	})
	if err == nil {
		return nil
	}
	return &Error{Chunk: chunk, Err: r.cause(ctx, err)}
}

// cause maps a failed call to the error that stopped it.
func (r *Runner) cause(ctx context.Context, err error) error {
	var apiErr *lua.ApiError
	if r.failure != nil && errors.As(err, &apiErr) && strings.Contains(apiErr.Object.String(), r.failure.Error()) {
		return r.failure
	}
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
	case ctxErr != nil:
		return ctxErr
	}
	return err
}

func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// Close releases the Lua state. Further runs return ErrClosed.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.L.Close()
	return nil
}
