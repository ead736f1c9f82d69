package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period used when none is given.
const DefaultDebounceDelay = 100 * time.Millisecond

// Debouncer wraps a Watcher and coalesces bursts of events per file.
//
// Saving a file often produces several events in a row (truncate, write,
// chmod, or create and rename). The Debouncer waits until a file has been
// quiet for the delay and then delivers one event carrying every
// operation seen.
type Debouncer struct {
	inner Watcher
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	events  chan Event
	errors  chan error
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// NewDebouncer creates a Debouncer around inner.
func NewDebouncer(inner Watcher, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	d := &Debouncer{
		inner:   inner,
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, DefaultBufferSize),
		errors:  make(chan error, DefaultBufferSize),
		closeCh: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.processLoop()

	return d
}

// Watch starts watching a file.
func (d *Debouncer) Watch(path string) error {
	return d.inner.Watch(path)
}

// Unwatch stops watching a file and drops its pending event.
func (d *Debouncer) Unwatch(path string) error {
	d.mu.Lock()
	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()
	return d.inner.Unwatch(path)
}

// Events returns the coalesced event channel.
func (d *Debouncer) Events() <-chan Event {
	return d.events
}

// Errors returns the error channel.
func (d *Debouncer) Errors() <-chan error {
	return d.errors
}

// Close stops the Debouncer and the watcher it wraps. Pending events are
// discarded.
func (d *Debouncer) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.closeCh)
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()

	d.wg.Wait()
	err := d.inner.Close()

	// Timers stopped above may already be running fire; take the lock so
	// none of them sends after the channels close.
	d.mu.Lock()
	close(d.events)
	close(d.errors)
	d.mu.Unlock()
	return err
}

// Pending returns the number of files with an event waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush delivers every pending event immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.pending))
	for path, p := range d.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	d.mu.Unlock()

	for _, path := range paths {
		d.fire(path)
	}
}

func (d *Debouncer) processLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.closeCh:
			return

		case event, ok := <-d.inner.Events():
			if !ok {
				return
			}
			d.add(event)

		case err, ok := <-d.inner.Errors():
			if !ok {
				return
			}
			d.mu.Lock()
			if !d.closed {
				select {
				case d.errors <- err:
				default:
				}
			}
			d.mu.Unlock()
		}
	}
}

// add merges event into the file's pending event and restarts its timer.
func (d *Debouncer) add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if p, ok := d.pending[event.Path]; ok {
		p.event.Op |= event.Op
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(d.delay)
		return
	}

	path := event.Path
	d.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(d.delay, func() { d.fire(path) }),
	}
}

// fire sends the pending event of path, dropping it if the channel is full.
func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[path]
	if !ok || d.closed {
		return
	}
	delete(d.pending, path)

	select {
	case d.events <- p.event:
	default:
	}
}

// Ensure Debouncer implements Watcher.
var _ Watcher = (*Debouncer)(nil)
