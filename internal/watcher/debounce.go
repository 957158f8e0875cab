package watcher

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// debouncer is a fixed-rate limiter: only accepted events move the window.
type debouncer struct {
	window time.Duration
	last   time.Time
	now    func() time.Time
}

func newDebouncer(window time.Duration, now func() time.Time) *debouncer {
	if now == nil {
		now = time.Now
	}

	return &debouncer{
		window: window,
		last:   now().Add(-window),
		now:    now,
	}
}

func (d *debouncer) allow() bool {
	now := d.now()
	if now.Sub(d.last) < d.window {
		return false
	}

	d.last = now
	return true
}

// forwarder is owned by the session goroutine. It turns qualifying raw
// events into at most one Signal per debounce window.
type forwarder struct {
	limiter *debouncer
	out     chan<- Signal
}

func (f *forwarder) handle(event fsnotify.Event) bool {
	if !isContentChange(event) {
		return false
	}

	return f.signal()
}

// signal never blocks. A full buffer already holds a pending Signal.
func (f *forwarder) signal() bool {
	if !f.limiter.allow() {
		return false
	}

	select {
	case f.out <- Signal{}:
	default:
	}

	return true
}
