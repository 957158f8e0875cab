// Package detector answers "has anything under this path changed since I
// last asked?". Bursts of writes are collapsed by a 100ms debounce window.
//
//	d, err := detector.New("./src")
//	if err != nil {
//		return err
//	}
//	defer d.Close()
//
//	for range ticker.C {
//		if d.HasChanged() {
//			rebuild()
//		}
//	}
package detector

import (
	"github.com/capcom6/fschange/internal/watcher"
)

// Options tunes the underlying watch. The zero value uses the defaults.
type Options = watcher.Options

// Detector owns exactly one watch session. It is meant for a single polling
// goroutine.
type Detector struct {
	session *watcher.Session
}

// New watches root (a file or directory) recursively.
//
// Signals queued while the watch is being set up are discarded before New
// returns, so the first HasChanged reports only changes made afterwards.
func New(root string) (*Detector, error) {
	return NewWithOptions(root, Options{})
}

// NewWithOptions is New with a custom debounce window or buffer size.
func NewWithOptions(root string, opts Options) (*Detector, error) {
	session, err := watcher.Start(root, opts)
	if err != nil {
		return nil, err
	}

	session.Drain()

	return &Detector{
		session: session,
	}, nil
}

// HasChanged consumes every pending change signal and reports whether there
// was at least one. It never waits for new events.
func (d *Detector) HasChanged() bool {
	return d.session.Drain() > 0
}

// Root returns the absolute path being watched.
func (d *Detector) Root() string {
	return d.session.RootPath
}

// Close stops watching. HasChanged may still report signals queued before
// Close, and reports false afterwards.
func (d *Detector) Close() error {
	return d.session.Close()
}
