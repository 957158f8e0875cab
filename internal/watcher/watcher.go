// Package watcher turns a recursive filesystem watch into a debounced stream
// of change signals.
package watcher

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultDebounce = 100 * time.Millisecond
	DefaultBuffer   = 1
)

type Options struct {
	// Debounce is the minimum time between two forwarded signals.
	Debounce time.Duration
	// Buffer is the capacity of the signal channel.
	Buffer int

	now func() time.Time
}

func (o Options) validate() error {
	if o.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", o.Debounce)
	}
	if o.Buffer < 0 {
		return fmt.Errorf("buffer must not be negative, got %d", o.Buffer)
	}

	return nil
}

func (o Options) withDefaults() Options {
	if o.Debounce == 0 {
		o.Debounce = DefaultDebounce
	}
	if o.Buffer == 0 {
		o.Buffer = DefaultBuffer
	}
	if o.now == nil {
		o.now = time.Now
	}

	return o
}

// Session owns a recursive watch on RootPath. The watch stays active until
// Close is called.
type Session struct {
	RootPath string

	source  *source
	signals chan Signal
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// Start watches rootPath (a file or a directory) recursively. Failures are
// returned as *Error.
func Start(rootPath string, opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, newError(KindInvalidConfig, rootPath, err)
	}
	opts = opts.withDefaults()

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, mapError(err, rootPath)
	}

	src, err := newSource(absPath)
	if err != nil {
		log.Printf("[ERROR] can't start watching %s: %s\n", rootPath, err)
		return nil, err
	}

	s := &Session{
		RootPath: absPath,

		source:  src,
		signals: make(chan Signal, opts.Buffer),
		done:    make(chan struct{}),
	}

	fwd := &forwarder{
		limiter: newDebouncer(opts.Debounce, opts.now),
		out:     s.signals,
	}

	s.wg.Add(1)
	go s.run(fwd)

	log.Printf("[DEBUG] started watching %s\n", absPath)

	return s, nil
}

// Drain consumes every queued signal without waiting and returns how many
// there were. A closed session with nothing queued drains zero.
func (s *Session) Drain() int {
	drained := 0
	for {
		select {
		case _, ok := <-s.signals:
			if !ok {
				return drained
			}
			drained++
		default:
			return drained
		}
	}
}

// Close stops the watch. No signal is produced after Close returns; signals
// queued before that remain drainable.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if err := s.source.close(); err != nil {
			s.closeErr = fmt.Errorf("can't close watcher: %w", err)
		}
		s.wg.Wait()
	})

	return s.closeErr
}

func (s *Session) run(fwd *forwarder) {
	defer func() {
		close(s.signals)
		s.wg.Done()
	}()

	for {
		select {
		case event, ok := <-s.source.Events():
			if !ok {
				return
			}
			if s.isClosed() {
				return
			}

			if s.source.track(event) {
				fwd.signal()
			}
			fwd.handle(event)

		case err, ok := <-s.source.Errors():
			if !ok {
				return
			}
			if s.isClosed() {
				return
			}

			s.handleError(fwd, err)

		case <-s.done:
			return
		}
	}
}

// handleError logs a runtime error from the event source. Processing
// continues afterwards.
func (s *Session) handleError(fwd *forwarder, err error) {
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		// events were lost, some of them may have been writes
		fwd.signal()
	}

	log.Printf("[ERROR] watcher %s: %s\n", s.RootPath, err)
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
