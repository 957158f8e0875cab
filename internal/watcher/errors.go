package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

var (
	ErrIO              = errors.New("filesystem i/o error")
	ErrPathNotFound    = errors.New("watch path not found")
	ErrTooManyWatches  = errors.New("system watcher limit reached")
	ErrInvalidConfig   = errors.New("invalid watcher configuration")
	ErrWatcherGeneric  = errors.New("watcher error")
	ErrInternalChannel = errors.New("internal channel error")
	ErrWatchNotFound   = errors.New("watch not found")
)

// Kind classifies why a watch could not be set up.
type Kind int

const (
	KindIO Kind = iota + 1
	KindPathNotFound
	KindTooManyWatches
	KindInvalidConfig
	KindGeneric
	// KindInternalChannel and KindWatchNotFound are kept for unwatch support
	// and are not produced by Start.
	KindInternalChannel
	KindWatchNotFound
)

func (k Kind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindPathNotFound:
		return ErrPathNotFound
	case KindTooManyWatches:
		return ErrTooManyWatches
	case KindInvalidConfig:
		return ErrInvalidConfig
	case KindInternalChannel:
		return ErrInternalChannel
	case KindWatchNotFound:
		return ErrWatchNotFound
	default:
		return ErrWatcherGeneric
	}
}

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "IoError"
	case KindPathNotFound:
		return "PathNotFound"
	case KindTooManyWatches:
		return "TooManyWatches"
	case KindInvalidConfig:
		return "InvalidWatcherConfig"
	case KindInternalChannel:
		return "InternalChannelError"
	case KindWatchNotFound:
		return "WatchNotFound"
	default:
		return "WatcherGenericError"
	}
}

// Error is returned by Start when the watch cannot be established.
// errors.Is matches both the kind sentinel (ErrPathNotFound, ...) and the
// underlying cause.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindPathNotFound, KindWatchNotFound:
		return fmt.Sprintf("%s: '%s'", e.Kind.sentinel(), e.Path)
	case KindTooManyWatches:
		return fmt.Sprintf("%s (too many watched files/directories)", e.Kind.sentinel())
	}

	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}

	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// mapError converts an fsnotify or OS error raised while setting up a watch
// on path into an *Error.
func mapError(err error, path string) *Error {
	if err == nil {
		return nil
	}

	if we, ok := lo.ErrorsAs[*Error](err); ok {
		return we
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(KindPathNotFound, path, err)
	case isWatchLimit(err):
		return newError(KindTooManyWatches, path, err)
	case errors.Is(err, syscall.EINVAL):
		return newError(KindInvalidConfig, path, err)
	case errors.Is(err, fsnotify.ErrNonExistentWatch):
		return newError(KindWatchNotFound, path, err)
	}

	if _, ok := lo.ErrorsAs[*fs.PathError](err); ok {
		return newError(KindIO, path, err)
	}
	if _, ok := lo.ErrorsAs[syscall.Errno](err); ok {
		return newError(KindIO, path, err)
	}

	return newError(KindGeneric, path, err)
}

// isWatchLimit reports an exhausted per-user watch or instance limit.
func isWatchLimit(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EMFILE)
}
