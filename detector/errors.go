package detector

import "github.com/capcom6/fschange/internal/watcher"

// WatchError describes why a Detector could not be created. Use errors.Is with
// the sentinels below, or errors.As and inspect Kind.
type WatchError = watcher.Error

type ErrorKind = watcher.Kind

const (
	KindIO              = watcher.KindIO
	KindPathNotFound    = watcher.KindPathNotFound
	KindTooManyWatches  = watcher.KindTooManyWatches
	KindInvalidConfig   = watcher.KindInvalidConfig
	KindGeneric         = watcher.KindGeneric
	KindInternalChannel = watcher.KindInternalChannel
	KindWatchNotFound   = watcher.KindWatchNotFound
)

var (
	ErrIO              = watcher.ErrIO
	ErrPathNotFound    = watcher.ErrPathNotFound
	ErrTooManyWatches  = watcher.ErrTooManyWatches
	ErrInvalidConfig   = watcher.ErrInvalidConfig
	ErrWatcherGeneric  = watcher.ErrWatcherGeneric
	ErrInternalChannel = watcher.ErrInternalChannel
	ErrWatchNotFound   = watcher.ErrWatchNotFound
)
