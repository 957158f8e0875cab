package watcher

import "github.com/fsnotify/fsnotify"

// Signal reports that something changed. It carries no path.
type Signal struct{}

// isContentChange reports whether a raw event means file data was written.
// Metadata, create, remove and rename events are ignored.
func isContentChange(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write)
}
