package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// source keeps an fsnotify watch on every directory below root.
type source struct {
	root      string
	fswatcher *fsnotify.Watcher
}

func newSource(root string) (*source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, mapError(err, root)
	}

	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, mapError(err, root)
	}

	s := &source{
		root:      root,
		fswatcher: fswatcher,
	}

	if !info.IsDir() {
		err = fswatcher.Add(root)
	} else {
		_, err = s.addRecursive(root)
	}
	if err != nil {
		_ = fswatcher.Close()
		return nil, mapError(err, root)
	}

	return s, nil
}

func (s *source) Events() <-chan fsnotify.Event {
	return s.fswatcher.Events
}

func (s *source) Errors() <-chan error {
	return s.fswatcher.Errors
}

func (s *source) close() error {
	return s.fswatcher.Close()
}

// addRecursive watches path and every directory below it, following
// symlinked directories once per walk. It reports whether the subtree already
// holds regular files. Failures below path are logged and skipped, except for
// the watch limit.
func (s *source) addRecursive(path string) (bool, error) {
	return s.walk(path, make(map[string]struct{}))
}

func (s *source) walk(path string, visited map[string]struct{}) (bool, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false, fmt.Errorf("can't resolve %s: %w", path, err)
	}
	if _, ok := visited[realPath]; ok {
		return false, nil
	}
	visited[realPath] = struct{}{}

	if err := s.fswatcher.Add(path); err != nil {
		return false, fmt.Errorf("can't watch %s: %w", path, err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("can't read directory %s: %w", path, err)
	}

	hasFiles := false
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(child)
			if statErr != nil {
				// dangling link
				continue
			}
			mode = info.Mode().Type()
		}

		if mode.IsRegular() {
			hasFiles = true
			continue
		}
		if !mode.IsDir() {
			continue
		}

		childHasFiles, err := s.walk(child, visited)
		switch {
		case err == nil:
			hasFiles = hasFiles || childHasFiles
		case isWatchLimit(err):
			return hasFiles, err
		case errors.Is(err, fs.ErrNotExist):
			// removed while walking
		default:
			log.Printf("[WARN] skipping %s\n", err)
		}
	}

	return hasFiles, nil
}

// track keeps the watch list in sync with the tree: new directories are
// added, watches under removed or renamed ones are dropped. It reports true
// when a new directory already held files, since writes made before its
// watch existed produced no events.
func (s *source) track(event fsnotify.Event) bool {
	if event.Name == "" || event.Name == s.root {
		return false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return false
		}

		hasFiles, err := s.addRecursive(event.Name)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[WARN] %s\n", err)
		}
		return hasFiles
	}

	if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	prefix := event.Name + string(os.PathSeparator)
	stale := lo.Filter(s.fswatcher.WatchList(), func(entry string, _ int) bool {
		return entry == event.Name || strings.HasPrefix(entry, prefix)
	})
	for _, entry := range stale {
		// the kernel may have dropped the watch already
		_ = s.fswatcher.Remove(entry)
	}

	return false
}
