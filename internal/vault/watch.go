package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports notes that changed during one debounce window. Rescan is set
// when the watcher could not attribute the change to specific notes.
type Event struct {
	Paths  []string
	Rescan bool
}

// Watch streams debounced change events for the notes under root until ctx
// is cancelled. Directories created later are watched as they appear.
func Watch(ctx context.Context, root string, delay time.Duration, logger *slog.Logger) (<-chan Event, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		})
	}

	dirs, err := collectDirs(root)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		var (
			pending = newBatch()
			timer   *time.Timer
			fire    <-chan time.Time
		)
		arm := func() {
			if timer == nil {
				timer = time.NewTimer(delay)
				fire = timer.C
			}
		}
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-fire:
				timer, fire = nil, nil
				select {
				case events <- pending.flush():
				default:
					// consumer is behind; it reloads on the event it is handling
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", "error", err)
				pending.rescan = true
				arm()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if hidden(root, dir) {
							continue
						}
						if _, found := watched[dir]; !found {
							if err := watcher.Add(dir); err != nil {
								logger.Warn("watch directory failed", "dir", dir, "error", err)
							} else {
								watched[dir] = struct{}{}
							}
						}
						pending.rescan = true
						arm()
						continue
					}
				}
				if !isNote(evt.Name) || hidden(root, evt.Name) {
					continue
				}
				rel, err := filepath.Rel(root, evt.Name)
				if err != nil {
					pending.rescan = true
				} else {
					pending.paths[filepath.ToSlash(rel)] = struct{}{}
				}
				arm()
			}
		}
	}()

	return events, nil
}

func collectDirs(root string) ([]string, error) {
	dirs := []string{root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != root {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// hidden reports whether any element of path below root starts with a dot.
// Temp files written by Replace are hidden too.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// batch accumulates the changes of one debounce window.
type batch struct {
	paths  map[string]struct{}
	rescan bool
}

func newBatch() *batch {
	return &batch{paths: make(map[string]struct{})}
}

func (b *batch) flush() Event {
	paths := make([]string, 0, len(b.paths))
	for p := range b.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	ev := Event{Paths: paths, Rescan: b.rescan}
	b.paths = make(map[string]struct{})
	b.rescan = false
	return ev
}
