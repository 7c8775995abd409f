package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/buildnative/internal/logfields"
)

// FSWatcher monitors source trees and calls onChange once per burst of
// file events, after the tree has been quiet for the debounce window.
type FSWatcher struct {
	roots    []string
	debounce time.Duration
	onChange func(path string)

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	last    string
}

// NewFSWatcher creates a watcher over roots. Every root must be an existing directory.
func NewFSWatcher(roots []string, debounce time.Duration, onChange func(path string)) (*FSWatcher, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	abs := make([]string, 0, len(roots))
	for _, r := range roots {
		p, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve watch path %s: %w", r, err)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("watch path %s: %w", p, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("watch path %s is not a directory", p)
		}
		abs = append(abs, p)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FSWatcher{roots: abs, debounce: debounce, onChange: onChange, watcher: w}, nil
}

// Start registers every directory below the roots and begins delivering events.
func (w *FSWatcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.addTree(root); err != nil {
			return err
		}
		slog.Info("Watching sources", logfields.Path(root))
	}
	go w.loop(ctx)
	return nil
}

// Close stops the underlying watcher and any pending debounce timer.
func (w *FSWatcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

// addTree adds dir and its subdirectories; fsnotify does not recurse.
func (w *FSWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "build" || name == "CMakeFiles"
}

func (w *FSWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Source watcher error", logfields.Error(err))
		}
	}
}

func (w *FSWatcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !ignoredDir(info.Name()) {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = event.Name
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *FSWatcher) fire() {
	w.mu.Lock()
	path := w.last
	w.mu.Unlock()
	w.onChange(path)
}
