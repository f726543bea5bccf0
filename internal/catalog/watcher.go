package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches rapid write events from tools that rewrite the
// bulk file in chunks.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads the catalog whenever the bulk file changes on disk.
type Watcher struct {
	loader *Loader
	path   string
}

// NewWatcher creates a watcher for the bulk file at path.
func NewWatcher(loader *Loader, path string) *Watcher {
	return &Watcher{loader: loader, path: path}
}

// Start watches the catalog file until the context is cancelled. Blocks;
// run it in its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch catalog file: %w", err)
	}

	log.Printf("[Catalog] Watching %s for changes", w.path)

	var debounce *time.Timer
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)
			}
			reload = debounce.C

		case <-reload:
			reload = nil
			if _, err := w.loader.Load(ctx, w.path); err != nil {
				log.Printf("[Catalog] Reload failed: %v", err)
			}
			// Some editors replace the file, which drops the watch.
			if err := watcher.Add(w.path); err != nil {
				log.Printf("[Catalog] Failed to re-watch %s: %v", w.path, err)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Catalog] File watcher error: %v", watchErr)
		}
	}
}
