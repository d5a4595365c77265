package packs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is how long the watcher waits after the last
// filesystem event before firing a reload, so an editor's write-rename
// dance triggers one reload, not several.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher watches a packs directory and invokes a callback when its YAML
// files change. Pattern lists are append-only on the engine, so callers
// typically rebuild the engine on reload rather than mutate it in place.
type Watcher struct {
	dir      string
	debounce time.Duration
	fw       *fsnotify.Watcher

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for dir. The dir must exist.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, debounce: DefaultDebounceInterval, fw: fw}, nil
}

// Watch blocks until ctx is cancelled, calling onReload after each
// debounced burst of changes to YAML files in the watched directory.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return w.fw.Close()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !isYAMLFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("packs: watch error: %v", err)

		case <-fire:
			if err := onReload(); err != nil {
				log.Printf("packs: reload failed: %v", err)
			}
		}
	}
}
