// ABOUTME: Watcher reloads the corpus store when the bio or project files change
// ABOUTME: Uses fsnotify on the parent directories so editor rename-writes are seen
package corpus

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events into one reload
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a Store when watched files change
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	files    map[string]bool
	debounce time.Duration
	reloaded chan struct{}
}

// NewWatcher watches paths and reloads store on change
func NewWatcher(store *Store, paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	return &Watcher{
		watcher:  w,
		store:    store,
		files:    files,
		debounce: DefaultDebounce,
		reloaded: make(chan struct{}, 1),
	}, nil
}

// Reloaded is signalled after each successful reload
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

// Run processes events until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isWatchedFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			c, err := w.store.Reload(ctx)
			if err != nil {
				log.Printf("Warning: corpus reload failed, keeping previous corpus: %v", err)
				continue
			}
			log.Printf("Corpus reloaded: %d passages (digest %s)", c.Len(), c.Digest)
			select {
			case w.reloaded <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: corpus watcher error: %v", err)
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) isWatchedFile(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
