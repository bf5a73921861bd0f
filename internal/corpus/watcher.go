package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clearair/laravel-docs-mcp/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last
// filesystem event before signalling a change. Editors often write
// files in several quick operations.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a corpus root recursively and coalesces bursts of
// filesystem events into single change signals.
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	changes  chan struct{}
}

// NewWatcher creates a recursive watcher for root. All existing
// subdirectories are registered up front; directories created later
// are registered as their create events arrive.
func NewWatcher(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if info, err := os.Stat(root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changes returns the channel that receives one signal per settled
// burst of filesystem events. The channel is closed when Run returns.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run pumps filesystem events until ctx is cancelled. A change signal
// is emitted once no new event has arrived for the debounce window.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			logger.Debug("corpus event: %s %s", event.Op, event.Name)

			// New directories must be registered to keep the
			// watch recursive.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("corpus watcher: %v", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
