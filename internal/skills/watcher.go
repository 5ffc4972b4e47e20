package skills

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Loader's catalog whenever a watched skills directory
// changes on disk, debounced so a burst of writes (e.g. git checkout)
// triggers one reload instead of many.
type Watcher struct {
	loader   *Loader
	fsw      *fsnotify.Watcher
	debounce time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewWatcher builds a Watcher over loader's directories. Directories that
// don't exist yet are skipped; fsnotify.Add is best-effort per dir.
func NewWatcher(loader *Loader) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range loader.Dirs() {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			slog.Warn("skills: watch failed", "dir", dir, "error", err)
		}
	}
	return &Watcher{loader: loader, fsw: fsw, debounce: 500 * time.Millisecond}, nil
}

// Start begins watching in the background until ctx is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		var timer *time.Timer
		pending := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				slog.Warn("skills: watch error", "error", err)
			case <-pending:
				if err := w.loader.Reload(); err != nil {
					slog.Warn("skills: reload failed", "error", err)
				} else {
					slog.Info("skills: reloaded", "count", len(w.loader.ListSkills()))
				}
			}
		}
	}()
	return nil
}

// Stop shuts the watcher down and releases its fsnotify handle.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.done != nil {
		<-w.done
	}
	_ = w.fsw.Close()
}
