package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/logger"
)

// DefaultSettle is how long a new file is left alone before it is handled,
// so the writer has a chance to finish.
const DefaultSettle = 500 * time.Millisecond

// Handler processes one new video file
type Handler func(ctx context.Context, videoPath string) error

// Watcher reports new video files in a folder. Files are handled one at a
// time on the Run goroutine.
type Watcher struct {
	dir     string
	handler Handler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	settle  time.Duration
	seen    map[string]bool
}

// Option configures a Watcher
type Option func(*Watcher)

// WithSettle overrides the delay between detecting a file and handling it
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, handler Handler, log logger.Logger, opts ...Option) (*Watcher, error) {
	if log == nil {
		log = logger.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	w := &Watcher{
		dir:     dir,
		handler: handler,
		logger:  log,
		watcher: fsw,
		settle:  DefaultSettle,
		seen:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for new videos", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Close stops the underlying file system watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	// A file moved into the folder arrives as Create; Rename names the old path
	if !event.Has(fsnotify.Create) {
		return
	}
	name := filepath.Base(event.Name)
	if !domain.IsVideoFile(name) {
		w.logger.Debug(ctx, "Ignoring non-video file: %s", name)
		return
	}
	if w.seen[event.Name] {
		return
	}
	w.seen[event.Name] = true

	w.logger.Info(ctx, "New video detected: %s", name)

	if w.settle > 0 {
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}
	}

	if err := w.handler(ctx, event.Name); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", name, err)
	}
}
