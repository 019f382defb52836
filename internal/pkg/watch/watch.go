// Package watch reports changes to the configuration file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	apperrors "github.com/lh2mqtt/lh2mqtt/internal/pkg/errors"
)

// DefaultDelay is the quiet period after the last event before a change is reported.
const DefaultDelay = 250 * time.Millisecond

// Watcher observes one file. It watches the parent directory so that
// replacements by rename, as editors and atomic writers do, are seen too.
type Watcher struct {
	path  string
	delay time.Duration
	log   *apperrors.Logger
	ready chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(l *apperrors.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher for path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:  filepath.Clean(path),
		delay: DefaultDelay,
		log:   apperrors.Default(),
		ready: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once Run has registered the watch.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run calls onChange after each burst of writes, creates or renames of the
// file until ctx is done. onChange runs on the Run goroutine, so bursts
// arriving while it runs are coalesced into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return apperrors.NewReadFailureError(dir, err)
	}
	close(w.ready)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
