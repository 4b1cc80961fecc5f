// Package watch calls a handler whenever one file changes, with bursts of
// filesystem events collapsed into a single call.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType is the last kind of change seen in a debounced burst.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

type Event struct {
	Type EventType
	Path string
}

// Handler is called once per debounced burst. A returned error is logged and
// watching continues.
type Handler func(ctx context.Context, ev Event) error

type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
	ready    chan struct{}
}

// New watches path. The file's directory is watched rather than the file itself,
// so editors that replace the file on save keep being followed.
func New(path string, debounce time.Duration, handler Handler) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		handler:  handler,
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
}

func (w *Watcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.logger = l
	}
}

func (w *Watcher) Path() string {
	return w.path
}

// Ready is closed once Run has registered the watch.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is cancelled or the underlying watcher fails to start.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.path), err)
	}
	close(w.ready)
	w.logger.Debug("watching", "path", w.path, "debounce", w.debounce.String())

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
	)
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
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			pending = Event{Type: eventType(ev.Op), Path: w.path}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-fire:
			fire = nil
			if err := w.handler(ctx, pending); err != nil {
				w.logger.Warn("watch handler failed", "path", w.path, "event", pending.Type.String(), "error", err)
			}
		}
	}
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventCreated
	case op.Has(fsnotify.Write):
		return EventModified
	case op.Has(fsnotify.Remove):
		return EventDeleted
	case op.Has(fsnotify.Rename):
		return EventRenamed
	default:
		return EventModified
	}
}
