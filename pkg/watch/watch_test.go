package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, debounce time.Duration, h Handler) {
	t.Helper()
	w := New(path, debounce, h)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("watcher failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher not ready")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestDebouncedChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "e1m1.ent")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	events := make(chan Event, 10)
	startWatcher(t, path, 100*time.Millisecond, func(_ context.Context, ev Event) error {
		events <- ev
		return nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{ "classname" "worldspawn" }`), 0o644))
	}

	select {
	case ev := <-events:
		assert.Equal(t, New(path, 0, nil).Path(), ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event after writes")
	}

	select {
	case ev := <-events:
		t.Fatalf("burst produced a second event: %+v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "e1m1.ent")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	events := make(chan Event, 10)
	startWatcher(t, path, 20*time.Millisecond, func(_ context.Context, ev Event) error {
		events <- ev
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "e1m2.ent"), []byte("{}"), 0o644))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestHandlerErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "e1m1.ent")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	calls := make(chan struct{}, 10)
	startWatcher(t, path, 20*time.Millisecond, func(context.Context, Event) error {
		calls <- struct{}{}
		return errors.New("bad map")
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("no call for write %d", i)
		}
	}
}

func TestRunMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "e1m1.ent"), time.Millisecond, nil)
	err := w.Run(context.Background())
	assert.Error(t, err)
}

func TestEventType(t *testing.T) {
	assert.Equal(t, EventCreated, eventType(fsnotify.Create|fsnotify.Write))
	assert.Equal(t, EventModified, eventType(fsnotify.Write))
	assert.Equal(t, EventDeleted, eventType(fsnotify.Remove))
	assert.Equal(t, EventRenamed, eventType(fsnotify.Rename))
	assert.Equal(t, "renamed", EventRenamed.String())
}
