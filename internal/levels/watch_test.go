package levels_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jean-Jawed/Patternia/internal/levels"
)

func startWatcher(t *testing.T, dir string) *levels.Watcher {
	t.Helper()
	w, err := levels.NewWatcher(dir, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	return w
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

// stopsWithin fails the test when Stop blocks.
func stopsWithin(t *testing.T, w *levels.Watcher, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("Stop did not return")
	}
}

func TestWatcherCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "level_01.yaml")
	writeFile(t, path, "id: 1\n")
	writeFile(t, path, "id: 1\ntitle: Again\n")

	select {
	case got := <-w.Changes():
		if got != path {
			t.Errorf("change = %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Errorf("second change %q for one burst of writes", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	writeFile(t, filepath.Join(dir, "notes.txt"), "not a level")
	path := filepath.Join(dir, "level_02.json")
	writeFile(t, path, `{"id": 2}`)

	select {
	case got := <-w.Changes():
		if got != path {
			t.Errorf("change = %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherStopAfterCancel(t *testing.T) {
	w, err := levels.NewWatcher(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	stopsWithin(t, w, 2*time.Second)
}

func TestWatcherStopAfterFailedStart(t *testing.T) {
	w, err := levels.NewWatcher(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start on a missing directory should fail")
	}
	stopsWithin(t, w, 2*time.Second)
}
