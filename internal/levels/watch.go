package levels

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/Jean-Jawed/Patternia/internal/levels/formats"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports level files that changed on disk.
// Rapid saves of the same file are coalesced into one notification.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	logger   *log.Logger
	pending  map[string]time.Time
	debounce time.Duration
	changes  chan string
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher over dir. Call Start to begin watching.
func NewWatcher(dir string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Watcher{
		watcher:  fw,
		dir:      abs,
		logger:   logger,
		pending:  make(map[string]time.Time),
		debounce: 150 * time.Millisecond,
		changes:  make(chan string, 8),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers absolute paths of changed level files.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start adds the directory and runs the event loop in a goroutine.
// On error the watcher is left stopped; Stop still releases it.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("levels: watch %s: %w", w.dir, err)
	}
	w.running = true
	w.logger.Info("watching levels", "dir", w.dir)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing watcher", "err", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "err", err)
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !formats.IsSupported(filepath.Ext(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("level file changed", "path", event.Name, "op", event.Op.String())
	w.pending[event.Name] = time.Now()
}

// flush emits paths whose last event is older than the debounce window.
func (w *Watcher) flush(now time.Time) {
	for p, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, p)
		select {
		case w.changes <- p:
		default:
			w.logger.Debug("dropping change notification", "path", p)
		}
	}
}
