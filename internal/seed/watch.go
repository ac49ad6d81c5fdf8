package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/listenupapp/bookshelf/internal/store"
)

// DefaultSettleDelay is how long the seed file must stay quiet before a
// re-import. Editors often write a file in several steps.
const DefaultSettleDelay = 200 * time.Millisecond

// Watcher re-imports the seed file whenever it changes on disk.
type Watcher struct {
	path        string
	store       store.BookStore
	logger      *slog.Logger
	settleDelay time.Duration

	// imported, when set, is called after every re-import attempt.
	imported func(error)
}

// NewWatcher creates a watcher for path. It does nothing until Run.
func NewWatcher(path string, s store.BookStore, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		path:        filepath.Clean(path),
		store:       s,
		logger:      logger,
		settleDelay: DefaultSettleDelay,
	}
}

// Run watches until ctx is canceled. The parent directory is watched rather
// than the file so replace-by-rename saves are seen too.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching seed file", "path", w.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil && timer.Stop() {
			wg.Done()
		}
		wg.Add(1)
		timer = time.AfterFunc(w.settleDelay, func() {
			defer wg.Done()
			w.reimport(ctx)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debug("seed file changed", "op", event.Op.String())
				schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("seed watcher error", "error", err)
		}
	}
}

func (w *Watcher) reimport(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := Import(ctx, w.store, w.path, w.logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		// A half-written or invalid file keeps the previous collection.
		w.logger.Warn("seed re-import failed", "path", w.path, "error", err)
	}
	if w.imported != nil {
		w.imported(err)
	}
}
