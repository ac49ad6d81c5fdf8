package providers

import (
	"context"
	"errors"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/seed"
)

// SeedWatcherHandle stops the seed file watcher, if one is running.
type SeedWatcherHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *SeedWatcherHandle) Shutdown() error {
	if h.cancel == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return nil
}

// ProvideSeedWatcher imports SEED_FILE into the store and, with SEED_WATCH,
// keeps re-importing it whenever it changes.
func ProvideSeedWatcher(i do.Injector) (*SeedWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	if cfg.Store.SeedFile == "" {
		return &SeedWatcherHandle{}, nil
	}

	seedLog := log.Component("seed")
	if err := seed.Import(context.Background(), storeHandle.BookStore, cfg.Store.SeedFile, seedLog); err != nil {
		return nil, err
	}

	if !cfg.Store.SeedWatch {
		return &SeedWatcherHandle{}, nil
	}

	w := seed.NewWatcher(cfg.Store.SeedFile, storeHandle.BookStore, seedLog)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Seed watcher error", "error", err)
		}
	}()

	return &SeedWatcherHandle{cancel: cancel, done: done}, nil
}
