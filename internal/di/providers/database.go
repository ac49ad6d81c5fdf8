package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/store/sqlite"
)

// StoreHandle wraps the configured store with shutdown capability.
type StoreHandle struct {
	store.BookStore
	Path string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the backend selected by STORE_BACKEND under DATA_PATH.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Store.DataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create data path: %w", err)
	}

	var (
		st   store.BookStore
		path string
		err  error
	)
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		path = filepath.Join(cfg.Store.DataPath, "bookshelf.db")
		st, err = sqlite.Open(path, log.Component("sqlite"))
	default:
		path = filepath.Join(cfg.Store.DataPath, "db")
		st, err = store.New(path, log.Component("store"))
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Store.Backend, "path", path)

	return &StoreHandle{BookStore: st, Path: path}, nil
}
