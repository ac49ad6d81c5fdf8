// Package providers contains dependency injection providers for the bookshelf binaries.
package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/logger"
)

// Args are the command-line arguments, without the program name.
type Args []string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args := do.MustInvoke[Args](i)
	return config.LoadConfig(args)
}

// ProvideLogger provides the server's structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}

	log.Info("Starting bookshelf catalog server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store", cfg.Store.Backend,
		"data_path", cfg.Store.DataPath,
	)

	return log, nil
}

// ProvideClientLogger provides the interactive client's logger. stdout
// belongs to the terminal UI, so logs go to LOG_FILE or stderr.
func ProvideClientLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	log.Debug("Starting bookshelf client", "catalog_url", cfg.Catalog.URL)
	return log, nil
}

func newLogger(cfg *config.Config, w *os.File) (*logger.Logger, error) {
	lc := logger.Config{
		Writer:      w,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if cfg.Logger.File != "" {
		return logger.NewFile(cfg.Logger.File, lc)
	}
	return logger.New(lc), nil
}
