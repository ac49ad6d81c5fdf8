package providers

import (
	"io"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/catalog"
	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/controller"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/tui"
)

// Console is where the interactive client reads and writes.
type Console struct {
	In  io.Reader
	Out io.Writer
}

// ProvideCatalogClient provides the HTTP client for the collection.
func ProvideCatalogClient(i do.Injector) (*catalog.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.New(cfg.Catalog.URL, log.Component("catalog"), catalog.WithTimeout(cfg.Catalog.Timeout))
}

// ProvideTerminal provides the line-oriented UI.
func ProvideTerminal(i do.Injector) (*tui.Terminal, error) {
	console := do.MustInvoke[Console](i)
	return tui.NewTerminal(console.In, console.Out), nil
}

// ProvideController provides the editing workflow controller.
func ProvideController(i do.Injector) (*controller.Controller, error) {
	client := do.MustInvoke[*catalog.Client](i)
	term := do.MustInvoke[*tui.Terminal](i)
	log := do.MustInvoke[*logger.Logger](i)

	return controller.New(client, term, log.Logger), nil
}
