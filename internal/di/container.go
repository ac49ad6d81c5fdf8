// Package di wires the bookshelf binaries together with samber/do.
package di

import (
	"io"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/controller"
	"github.com/listenupapp/bookshelf/internal/di/providers"
	"github.com/listenupapp/bookshelf/internal/logger"
)

// NewServerContainer creates the container for the collection server.
// args are the command-line arguments without the program name.
func NewServerContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, providers.Args(args))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSeedWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// BootstrapServer opens the store, imports the seed file and starts listening.
func BootstrapServer(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SeedWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}

// NewClientContainer creates the container for the interactive client.
// The terminal reads in and writes out.
func NewClientContainer(args []string, in io.Reader, out io.Writer) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))
	do.ProvideValue(injector, providers.Console{In: in, Out: out})
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideClientLogger)

	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideTerminal)
	do.Provide(injector, providers.ProvideController)

	return injector
}

// BootstrapClient resolves the client's object graph.
func BootstrapClient(injector *do.RootScope) (*controller.Controller, error) {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return nil, err
	}
	return do.Invoke[*controller.Controller](injector)
}

// NewToolContainer creates a container with just the config, logger and
// store, for offline tools that work on the data directory directly.
func NewToolContainer(args []string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideClientLogger)
	do.Provide(injector, providers.ProvideStore)

	return injector
}
