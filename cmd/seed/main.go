// Package main imports a json-server db.json file into the catalog server's
// data directory, replacing what is there. Run it while the server is stopped.
//
// Usage:
//
//	go run ./cmd/seed -seed ./db.json
//	go run ./cmd/seed -store sqlite -data-path ./data -seed ./db.json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/config"
	"github.com/listenupapp/bookshelf/internal/di"
	"github.com/listenupapp/bookshelf/internal/di/providers"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/seed"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	injector := di.NewToolContainer(args)
	defer injector.Shutdown()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	if cfg.Store.SeedFile == "" {
		return errors.New("no seed file given, use -seed or SEED_FILE")
	}

	log := do.MustInvoke[*logger.Logger](injector)
	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return err
	}

	if err := seed.Import(context.Background(), storeHandle.BookStore, cfg.Store.SeedFile, log.Logger); err != nil {
		return err
	}

	books, err := storeHandle.List(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d books into %s\n", len(books), storeHandle.Path)
	return nil
}
