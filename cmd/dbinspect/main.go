// Package main prints the catalog server's collection as a db.json document,
// suitable for feeding back to cmd/seed or to json-server.
//
// Usage:
//
//	go run ./cmd/dbinspect > db.json
//	go run ./cmd/dbinspect -store sqlite -data-path ./data
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/di"
	"github.com/listenupapp/bookshelf/internal/di/providers"
	"github.com/listenupapp/bookshelf/internal/seed"
)

func main() {
	injector := di.NewToolContainer(os.Args[1:])

	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	err = seed.Export(context.Background(), storeHandle.BookStore, os.Stdout)
	_ = injector.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
