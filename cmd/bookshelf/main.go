// Package main provides the interactive bookshelf client.
//
// Usage:
//
//	bookshelf -catalog-url http://localhost:3000
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/di"
	"github.com/listenupapp/bookshelf/internal/logger"
	"github.com/listenupapp/bookshelf/internal/tui"
)

func main() {
	injector := di.NewClientContainer(os.Args[1:], os.Stdin, os.Stdout)

	ctrl, err := di.BootstrapClient(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	term := do.MustInvoke[*tui.Terminal](injector)

	// Ctrl-C ends the process directly; the terminal read cannot be interrupted.
	runErr := term.Run(context.Background(), ctrl, log.Logger)

	if err := injector.Shutdown(); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
	_ = log.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "bookshelf: %v\n", runErr)
		os.Exit(1)
	}
}
