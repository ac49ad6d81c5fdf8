// Package main provides the entry point for the bookshelf catalog server, a
// json-server compatible collection at /books.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/di"
	"github.com/listenupapp/bookshelf/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewServerContainer(os.Args[1:])

	// Bootstrap all services
	if err := di.BootstrapServer(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The DI container stops the HTTP server before closing the store.
	if err := injector.Shutdown(); err != nil {
		log.WithError(err).Error("Shutdown error")
	}

	log.Info("Server stopped")
	_ = log.Close()
}
