// Package main provides the entry point for the bookmark client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/decollzoq/bookmark-service/internal/di"
	"github.com/decollzoq/bookmark-service/internal/di/providers"
	"github.com/decollzoq/bookmark-service/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap client: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	storeHandle := do.MustInvoke[*providers.StoreHandle](injector)

	// Restore the persisted snapshot and bootstrap the session. A missing
	// or expired session is not an error; the client just starts logged out.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := storeHandle.Hydrate(ctx); err != nil {
		log.Error("Hydration failed", "error", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("Shutting down gracefully...")

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	if err := storeHandle.Shutdown(); err != nil {
		log.Error("Failed to close local cache", "error", err)
	} else {
		log.Info("Local cache closed successfully")
	}
}
