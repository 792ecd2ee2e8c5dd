// Package di provides dependency injection configuration for the bookmark client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/decollzoq/bookmark-service/internal/config"
	"github.com/decollzoq/bookmark-service/internal/di/providers"
	"github.com/decollzoq/bookmark-service/internal/logger"
	"github.com/decollzoq/bookmark-service/internal/remote"
	"github.com/decollzoq/bookmark-service/internal/share"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage and transport
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideRemoteClient)

	// Domain services
	do.Provide(injector, providers.ProvideShareService)

	return injector
}

// Bootstrap initializes the core graph. Invoking the leaves pulls the whole
// dependency chain up, including wiring the remote client onto the store.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*remote.Client](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*share.Service](injector); err != nil {
		return err
	}
	return nil
}
