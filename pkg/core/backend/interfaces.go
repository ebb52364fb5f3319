//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package backend defines the interfaces for access catalog storage
// backends.
//
// A backend is responsible for storing and retrieving the catalog data
// the route guard decides with: the menu tree and the per-role allow
// lists. The guard uses backends to load the data needed for route
// decisions.
//
// # Built-in Backends
//
// The following backend implementations are available:
//   - [local]: Serves catalogs loaded from local YAML bundles via a
//     [registry.Registry]
//   - [postgres]: Serves catalogs from a PostgreSQL database
//   - Mock backend (internal): Serves a catalog declared inline in the
//     configuration file, useful for testing
//
// # Implementing a Custom Backend
//
// To implement a custom backend (e.g., for a remote service):
//
//  1. Implement the [Factory] interface to create backend instances
//  2. Implement the [Service] interface to provide catalog data
//  3. Use the backend with [options.WithBackend] when creating the guard
//
// Example:
//
//	type MyFactory struct { /* ... */ }
//
//	func (f *MyFactory) NewBackend() (backend.Service, error) {
//	    return &MyBackend{}, nil
//	}
//
//	// Use with the guard
//	guard, _ := core.NewGuard(options.WithBackend(&MyFactory{}))
package backend

import (
	"context"

	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/common"
)

// Factory creates backend [Service] instances.
//
// The factory pattern separates early initialization (configuration
// defaults, resource allocation) from late initialization (connecting
// to services, loading catalogs). The guard framework guarantees:
//
//  1. Factory construction happens early, allowing Viper defaults to be set
//  2. Configuration is fully loaded before [NewBackend] is called
//
// Implementations should perform expensive operations (database
// connections, catalog loads) in [NewBackend], not during factory
// construction.
type Factory interface {
	// NewBackend creates a new backend service instance.
	//
	// This method is called after configuration is fully loaded.
	// Returns an error if the backend cannot be initialized (e.g.,
	// database connection failure, malformed catalog).
	NewBackend() (Service, error)
}

// Service provides access to catalog data for route decisions.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// # Error Handling
//
// Methods return *[common.GuardError] instead of error to provide
// structured error information including reason codes suitable for
// audit logging. A nil GuardError indicates success.
type Service interface {
	// MenuTree retrieves the full menu tree.
	MenuTree(ctx context.Context) (catalog.MenuTree, *common.GuardError)

	// PermittedKeys retrieves the permitted key set for a role. A role
	// with no grants yields an empty set, not an error.
	PermittedKeys(ctx context.Context, role catalog.Role) (catalog.KeySet, *common.GuardError)

	// Roles retrieves the declared role names.
	Roles(ctx context.Context) ([]catalog.Role, *common.GuardError)
}
