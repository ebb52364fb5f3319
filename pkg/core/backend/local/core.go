//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package local provides a backend implementation that serves access
// catalogs loaded from local YAML bundles via a [registry.Registry].
//
// The local backend is the standard backend for deployments that manage
// their catalogs as configuration files, either bundled with the
// application or loaded from a filesystem path.
//
// # Usage
//
//	// Load catalog bundles from local files
//	registry, err := registry.NewRegistry([]string{
//	    "./catalogs/base.yml",
//	    "./catalogs/override.yml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the guard with the local backend
//	guard, err := core.NewGuard(
//	    options.WithBackend(local.NewFactory(registry)),
//	)
package local

import (
	"context"

	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/catalog/registry"
	"github.com/balaipom/portalguard/pkg/common"
	"github.com/balaipom/portalguard/pkg/core/backend"
)

var logger = logging.GetLogger("portalguard.backend.local")
var actor = "backend.local"

// Factory creates [Backend] instances from a [registry.Registry].
type Factory struct {
	reg *registry.Registry
}

// Backend implements [backend.Service] using catalog data from a
// registry. The registry validated the data at load time, so lookups
// here are simple reads against the merged catalog.
type Backend struct {
	merged *catalog.Catalog
}

// NewFactory creates a [backend.Factory] for the local backend.
//
// The registry must be fully loaded and validated before calling
// NewFactory. Use [registry.NewRegistry] to create the registry from
// catalog bundle paths.
func NewFactory(reg *registry.Registry) backend.Factory {
	return &Factory{reg: reg}
}

// NewBackend creates a [Backend] serving the registry's merged catalog.
func (f *Factory) NewBackend() (backend.Service, error) {
	merged := f.reg.Catalog()
	logger.Infof(actor, "Init", "serving catalog '%s' with %d roles", merged.Name, len(merged.Roles))
	return &Backend{merged: merged}, nil
}

// MenuTree returns the merged menu tree across all loaded bundles.
func (b *Backend) MenuTree(ctx context.Context) (catalog.MenuTree, *common.GuardError) {
	logger.Tracef(actor, "Get", "MenuTree: %d sections", len(b.merged.Menu))
	return b.merged.Menu, nil
}

// PermittedKeys returns the role's permitted key set from the merged
// role-access table.
func (b *Backend) PermittedKeys(ctx context.Context, role catalog.Role) (catalog.KeySet, *common.GuardError) {
	logger.Tracef(actor, "Get", "PermittedKeys: role %v", role)
	return b.merged.Roles.PermittedKeys(role), nil
}

// Roles returns the declared role names in lexical order.
func (b *Backend) Roles(ctx context.Context) ([]catalog.Role, *common.GuardError) {
	return b.merged.Roles.Roles(), nil
}
