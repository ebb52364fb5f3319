//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package mock provides a backend that serves a catalog declared inline
// in the configuration file. It is intended for tests and local
// development only.
//
// Example configuration:
//
//	mock:
//	  enabled: true
//	  catalog:
//	    menu:
//	      - title: Menu
//	        items:
//	          - key: dashboard
//	            name: Dashboard
//	            path: /dashboard
//	    grants:
//	      - role: Admin Web
//	        keys:
//	          - dashboard
package mock

import (
	"context"

	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/common"
	"github.com/balaipom/portalguard/pkg/core/backend"
	"github.com/balaipom/portalguard/pkg/core/config"
)

const mockCatalogCfg = "mock.catalog"

var logger = logging.GetLogger("portalguard.backend.mock")
var mockAgent = "mock"

// Factory ...
type Factory struct {
}

// Backend ...
type Backend struct {
	menu  catalog.MenuTree
	roles catalog.RoleAccessTable
}

type mockItem struct {
	Key      string     `mapstructure:"key"`
	Name     string     `mapstructure:"name"`
	Path     string     `mapstructure:"path"`
	Children []mockItem `mapstructure:"children"`
}

type mockSection struct {
	Title string     `mapstructure:"title"`
	Items []mockItem `mapstructure:"items"`
}

type mockGrant struct {
	Role string   `mapstructure:"role"`
	Keys []string `mapstructure:"keys"`
}

type mockCatalog struct {
	Menu   []mockSection `mapstructure:"menu"`
	Grants []mockGrant   `mapstructure:"grants"`
}

// NewFactory creates a new Factory for the mock backend.
func NewFactory() backend.Factory {
	return &Factory{}
}

// NewBackend creates a new mock Backend from the mock.catalog section of
// the loaded configuration.
func (f *Factory) NewBackend() (backend.Service, error) {
	logger.Warn(mockAgent, "Init", "RUNNING IN MOCK MODE. SHOULD NOT BE USED IN PRODUCTION")

	var decl mockCatalog
	if err := config.VConfig.UnmarshalKey(mockCatalogCfg, &decl); err != nil {
		return nil, err
	}

	return &Backend{
		menu:  exportMenu(decl.Menu),
		roles: exportGrants(decl.Grants),
	}, nil
}

func exportItems(defs []mockItem) []catalog.MenuItem {
	if len(defs) == 0 {
		return nil
	}
	items := make([]catalog.MenuItem, 0, len(defs))
	for _, def := range defs {
		items = append(items, catalog.MenuItem{
			Key:      catalog.Key(def.Key),
			Name:     def.Name,
			Path:     def.Path,
			Children: exportItems(def.Children),
		})
	}
	return items
}

func exportMenu(defs []mockSection) catalog.MenuTree {
	tree := make(catalog.MenuTree, 0, len(defs))
	for _, def := range defs {
		tree = append(tree, catalog.MenuSection{
			Title: def.Title,
			Items: exportItems(def.Items),
		})
	}
	return tree
}

func exportGrants(defs []mockGrant) catalog.RoleAccessTable {
	table := make(catalog.RoleAccessTable, len(defs))
	for _, def := range defs {
		keys := catalog.NewKeySet()
		for _, k := range def.Keys {
			keys.Add(catalog.Key(k))
		}
		table[catalog.Role(def.Role)] = keys
	}
	return table
}

// MenuTree returns the configured mock menu tree.
func (b *Backend) MenuTree(ctx context.Context) (catalog.MenuTree, *common.GuardError) {
	return b.menu, nil
}

// PermittedKeys returns the configured permitted key set for the role.
func (b *Backend) PermittedKeys(ctx context.Context, role catalog.Role) (catalog.KeySet, *common.GuardError) {
	return b.roles.PermittedKeys(role), nil
}

// Roles returns the configured role names.
func (b *Backend) Roles(ctx context.Context) ([]catalog.Role, *common.GuardError) {
	return b.roles.Roles(), nil
}
