//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package registry provides functionality for loading and validating
// access catalogs from YAML files.
//
// The registry is the primary entry point for loading catalogs. It
// parses YAML bundles and validates the menu tree and role grants for
// internal consistency before they ever reach the decision path.
//
// # Loading Catalogs
//
//	registry, err := registry.NewRegistry([]string{
//	    "./catalogs/base.yml",
//	    "./catalogs/override.yml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Using with the Guard
//
//	backend := local.NewFactory(registry)
//	guard, _ := core.NewGuard(options.WithBackend(backend))
package registry

import (
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/catalog/parsers"
)

// CatalogMap maps catalog names to their parsed models.
type CatalogMap map[string]*catalog.Catalog

// Registry manages loaded access catalogs and their validation state.
//
// Registry is created by [NewRegistry], which loads and validates
// catalog YAML files. The registry can then be used with the local
// backend to provide catalog data to the guard.
type Registry struct {
	catalogs CatalogMap
	merged   *catalog.Catalog
}

// supersede resolves name collisions in load order: a later bundle
// replaces an earlier bundle of the same name entirely, sections and
// grants alike. The superseded bundle contributes nothing to the
// merged view.
func supersede(ordered []*catalog.Catalog) []*catalog.Catalog {
	winners := make([]*catalog.Catalog, 0, len(ordered))
	index := make(map[string]int)
	for _, c := range ordered {
		if i, ok := index[c.Name]; ok {
			winners[i] = c
			continue
		}
		index[c.Name] = len(winners)
		winners = append(winners, c)
	}
	return winners
}

// GetCatalogs returns the catalog map for accessing individual bundles.
func (r *Registry) GetCatalogs() CatalogMap {
	return r.catalogs
}

// Catalog returns the merged view across the winning bundles: sections
// concatenate in load order and role grants union key sets.
func (r *Registry) Catalog() *catalog.Catalog {
	return r.merged
}

func validateStructure(errs *Errors, c *catalog.Catalog) catalog.KeySet {
	seen := make(catalog.KeySet)
	c.Menu.Walk(func(item *catalog.MenuItem) bool {
		id := string(item.Key)
		if item.Key == "" {
			errs.Addf(c.Name, "item", item.Name, "missing key")
			return true
		}
		if seen.Has(item.Key) {
			errs.Addf(c.Name, "item", id, "duplicate key")
		}
		seen.Add(item.Key)
		if !item.IsGroup() && item.Path == "" {
			errs.Addf(c.Name, "item", id, "leaf item missing path")
		}
		return true
	})
	return seen
}

// validateRegistry checks the winning bundles as the one catalog they
// will merge into. Keys must be unique across every bundle, not merely
// within each: grants match items by key, so a key declared in two
// bundles would let a grant in one reach the colliding item's path in
// the other. Grants may name any declared key, including one from
// another bundle.
func validateRegistry(errs *Errors, winners []*catalog.Catalog) {
	declared := make(catalog.KeySet)
	owner := make(map[catalog.Key]string)

	for _, c := range winners {
		for _, key := range validateStructure(errs, c).Sorted() {
			if prev, ok := owner[key]; ok {
				errs.Addf(c.Name, "item", string(key), "duplicate key, already declared in catalog '%s'", prev)
				continue
			}
			owner[key] = c.Name
			declared.Add(key)
		}
	}

	for _, c := range winners {
		for role, keys := range c.Roles {
			if role == "" {
				errs.Addf(c.Name, "grant", "", "missing role name")
				continue
			}
			for _, key := range keys.Sorted() {
				if !declared.Has(key) {
					errs.Addf(c.Name, "grant", string(role), "key '%s' not declared in menu", key)
				}
			}
		}
	}
}

func mergeCatalogs(winners []*catalog.Catalog) *catalog.Catalog {
	merged := &catalog.Catalog{
		Menu:  catalog.MenuTree{},
		Roles: catalog.RoleAccessTable{},
	}
	for _, c := range winners {
		merged.Name = c.Name
		merged.Menu = append(merged.Menu, c.Menu...)
		for role, keys := range c.Roles {
			union, ok := merged.Roles[role]
			if !ok {
				union = catalog.NewKeySet()
				merged.Roles[role] = union
			}
			for _, key := range keys.Sorted() {
				union.Add(key)
			}
		}
	}
	return merged
}

// NewRegistry loads and validates access catalogs from the specified
// paths.
//
// Each path should be a catalog bundle YAML file. Bundles are loaded in
// the order provided; a later bundle supersedes an earlier bundle of
// the same name entirely, so the superseded bundle's sections and
// grants never reach the merged view. Across the bundles that do merge,
// keys must be globally unique; grants may reference declared keys
// from any bundle.
//
// Returns an error if any bundle fails to parse or validate; all
// validation failures across all bundles accumulate into one error.
func NewRegistry(bundlePaths []string) (*Registry, error) {
	ordered := make([]*catalog.Catalog, 0)
	for _, path := range bundlePaths {
		instance, err := parsers.Load(path)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, instance)
	}

	winners := supersede(ordered)

	catalogs := make(CatalogMap, len(winners))
	for _, instance := range winners {
		catalogs[instance.Name] = instance
	}

	errs := NewValidationErrors()
	validateRegistry(errs, winners)
	if errs.HasErrors() {
		return nil, errs
	}

	return &Registry{
		catalogs: catalogs,
		merged:   mergeCatalogs(winners),
	}, nil
}
