//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package v1

import (
	"io"
	"os"

	"github.com/balaipom/portalguard/pkg/catalog"

	"gopkg.in/yaml.v3"
)

// Item represents a menu item in v1 format
type Item struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path,omitempty"`
	Children []Item `yaml:"children,omitempty"`
}

// Section represents a menu section in v1 format
type Section struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items"`
}

// Grant represents one role's allow list in v1 format
type Grant struct {
	Role string   `yaml:"role"`
	Keys []string `yaml:"keys"`
}

func exportItem(def Item) catalog.MenuItem {
	return catalog.MenuItem{
		Key:      catalog.Key(def.Key),
		Name:     def.Name,
		Path:     def.Path,
		Children: exportItems(def.Children),
	}
}

func exportItems(defs []Item) []catalog.MenuItem {
	if len(defs) == 0 {
		return nil
	}
	items := make([]catalog.MenuItem, 0, len(defs))
	for _, def := range defs {
		items = append(items, exportItem(def))
	}

	return items
}

func exportMenu(defs []Section) catalog.MenuTree {
	tree := make(catalog.MenuTree, 0, len(defs))
	for _, def := range defs {
		tree = append(tree, catalog.MenuSection{
			Title: def.Title,
			Items: exportItems(def.Items),
		})
	}

	return tree
}

func exportGrants(defs []Grant) catalog.RoleAccessTable {
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

// IntermediateModel represents the intermediate v1 YAML structure
type IntermediateModel struct {
	Metadata struct {
		Name string `yaml:"name"`
	}
	Spec struct {
		Menu   []Section `yaml:"menu"`
		Grants []Grant   `yaml:"grants"`
	}
}

// Load loads a v1 access catalog from a file path
func Load(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path) // #nosec G304 -- CLI tool intentionally reads user-provided paths
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var intermediate IntermediateModel

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &intermediate)
	if err != nil {
		return nil, err
	}

	return &catalog.Catalog{
		Name:  intermediate.Metadata.Name,
		Menu:  exportMenu(intermediate.Spec.Menu),
		Roles: exportGrants(intermediate.Spec.Grants),
	}, nil
}
