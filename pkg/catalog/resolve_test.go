//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package catalog_test

import (
	"testing"

	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

// testTree mirrors the agency dashboard: a flat section, a content
// section with a group, and an administration section.
func testTree() catalog.MenuTree {
	return catalog.MenuTree{
		{
			Title: "Menu",
			Items: []catalog.MenuItem{
				{Key: "dashboard", Name: "Dashboard", Path: "/dashboard"},
			},
		},
		{
			Title: "Manajemen Konten",
			Items: []catalog.MenuItem{
				{
					Key:  "konten",
					Name: "Konten",
					Children: []catalog.MenuItem{
						{Key: "artikel", Name: "Artikel", Path: "/dashboard/konten/artikel"},
						{Key: "chart", Name: "Chart Layanan", Path: "/dashboard/chart-layanan"},
					},
				},
				{Key: "layanan_master", Name: "Layanan", Path: "/dashboard/layanan"},
				{Key: "faq", Name: "FAQ", Path: "/dashboard/faq"},
			},
		},
		{
			Title: "Layanan Publik",
			Items: []catalog.MenuItem{
				{Key: "pengaduan", Name: "Pengaduan", Path: "/dashboard/pengaduan"},
				{Key: "pertanyaan", Name: "Pertanyaan", Path: "/dashboard/pertanyaan"},
				{Key: "whistle_blowing", Name: "Whistle Blowing", Path: "/dashboard/whistle-blowing"},
			},
		},
		{
			Title: "Administrasi",
			Items: []catalog.MenuItem{
				{Key: "user_management", Name: "Users", Path: "/dashboard/users"},
				{Key: "role_management", Name: "Roles", Path: "/dashboard/roles"},
			},
		},
	}
}

func testTable() catalog.RoleAccessTable {
	return catalog.RoleAccessTable{
		"Super Admin": catalog.NewKeySet(
			"dashboard", "konten", "layanan_master", "faq",
			"pengaduan", "pertanyaan", "whistle_blowing",
			"user_management", "role_management"),
		"Admin Web":            catalog.NewKeySet("dashboard", "konten", "layanan_master", "faq"),
		"Admin Pengaduan":      catalog.NewKeySet("dashboard", "pengaduan", "pertanyaan"),
		"Admin Whistle Blowing": catalog.NewKeySet("dashboard", "whistle_blowing"),
		"Kepala Balai":         catalog.NewKeySet("dashboard", "chart"),
	}
}

func TestDefaultDeny(t *testing.T) {
	tree := testTree()
	table := testTable()

	permitted := table.PermittedKeys("Magang")
	assert.Empty(t, permitted)

	paths := catalog.AuthorizedPaths(tree, permitted)
	assert.Empty(t, paths)

	menu := catalog.VisibleMenu(tree, permitted)
	assert.Empty(t, menu)
}

func TestAuthorizedPathsAdminWeb(t *testing.T) {
	// Round-trip from the access matrix: a permitted group key grants
	// every child destination, and unrelated keys grant nothing.
	tree := testTree()
	table := catalog.RoleAccessTable{
		"Admin Web": catalog.NewKeySet("dashboard", "konten", "layanan_master"),
	}

	paths := catalog.AuthorizedPaths(tree, table.PermittedKeys("Admin Web"))

	expected := []string{
		"/dashboard",
		"/dashboard/chart-layanan",
		"/dashboard/konten/artikel",
		"/dashboard/layanan",
	}
	assert.Equal(t, expected, paths.Sorted())
	assert.False(t, paths.Has("/dashboard/users"))
}

func TestGroupVisibility(t *testing.T) {
	tree := testTree()
	table := testTable()

	// Kepala Balai holds only the "chart" child key: the konten group
	// must appear, carrying only the chart child.
	menu := catalog.VisibleMenu(tree, table.PermittedKeys("Kepala Balai"))

	var konten *catalog.MenuItem
	for _, section := range menu {
		for i := range section.Items {
			if section.Items[i].Key == "konten" {
				konten = &section.Items[i]
			}
		}
	}
	assert.NotNil(t, konten)
	assert.Len(t, konten.Children, 1)
	assert.Equal(t, catalog.Key("chart"), konten.Children[0].Key)

	// Admin Pengaduan holds no konten-related keys: the group must be
	// absent entirely, not rendered empty.
	menu = catalog.VisibleMenu(tree, table.PermittedKeys("Admin Pengaduan"))
	for _, section := range menu {
		for i := range section.Items {
			assert.NotEqual(t, catalog.Key("konten"), section.Items[i].Key)
		}
	}
}

func TestGroupKeyGrantsAllChildren(t *testing.T) {
	tree := testTree()
	permitted := catalog.NewKeySet("konten")

	menu := catalog.VisibleMenu(tree, permitted)
	assert.Len(t, menu, 1)
	assert.Equal(t, "Manajemen Konten", menu[0].Title)
	assert.Len(t, menu[0].Items, 1)
	assert.Len(t, menu[0].Items[0].Children, 2)
}

func TestEmptySectionsDropped(t *testing.T) {
	tree := testTree()
	table := testTable()

	menu := catalog.VisibleMenu(tree, table.PermittedKeys("Admin Whistle Blowing"))
	titles := make([]string, 0, len(menu))
	for _, section := range menu {
		titles = append(titles, section.Title)
	}
	assert.Equal(t, []string{"Menu", "Layanan Publik"}, titles)
}

func TestVisibleMenuIsDeepCopy(t *testing.T) {
	tree := testTree()
	menu := catalog.VisibleMenu(tree, catalog.NewKeySet("konten"))

	menu[0].Items[0].Children[0].Name = "mutated"
	assert.Equal(t, "Artikel", tree[1].Items[0].Children[0].Name)
}

func TestGroupContributesNoPath(t *testing.T) {
	tree := catalog.MenuTree{
		{
			Title: "Menu",
			Items: []catalog.MenuItem{
				{
					Key:  "grp",
					Name: "Group",
					Path: "/dashboard/group",
					Children: []catalog.MenuItem{
						{Key: "leaf", Name: "Leaf", Path: "/dashboard/group/leaf"},
					},
				},
			},
		},
	}

	paths := catalog.AuthorizedPaths(tree, catalog.NewKeySet("grp"))
	assert.Equal(t, []string{"/dashboard/group/leaf"}, paths.Sorted())

	// The decorative group path is not governed either.
	governed := catalog.GovernedPaths(tree)
	assert.False(t, governed.Has("/dashboard/group"))
	assert.True(t, governed.Has("/dashboard/group/leaf"))
}

func TestDuplicatePathAppearsOnce(t *testing.T) {
	tree := catalog.MenuTree{
		{
			Title: "Menu",
			Items: []catalog.MenuItem{
				{Key: "a", Name: "A", Path: "/dashboard/shared"},
				{Key: "b", Name: "B", Path: "/dashboard/shared"},
			},
		},
	}

	paths := catalog.AuthorizedPaths(tree, catalog.NewKeySet("a", "b"))
	assert.Equal(t, []string{"/dashboard/shared"}, paths.Sorted())
}

func TestGovernedPaths(t *testing.T) {
	tree := testTree()
	governed := catalog.GovernedPaths(tree)

	assert.True(t, governed.Has("/dashboard"))
	assert.True(t, governed.Has("/dashboard/users"))
	assert.True(t, governed.Has("/dashboard/konten/artikel"))
	assert.False(t, governed.Has("/berita"))
	assert.False(t, governed.Has("/login"))
}

func TestEmptyTreeDegrades(t *testing.T) {
	var tree catalog.MenuTree

	assert.Empty(t, catalog.AuthorizedPaths(tree, catalog.NewKeySet("dashboard")))
	assert.Empty(t, catalog.VisibleMenu(tree, catalog.NewKeySet("dashboard")))
	assert.Empty(t, catalog.GovernedPaths(tree))
}
