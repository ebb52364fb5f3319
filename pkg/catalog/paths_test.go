//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package catalog_test

import (
	"testing"

	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestPathCovers(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		requested string
		covers    bool
	}{
		{"exact match", "/dashboard/users", "/dashboard/users", true},
		{"nested sub-route", "/dashboard/users", "/dashboard/users/42", true},
		{"deeply nested", "/dashboard/users", "/dashboard/users/42/edit", true},
		{"sibling with shared prefix", "/dashboard/users", "/dashboard/usersxyz", false},
		{"unrelated", "/dashboard/users", "/dashboard/roles", false},
		{"parent of base", "/dashboard/users", "/dashboard", false},
		{"trailing slash on base", "/dashboard/users/", "/dashboard/users", true},
		{"trailing slash on requested", "/dashboard/users", "/dashboard/users/", true},
		{"root covers everything", "/", "/dashboard", true},
		{"empty base covers nothing", "", "/dashboard", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.covers, catalog.PathCovers(tc.base, tc.requested))
		})
	}
}

func TestPathSetCovers(t *testing.T) {
	paths := catalog.PathSet{}
	paths.Add("/dashboard/users")
	paths.Add("/dashboard/konten/artikel")

	assert.True(t, paths.Covers("/dashboard/users"))
	assert.True(t, paths.Covers("/dashboard/users/42"))
	assert.True(t, paths.Covers("/dashboard/konten/artikel/99/edit"))
	assert.False(t, paths.Covers("/dashboard/usersxyz"))
	assert.False(t, paths.Covers("/dashboard"))
}

func TestKeySetBasics(t *testing.T) {
	s := catalog.NewKeySet("b", "a")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	s.Add("c")
	assert.Equal(t, []catalog.Key{"a", "b", "c"}, s.Sorted())
}

func TestRoleAccessTableDefaultDeny(t *testing.T) {
	table := catalog.RoleAccessTable{
		"Super Admin": catalog.NewKeySet("dashboard"),
	}

	assert.True(t, table.PermittedKeys("Super Admin").Has("dashboard"))
	assert.Empty(t, table.PermittedKeys("nobody"))
	assert.Equal(t, []catalog.Role{"Super Admin"}, table.Roles())
}
