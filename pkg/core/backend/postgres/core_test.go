//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectCatalog(mock sqlmock.Sqlmock) {
	items := sqlmock.NewRows([]string{"key", "name", "path", "parent_key", "section_title"}).
		AddRow("dashboard", "Dashboard", "/dashboard", "", "Menu").
		AddRow("konten", "Konten", "", "", "Manajemen Konten").
		AddRow("artikel", "Artikel", "/dashboard/konten/artikel", "konten", "Manajemen Konten").
		AddRow("chart", "Chart Layanan", "/dashboard/chart-layanan", "konten", "Manajemen Konten")
	mock.ExpectQuery(regexp.QuoteMeta(queryMenuItems)).WillReturnRows(items)

	grants := sqlmock.NewRows([]string{"role", "item_key"}).
		AddRow("Admin Web", "dashboard").
		AddRow("Admin Web", "konten").
		AddRow("Kepala Balai", "chart")
	mock.ExpectQuery(regexp.QuoteMeta(queryRoleGrants)).WillReturnRows(grants)
}

func TestPostgresBackend_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCatalog(mock)

	b, err := NewBackendWithDB(db)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	tree, gerr := b.MenuTree(context.Background())
	require.Nil(t, gerr)
	require.Len(t, tree, 2)
	assert.Equal(t, "Menu", tree[0].Title)
	assert.Equal(t, "Manajemen Konten", tree[1].Title)

	konten := tree[1].Items[0]
	assert.Equal(t, catalog.Key("konten"), konten.Key)
	require.Len(t, konten.Children, 2)
	assert.Equal(t, catalog.Key("artikel"), konten.Children[0].Key)
}

func TestPostgresBackend_PermittedKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCatalog(mock)

	b, err := NewBackendWithDB(db)
	require.NoError(t, err)

	keys, gerr := b.PermittedKeys(context.Background(), "Admin Web")
	require.Nil(t, gerr)
	assert.True(t, keys.Has("konten"))
	assert.False(t, keys.Has("chart"))

	keys, gerr = b.PermittedKeys(context.Background(), "Magang")
	require.Nil(t, gerr)
	assert.Empty(t, keys)
}

func TestPostgresBackend_Roles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectCatalog(mock)

	b, err := NewBackendWithDB(db)
	require.NoError(t, err)

	roles, gerr := b.Roles(context.Background())
	require.Nil(t, gerr)
	assert.Equal(t, []catalog.Role{"Admin Web", "Kepala Balai"}, roles)
}

func TestPostgresBackend_UnknownParent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	items := sqlmock.NewRows([]string{"key", "name", "path", "parent_key", "section_title"}).
		AddRow("orphan", "Orphan", "/orphan", "ghost", "Menu")
	mock.ExpectQuery(regexp.QuoteMeta(queryMenuItems)).WillReturnRows(items)

	_, err = NewBackendWithDB(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent 'ghost'")
}

func TestPostgresBackend_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryMenuItems)).WillReturnError(assert.AnError)

	_, err = NewBackendWithDB(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading menu items")
}
