//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package resolve

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const testBundle = `
apiVersion: portalguard.balaipom.go.id/v1
kind: AccessCatalog
metadata:
  name: balai-portal
spec:
  menu:
    - title: Menu
      items:
        - key: dashboard
          name: Dashboard
          path: /dashboard
    - title: Manajemen Konten
      items:
        - key: konten
          name: Konten
          children:
            - key: artikel
              name: Artikel
              path: /dashboard/konten/artikel
  grants:
    - role: Admin Web
      keys:
        - dashboard
        - konten
`

// Test helper function
func createTestBundle(t *testing.T) string {
	tmpfile, err := os.CreateTemp("", "test-*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })

	_, err = tmpfile.WriteString(testBundle)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	return tmpfile.Name()
}

func runResolve(t *testing.T, args ...string) error {
	t.Helper()
	cmd := &cli.Command{
		Name: "resolve",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "bundle", Aliases: []string{"b"}},
			&cli.StringFlag{Name: "role", Aliases: []string{"r"}},
		},
		Action: Execute,
	}
	return cmd.Run(context.Background(), append([]string{"resolve"}, args...))
}

func TestResolve_KnownRole(t *testing.T) {
	bundle := createTestBundle(t)
	assert.NoError(t, runResolve(t, "--bundle", bundle, "--role", "Admin Web"))
}

func TestResolve_UnknownRoleIsEmptyNotError(t *testing.T) {
	bundle := createTestBundle(t)
	assert.NoError(t, runResolve(t, "--bundle", bundle, "--role", "Magang"))
}

func TestResolve_MissingRole(t *testing.T) {
	bundle := createTestBundle(t)

	err := runResolve(t, "--bundle", bundle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be specified")
}

func TestResolve_NoBundle(t *testing.T) {
	err := runResolve(t, "--role", "Admin Web")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one bundle")
}

func TestResolve_MissingBundleFile(t *testing.T) {
	err := runResolve(t, "--bundle", "/nonexistent/bundle.yml", "--role", "Admin Web")
	assert.Error(t, err)
}
