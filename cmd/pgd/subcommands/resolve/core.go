//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/balaipom/portalguard/cmd/pgd/common"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Execute resolves a role against one or more catalog bundles and
// prints the menu subset the role may see plus the flat set of paths it
// may reach. This mirrors exactly what the portal renders for a signed-in
// member of the role, making catalog authoring verifiable without a
// running portal.
func Execute(ctx context.Context, cmd *cli.Command) error {
	role := catalog.Role(cmd.String("role"))
	if role == "" {
		return fmt.Errorf("a role must be specified with --role")
	}

	guard, err := common.NewCliGuard(cmd, io.Discard)
	if err != nil {
		return err
	}

	menu, err := guard.VisibleMenu(ctx, role)
	if err != nil {
		return err
	}

	paths, err := guard.AuthorizedPaths(ctx, role)
	if err != nil {
		return err
	}

	fmt.Printf("Visible menu for role '%s':\n\n", role)
	if len(menu) == 0 {
		fmt.Println("  (none)")
	} else {
		out, err := yaml.Marshal(menu)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	}

	fmt.Println("Authorized paths:")
	if len(paths) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, p := range paths.Sorted() {
			fmt.Printf("  %s\n", p)
		}
	}

	return nil
}
