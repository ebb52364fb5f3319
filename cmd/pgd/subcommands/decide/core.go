//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package decide

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/balaipom/portalguard/cmd/pgd/common"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/urfave/cli/v3"
)

// Execute runs a single route decision against one or more catalog
// bundles and reports the outcome. The process exit status mirrors the
// decision: zero when the route is granted, non-zero otherwise.
func Execute(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		return fmt.Errorf("a path must be specified with --path")
	}

	anonymous := cmd.Bool("anonymous")
	role := cmd.String("role")
	if !anonymous && role == "" {
		return fmt.Errorf("either --role or --anonymous must be specified")
	}
	if anonymous && role != "" {
		return fmt.Errorf("--role and --anonymous are mutually exclusive")
	}

	// Audit records go to stderr when requested so the decision output
	// on stdout stays machine-readable
	auditOut := io.Discard
	if cmd.Bool("audit") {
		auditOut = os.Stderr
	}

	guard, err := common.NewCliGuard(cmd, auditOut)
	if err != nil {
		return err
	}

	query := &types.Query{
		Path:  path,
		Ready: !cmd.Bool("pending"),
	}
	if !anonymous {
		query.Principal = &types.Principal{
			Subject: cmd.String("subject"),
			Role:    role,
		}
	}

	decision, err := guard.Decide(ctx, query, options.SetProbeMode(cmd.Bool("probe")))
	if err != nil {
		return err
	}

	fmt.Printf("decision: %s\n", decision)

	if !decision.Granted() {
		return cli.Exit("", 1)
	}
	return nil
}
