//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/balaipom/portalguard/cmd/pgd/subcommands/decide"
	"github.com/balaipom/portalguard/cmd/pgd/subcommands/lint"
	"github.com/balaipom/portalguard/cmd/pgd/subcommands/resolve"
	"github.com/balaipom/portalguard/cmd/pgd/subcommands/serve"
	"github.com/balaipom/portalguard/cmd/pgd/version"
	"github.com/urfave/cli/v3"
)

func bundleFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "bundle",
		Aliases: []string{"b"},
		Usage:   "Load AccessCatalog bundle from `FILE`.  Can be specified multiple times.",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "pgd",
		Usage:   "A CLI application for working with the PortalGuard route authorization engine",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "decide",
				Usage: "Evaluates a single route decision against one or more AccessCatalog bundles",
				Flags: []cli.Flag{
					bundleFlag(),
					&cli.StringFlag{
						Name:  "path",
						Usage: "The route path to evaluate, e.g. /dashboard/konten/artikel",
					},
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Usage:   "Role of the signed-in principal",
					},
					&cli.StringFlag{
						Name:  "subject",
						Usage: "Subject of the signed-in principal",
						Value: "cli",
					},
					&cli.BoolFlag{
						Name:  "anonymous",
						Usage: "Evaluate as an anonymous (not signed-in) visitor",
					},
					&cli.BoolFlag{
						Name:  "pending",
						Usage: "Evaluate with session restoration still pending",
					},
					&cli.BoolFlag{
						Name:  "probe",
						Usage: "Evaluate in probe mode, suppressing the audit record",
					},
					&cli.BoolFlag{
						Name:  "audit",
						Usage: "Stream the audit record to stderr",
					},
				},
				Action: decide.Execute,
			},
			{
				Name:  "resolve",
				Usage: "Prints the visible menu and authorized paths for a role",
				Flags: []cli.Flag{
					bundleFlag(),
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Usage:   "Role to resolve",
					},
				},
				Action: resolve.Execute,
			},
			{
				Name:  "serve",
				Usage: "Creates a decision-point service",
				Flags: []cli.Flag{
					bundleFlag(),
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
					&cli.StringFlag{
						Name:    "protocol",
						Aliases: []string{"p"},
						Usage:   "The protocol to serve.  Must be one of 'generic' or 'envoy'",
						Value:   "generic",
						Action: func(ctx context.Context, command *cli.Command, s string) error {
							if s != "generic" && s != "envoy" {
								return fmt.Errorf("unsupported protocol: %s", s)
							}
							return nil
						},
					},
					&cli.StringFlag{
						Name:  "signin-url",
						Usage: "Sign-in location returned to unauthenticated requests (envoy protocol only)",
						Value: "/login",
					},
				},
				Action: serve.Execute,
			},
			{
				Name:  "lint",
				Usage: "Validate AccessCatalog YAML files for syntax and cross-reference errors",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "AccessCatalog YAML file to lint (.yml, .yaml). Can be specified multiple times.",
						Required: true,
					},
				},
				Action: lint.Execute,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
