//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package common

import (
	"fmt"
	"io"

	"github.com/balaipom/portalguard/pkg/core"
	"github.com/balaipom/portalguard/pkg/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/urfave/cli/v3"
)

// NewCliGuard creates a new Guard instance configured from CLI command flags.
// It loads the catalog bundles named by --bundle and directs audit records
// to the given writer.
func NewCliGuard(cmd *cli.Command, auditOut io.Writer) (core.Guard, error) {
	bundles := cmd.StringSlice("bundle")
	if len(bundles) == 0 {
		return nil, fmt.Errorf("at least one bundle must be specified")
	}

	return core.NewLocalGuard(bundles,
		options.WithAuditLog(auditlog.NewIoWriterFactory(auditOut)))
}
