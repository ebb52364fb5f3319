//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package serve

import (
	"context"
	"os"
	"os/signal"

	"github.com/balaipom/portalguard/cmd/pgd/common"
	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/decisionpoint"
	"github.com/balaipom/portalguard/pkg/decisionpoint/envoy"
	"github.com/balaipom/portalguard/pkg/decisionpoint/generic"
	"github.com/balaipom/portalguard/pkg/session"
	"github.com/urfave/cli/v3"
)

var logger = logging.GetLogger("portalguard")

const agent string = "serve"

// Execute runs the serve command, starting a decision point server based on the configured protocol.
// It supports both "generic" and "envoy" protocols and gracefully shuts down on interrupt signals.
func Execute(ctx context.Context, cmd *cli.Command) error {
	port := int(cmd.Int("port"))

	guard, err := common.NewCliGuard(cmd, os.Stdout)
	if err != nil {
		return err
	}

	var server decisionpoint.Server
	switch cmd.String("protocol") {
	case "generic":
		server, err = generic.CreateServer(guard, port)
	case "envoy":
		// The envoy protocol resolves bearer tokens against the
		// identity API configured via identity.url
		server, err = envoy.CreateServer(guard, port, session.NewHTTPClient(), cmd.String("signin-url"))
	}
	if err != nil {
		return err
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info(agent, "shutdown", "Shutting down server...")

	err = server.Stop(ctx)
	if err != nil {
		return err
	}

	logger.Info(agent, "shutdown", "Server exited gracefully.")
	return nil
}
