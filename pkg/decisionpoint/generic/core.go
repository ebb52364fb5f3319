//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package generic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/balaipom/portalguard/pkg/core"
	"github.com/balaipom/portalguard/pkg/decisionpoint"
	"github.com/balaipom/portalguard/pkg/decisionpoint/generic/api"

	"github.com/labstack/echo/v4"
)

// Server represents a generic decision point server that serves the REST API.
type Server struct {
	echo *echo.Echo
}

// CreateServer creates and starts a new generic decision point server.
// It sets up the REST API endpoints and the health probe.
func CreateServer(guard core.Guard, port int) (decisionpoint.Server, error) {
	e := echo.New()
	e.HideBanner = true
	apiServer := api.NewServer(guard)

	apiServer.Register(e)

	// Start server in goroutine since e.Start() blocks
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	return &Server{
		echo: e,
	}, nil
}

// Stop gracefully stops the Server by shutting down the Echo HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
