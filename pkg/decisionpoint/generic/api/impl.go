//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package api

import (
	"net/http"
	"strconv"

	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/core"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/balaipom/portalguard/pkg/core/types"

	"github.com/labstack/echo/v4"
)

// Server implements the generic decision point API server.
type Server struct {
	guard core.Guard
}

// NewServer creates a new API server instance with the given Guard.
func NewServer(guard core.Guard) Server {
	return Server{
		guard: guard,
	}
}

// Register wires the API routes onto the echo instance.
func (s Server) Register(e *echo.Echo) {
	e.POST("/v1/decision", s.Decision)
	e.GET("/v1/menu", s.Menu)
	e.GET("/v1/paths", s.Paths)
	e.GET("/healthz", s.Healthz)
}

type decisionResponse struct {
	Decision string `json:"decision"`
	Granted  bool   `json:"granted"`
}

type pathsResponse struct {
	Role  string   `json:"role"`
	Paths []string `json:"paths"`
}

type healthResponse struct {
	Status string `json:"status"`
	Roles  int    `json:"roles,omitempty"`
}

// Decision handles decision requests by evaluating the route guard with
// the provided query body. The optional probe query parameter suppresses
// audit logging for the evaluation.
func (s Server) Decision(c echo.Context) error {
	var query types.Query
	if err := c.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed query")
	}

	probe := false
	if raw := c.QueryParam("probe"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid probe parameter")
		}
		probe = v
	}

	decision, err := s.guard.Decide(c.Request().Context(), &query, options.SetProbeMode(probe))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, decisionResponse{
		Decision: decision.String(),
		Granted:  decision.Granted(),
	})
}

// Menu returns the menu subset visible to the role named in the role
// query parameter.
func (s Server) Menu(c echo.Context) error {
	role := c.QueryParam("role")
	if role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing role parameter")
	}

	menu, err := s.guard.VisibleMenu(c.Request().Context(), catalog.Role(role))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, menu)
}

// Paths returns the flat, sorted set of paths the role may reach.
func (s Server) Paths(c echo.Context) error {
	role := c.QueryParam("role")
	if role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing role parameter")
	}

	paths, err := s.guard.AuthorizedPaths(c.Request().Context(), catalog.Role(role))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, pathsResponse{
		Role:  role,
		Paths: paths.Sorted(),
	})
}

// Healthz reports whether the backend serving the catalog is reachable.
func (s Server) Healthz(c echo.Context) error {
	roles, gerr := s.guard.GetBackend().Roles(c.Request().Context())
	if gerr != nil {
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
	}

	return c.JSON(http.StatusOK, healthResponse{
		Status: "ok",
		Roles:  len(roles),
	})
}
