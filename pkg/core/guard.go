//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package core provides the primary interface for the portal route
// guard, an authorization system that decides whether a staff member's
// role may reach a dashboard path.
//
// The guard evaluates route queries against an access catalog: the menu
// tree of governed destinations plus per-role allow lists. Each decision
// can optionally be logged to an audit log for trail purposes.
//
// # Quick Start
//
// Create a guard with default options (stdout audit log, mock backend):
//
//	guard, err := core.NewGuard()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Make a route decision:
//
//	decision, err := guard.Decide(ctx, `{
//	    "path": "/dashboard/konten/artikel",
//	    "ready": true,
//	    "principal": {
//	        "subject": "siti@balaipom.go.id",
//	        "role": "Admin Web"
//	    }
//	}`)
//
// # Configuration
//
// The guard supports various configuration options via functional
// options:
//
//	guard, err := core.NewGuard(
//	    options.WithBackend(local.NewFactory(registry)),
//	    options.WithAuditLog(auditlog.NewStdoutFactory()),
//	)
//
// # Probe Mode
//
// For UI reachability discovery without impacting audit logs, use probe
// mode:
//
//	decision, err := guard.Decide(ctx, query, options.SetProbeMode(true))
//
// See the [options] package for all available configuration options.
package core

import (
	"context"
	"os"

	"github.com/balaipom/portalguard/internal/core"
	"github.com/balaipom/portalguard/internal/core/backend/mock"
	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/catalog/registry"
	"github.com/balaipom/portalguard/pkg/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core/backend"
	"github.com/balaipom/portalguard/pkg/core/backend/local"
	"github.com/balaipom/portalguard/pkg/core/config"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("portalguard")
var agent = "portalguard"

// Guard is the primary interface for making route decisions.
//
// Guard evaluates route queries (path, readiness, principal) against
// the access catalog served by the configured backend. It supports
// pluggable backends for catalog storage and audit logs for decision
// trails.
//
// Implementations of Guard are safe for concurrent use by multiple
// goroutines.
type Guard interface {
	// Decide evaluates a route query and returns the decision.
	//
	// The query parameter accepts either a JSON string or a
	// [types.Query] value. See the [types] package for details.
	//
	// Returns an error if the query is malformed.
	Decide(ctx context.Context, query types.AnyQuery, decideOptions ...options.DecideOptionsFunc) (types.Decision, error)

	// VisibleMenu returns the menu subset the role may see.
	VisibleMenu(ctx context.Context, role catalog.Role) (catalog.MenuTree, error)

	// AuthorizedPaths returns the flat set of paths the role may reach.
	AuthorizedPaths(ctx context.Context, role catalog.Role) (catalog.PathSet, error)

	// GetBackend returns the underlying backend service used for
	// catalog retrieval.
	//
	// This is useful for advanced use cases where direct access to
	// catalog data is needed, such as debugging or introspection.
	GetBackend() backend.Service
}

// GuardImpl is the default implementation of the [Guard] interface.
//
// GuardImpl wraps the internal guard implementation and can be embedded
// or wrapped by applications that need to extend or customize the
// guard's behavior, such as adding context management or middleware.
//
// Use [NewGuard] to create a properly initialized instance.
type GuardImpl struct {
	instance core.Guard
}

// NewGuard creates and initializes a new [Guard] instance.
//
// By default, the guard uses a stdout audit log and a mock backend.
// Use functional options to configure a production backend and audit
// log:
//
//	guard, err := core.NewGuard(
//	    options.WithBackend(local.NewFactory(registry)),
//	    options.WithAuditLog(auditlog.NewIoWriterFactory(logfile)),
//	)
//
// NewGuard loads configuration from environment variables and config
// files before initializing the guard. See the [config] package for
// details.
//
// Returns an error if configuration loading fails or if the backend
// cannot be initialized.
func NewGuard(engineOptions ...options.EngineOptionsFunc) (Guard, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{
		AuditLogFactory: auditlog.NewIoWriterFactoryWithOptions(os.Stdout, auditlog.AuditLogOptions{
			PrettyPrint: config.VConfig.GetBool(config.AuditPretty),
		}),
		BackendFactory: mock.NewFactory(),
	}
	for _, o := range engineOptions {
		o(opts)
	}

	instance, err := core.NewGuard(opts)
	if err != nil {
		return nil, err
	}

	return &GuardImpl{
		instance: *instance,
	}, nil
}

// NewLocalGuard creates and initializes a new [Guard] instance from
// local catalog bundle files.
//
// Each bundlePath should be a file containing an access catalog YAML
// bundle. Bundles are loaded in the order provided, with later bundles
// taking precedence for name collisions.
//
// Other defaults are inherited from [NewGuard].
//
// Returns an error if configuration loading fails, a bundle fails to
// parse or validate, or the backend cannot be initialized.
func NewLocalGuard(bundlePaths []string, engineOptions ...options.EngineOptionsFunc) (Guard, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	r, err := registry.NewRegistry(bundlePaths)
	if err != nil {
		return nil, err
	}

	engineOptions = append(engineOptions, options.WithBackend(local.NewFactory(r)))
	return NewGuard(engineOptions...)
}

// Decide evaluates a route query and returns the decision.
//
// The query parameter can be provided as either:
//   - A JSON string containing the query structure
//   - A [types.Query] (or pointer) already unmarshalled
//
// Decision options can modify the evaluation behavior:
//
//	// Enable probe mode to skip audit logging
//	decision, err := guard.Decide(ctx, query, options.SetProbeMode(true))
//
// The decision is logged to the configured audit log (unless probe mode
// is enabled).
func (g *GuardImpl) Decide(ctx context.Context, query types.AnyQuery, decideOptions ...options.DecideOptionsFunc) (types.Decision, error) {
	logger.Debug(agent, "Decide", "Enter")
	defer logger.Debug(agent, "Decide", "Exit")

	opts := &options.DecideOptions{Probe: false}
	for _, o := range decideOptions {
		o(opts)
	}

	input, err := types.UnmarshalQuery(query)
	if err != nil {
		return types.Pending, err
	}

	decision := g.instance.Decide(ctx, input, opts)
	logger.Debugf(agent, "Decide", "returned from decide(): %s", decision)

	return decision, nil
}

// VisibleMenu returns the menu subset the role may see.
func (g *GuardImpl) VisibleMenu(ctx context.Context, role catalog.Role) (catalog.MenuTree, error) {
	menu, gerr := g.instance.VisibleMenu(ctx, role)
	if gerr != nil {
		return nil, gerr
	}
	return menu, nil
}

// AuthorizedPaths returns the flat set of paths the role may reach.
func (g *GuardImpl) AuthorizedPaths(ctx context.Context, role catalog.Role) (catalog.PathSet, error) {
	paths, gerr := g.instance.AuthorizedPaths(ctx, role)
	if gerr != nil {
		return nil, gerr
	}
	return paths, nil
}

// GetBackend returns the backend service used by this guard.
//
// The backend service provides access to catalog data including the
// menu tree and role grants. This method is primarily intended for
// advanced use cases such as introspection or debugging.
func (g *GuardImpl) GetBackend() backend.Service {
	return g.instance.GetBackend()
}
