//
//  Copyright © PortalGuard Authors. All rights reserved.
//
// shared between pkg/core and internal/core, and thus must be in a separate package to avoid circular dependencies

package options

import (
	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core/backend"
	"github.com/balaipom/portalguard/pkg/core/config"
)

var logger = logging.GetLogger("portalguard")
var agent = "portalguard"

// EngineOptions defines the configuration options for initializing the
// route guard, including factories for audit logs and backends.
type EngineOptions struct {
	AuditLogFactory auditlog.Factory
	BackendFactory  backend.Factory
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithAuditLog configures the audit log stream for the guard.
func WithAuditLog(factory auditlog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.AuditLogFactory = factory
	}
}

// WithBackend configures the backend factory for the guard.
func WithBackend(factory backend.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		if config.VConfig.GetBool(config.MockEnabled) {
			logger.Warn(agent, "WithBackend", "Ignoring backend factory as mock mode is enabled")
		} else {
			o.BackendFactory = factory
		}
	}
}

// DecideOptions represents configuration options for Decide operations.
type DecideOptions struct {
	Probe bool
}

// DecideOptionsFunc is a function that modifies DecideOptions.
type DecideOptionsFunc func(*DecideOptions)

// SetProbeMode configures the probe mode for Decide operations.  Probe mode evaluates the route query but does not
// log decisions, which is helpful for returning information about what destinations a user has without impacting
// the audit trail.  For instance, if you want to show a UI user whether a navigation entry is reachable, you can run
// Decide in probe mode as if they had tried to navigate there, using the decision outcome in the display.  However,
// it would be unfair to generate an audit record that suggests that the user tried to navigate there, when really
// your service was merely testing to see if they could.
//
// Probe mode is disabled by default. Use with caution and only in places where you are sure that the decision doesn't
// require logging.
func SetProbeMode(probe bool) DecideOptionsFunc {
	return func(o *DecideOptions) {
		o.Probe = probe
	}
}
