//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package decisionpoint provides interfaces and implementations for
// route decision point servers.
//
// A decision point server exposes the route guard as a network service
// that enforcement points (the portal's web tier, an edge proxy) can
// call to decide whether a request may reach a dashboard path.
//
// # Available Implementations
//
// The following decision point server implementations are available:
//   - [generic]: HTTP/REST server for the portal's web tier
//   - [envoy]: External authorization server for Envoy proxy
//
// # Usage
//
// Create and start a decision point server:
//
//	guard, _ := core.NewLocalGuard(bundles)
//	server, _ := generic.CreateServer(guard, 8080)
//	defer server.Stop(ctx)
package decisionpoint

import "context"

// Server is the interface for decision point servers that can be
// gracefully stopped.
//
// Implementations must ensure that [Stop] completes any in-flight requests
// before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
