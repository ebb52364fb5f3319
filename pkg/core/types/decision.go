//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package types defines the public input and output structures of the
// route guard: queries, decisions, and audit records.
package types

// Decision is the guard's verdict for one route query. Exactly one
// decision is produced per query.
type Decision int

const (
	// Pending defers the verdict: session restoration has not
	// completed, so neither access nor denial can be asserted yet.
	Pending Decision = iota
	// Login denies access for lack of an authenticated principal; the
	// caller should route to the sign-in flow.
	Login
	// Forbidden denies access: the principal is authenticated but its
	// role does not cover the requested path.
	Forbidden
	// Allow grants access to the requested path.
	Allow
)

var decisionNames = map[Decision]string{
	Pending:   "PENDING",
	Login:     "LOGIN",
	Forbidden: "FORBIDDEN",
	Allow:     "ALLOW",
}

func (d Decision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// Granted reports whether the decision admits the request.
func (d Decision) Granted() bool {
	return d == Allow
}
