//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package core

import (
	"context"
	"time"

	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/catalog"
	"github.com/balaipom/portalguard/pkg/common"
	"github.com/balaipom/portalguard/pkg/core/auditlog"
	"github.com/balaipom/portalguard/pkg/core/backend"
	"github.com/balaipom/portalguard/pkg/core/config"
	"github.com/balaipom/portalguard/pkg/core/options"
	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/google/uuid"
)

// Guard evaluates route queries against the catalog served by the
// configured backend and emits one audit record per decision.
type Guard struct {
	audit   auditlog.Stream
	backend backend.Service
}

var logger = logging.GetLogger("portalguard")

const agent string = "portalguard"

// NewGuard returns a Guard instance.
func NewGuard(engineOptions *options.EngineOptions) (*Guard, error) {
	al, err := engineOptions.AuditLogFactory.NewStream()
	if err != nil {
		return nil, err
	}

	be, err := engineOptions.BackendFactory.NewBackend()
	if err != nil {
		return nil, err
	}

	return &Guard{
		audit:   al,
		backend: be,
	}, nil
}

func (g *Guard) auditDecision(dos *options.DecideOptions, record *types.AccessRecord, reason string) {
	record.Reason = reason

	if logger.IsDebugEnabled() {
		logger.Debugf(agent, "auditDecision", "path: %s, reason: %s, options: %+v", record.Path, reason, dos)
		logger.Debug(agent, "auditDecision", "access record:")
		common.PrettyPrint(record)
	}

	if g.audit != nil && !dos.Probe {
		err := g.audit.Send(record)
		if err != nil {
			logger.Errorf(agent, "auditDecision", "unable to send message for auditlog %+v", err)
		}
	}
}

// Decide evaluates one route query and returns the verdict.
//
// The evaluation order is fixed:
//
//  1. Session not ready: Pending. Readiness dominates every other
//     consideration, so a stale route is never granted or denied before
//     restoration completes.
//  2. No principal: Login. Authentication is checked before
//     jurisdiction, so anonymous visitors are routed to sign-in even
//     for paths the guard does not govern.
//  3. Path not governed: Allow. The guard holds no opinion on routes
//     outside the catalog.
//  4. Path covered by the role's authorized set: Allow; otherwise
//     Forbidden.
//
// Every evaluation emits exactly one audit record, probe mode excepted.
func (g *Guard) Decide(ctx context.Context, query *types.Query, decideOptions *options.DecideOptions) types.Decision {
	logger.Debug(agent, "decide", "Enter")
	defer logger.Debug(agent, "decide", "Exit")

	ar := &types.AccessRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Path:      query.Path,
		Metadata:  config.GetAuditEnv(),
	}
	if query.Principal != nil {
		ar.Subject = query.Principal.Subject
		ar.Role = query.Principal.Role
	}

	decision := types.Pending
	reason := ""

	// -------------------------- NOTE: all returns audited -----------------
	defer func() {
		ar.Decision = decision.String()
		g.auditDecision(decideOptions, ar, reason)
	}()

	if !query.Ready {
		reason = "session restoration pending"
		return decision
	}

	if query.Principal == nil {
		decision = types.Login
		reason = "no authenticated principal"
		return decision
	}

	tree, gerr := g.backend.MenuTree(ctx)
	if gerr != nil {
		logger.Errorf(agent, "decide", "error getting menu tree: %+v", gerr)
		decision = types.Forbidden
		reason = gerr.Error()
		return decision
	}

	if !catalog.GovernedPaths(tree).Covers(query.Path) {
		decision = types.Allow
		reason = "path not governed"
		return decision
	}

	permitted, gerr := g.backend.PermittedKeys(ctx, catalog.Role(query.Principal.Role))
	if gerr != nil {
		logger.Errorf(agent, "decide", "error getting permitted keys: %+v", gerr)
		decision = types.Forbidden
		reason = gerr.Error()
		return decision
	}

	if catalog.AuthorizedPaths(tree, permitted).Covers(query.Path) {
		decision = types.Allow
		reason = "path authorized for role"
	} else {
		decision = types.Forbidden
		reason = "path not authorized for role"
	}

	return decision
}

// VisibleMenu returns the menu subset the role may see. No audit record
// is emitted; rendering a menu is not a navigation attempt.
func (g *Guard) VisibleMenu(ctx context.Context, role catalog.Role) (catalog.MenuTree, *common.GuardError) {
	tree, gerr := g.backend.MenuTree(ctx)
	if gerr != nil {
		return nil, gerr
	}

	permitted, gerr := g.backend.PermittedKeys(ctx, role)
	if gerr != nil {
		return nil, gerr
	}

	return catalog.VisibleMenu(tree, permitted), nil
}

// AuthorizedPaths returns the flat set of paths the role may reach.
func (g *Guard) AuthorizedPaths(ctx context.Context, role catalog.Role) (catalog.PathSet, *common.GuardError) {
	tree, gerr := g.backend.MenuTree(ctx)
	if gerr != nil {
		return nil, gerr
	}

	permitted, gerr := g.backend.PermittedKeys(ctx, role)
	if gerr != nil {
		return nil, gerr
	}

	return catalog.AuthorizedPaths(tree, permitted), nil
}

// GetBackend returns the backend service used by this guard.
func (g *Guard) GetBackend() backend.Service {
	return g.backend
}
