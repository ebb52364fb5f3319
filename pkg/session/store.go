//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package session manages the authenticated session that route queries
// are evaluated against: restoring a persisted credential at startup,
// signing in and out, and exposing a consistent snapshot of readiness
// and identity.
//
// The store is the single writer of session state. Route guards never
// mutate it; they read a [Snapshot] and build queries from it.
package session

import (
	"context"
	"sync"

	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/pkg/errors"
)

// ErrSignInPending is returned by [Store.SignIn] when another sign-in
// is still in flight. The store refuses overlapping attempts rather
// than let two responses race for the credential slot.
var ErrSignInPending = errors.New("sign-in already in progress")

// Readiness reports whether session restoration has completed.
type Readiness int

const (
	// Unknown means restoration has not finished; no decision about
	// the session can be made yet.
	Unknown Readiness = iota
	// Ready means restoration has completed, with or without an
	// identity.
	Ready
)

// Identity is the authenticated staff member bound to the session.
type Identity struct {
	Subject string
	Role    string
}

// Snapshot is a consistent read of the session state. It is a value:
// mutating the store after taking a snapshot never changes it.
type Snapshot struct {
	Readiness Readiness
	Identity  *Identity
}

// Query builds a route query for the given path from this snapshot.
func (s Snapshot) Query(path string) *types.Query {
	q := &types.Query{
		Path:  path,
		Ready: s.Readiness == Ready,
	}
	if s.Identity != nil {
		q.Principal = &types.Principal{
			Subject: s.Identity.Subject,
			Role:    s.Identity.Role,
		}
	}
	return q
}

// Store owns the session state. All mutation goes through Restore,
// SignIn, and SignOut; readers take a [Snapshot].
type Store struct {
	client Client
	slot   CredentialSlot

	mu        sync.Mutex
	readiness Readiness
	identity  *Identity
	restored  bool
	signingIn bool
}

// NewStore creates a Store in the Unknown state.
func NewStore(client Client, slot CredentialSlot) *Store {
	return &Store{
		client: client,
		slot:   slot,
	}
}

// Restore resolves any persisted credential into an identity, exactly
// once per store.
//
// Restore always leaves the store Ready: a missing credential or a
// failed lookup resolves to an anonymous session, and a failed lookup
// additionally clears the credential slot so the dead token is not
// retried on the next start. The identity lookup runs outside the
// store's lock, so snapshots taken while restoration is in flight
// still observe Unknown. Subsequent calls are no-ops, as is a call on
// a store made Ready by a completed sign-in; at most one identity
// lookup is ever issued.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored || s.readiness == Ready {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	s.mu.Unlock()

	identity := s.resolvePersisted(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A sign-in that completed while the lookup was in flight wins over
	// the persisted credential.
	if s.identity == nil {
		s.identity = identity
	}
	s.readiness = Ready
	return nil
}

// resolvePersisted reads the credential slot and resolves the token
// into an identity, returning nil for an anonymous session. Runs with
// the store unlocked; the network call must not block snapshot readers.
func (s *Store) resolvePersisted(ctx context.Context) *Identity {
	token, err := s.slot.Read()
	if err != nil {
		logger.Warnf(agent, "Restore", "credential slot unreadable, starting anonymous: %+v", err)
		return nil
	}
	if token == "" {
		logger.Debug(agent, "Restore", "no persisted credential")
		return nil
	}

	principal, err := s.client.Lookup(ctx, token)
	if err != nil {
		logger.Infof(agent, "Restore", "persisted credential rejected, clearing slot: %+v", err)
		if derr := s.slot.Delete(); derr != nil {
			logger.Warnf(agent, "Restore", "failed clearing credential slot: %+v", derr)
		}
		return nil
	}

	logger.Infof(agent, "Restore", "restored session for %s (%s)", principal.Subject, principal.Role)
	return &Identity{Subject: principal.Subject, Role: principal.Role}
}

// SignIn authenticates against the identity API and, on success, binds
// the identity to the session and persists the token.
//
// The success flag reports whether authentication succeeded; failed
// credentials are not an error. Overlapping invocations return
// [ErrSignInPending]; back-to-back sequential calls each resolve
// normally.
func (s *Store) SignIn(ctx context.Context, usernameOrEmail, secret string) (bool, error) {
	s.mu.Lock()
	if s.signingIn {
		s.mu.Unlock()
		return false, ErrSignInPending
	}
	s.signingIn = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.signingIn = false
		s.mu.Unlock()
	}()

	token, principal, err := s.client.SignIn(ctx, usernameOrEmail, secret)
	if err != nil {
		logger.Infof(agent, "SignIn", "authentication failed for %s", usernameOrEmail)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Write(token); err != nil {
		logger.Warnf(agent, "SignIn", "failed persisting credential: %+v", err)
	}
	s.identity = &Identity{Subject: principal.Subject, Role: principal.Role}
	s.readiness = Ready

	logger.Infof(agent, "SignIn", "signed in %s (%s)", principal.Subject, principal.Role)
	return true, nil
}

// SignOut synchronously clears the identity and the persisted
// credential. The next snapshot taken after SignOut returns is already
// anonymous.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	if err := s.slot.Delete(); err != nil {
		logger.Warnf(agent, "SignOut", "failed clearing credential slot: %+v", err)
	}
	logger.Info(agent, "SignOut", "session cleared")
}

// Snapshot returns a consistent read of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Readiness: s.readiness}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}
