//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu      sync.Mutex
	lookups int

	lookupPrincipal *types.Principal
	lookupErr       error

	signInToken     string
	signInPrincipal *types.Principal
	signInErr       error

	// When non-nil, Lookup signals lookupStarted and then blocks until
	// lookupRelease is closed. SignIn works the same way with its own
	// pair.
	lookupStarted chan struct{}
	lookupRelease chan struct{}
	signInStarted chan struct{}
	signInRelease chan struct{}
}

func (f *fakeClient) Lookup(ctx context.Context, token string) (*types.Principal, error) {
	f.mu.Lock()
	f.lookups++
	f.mu.Unlock()
	if f.lookupStarted != nil {
		f.lookupStarted <- struct{}{}
		<-f.lookupRelease
	}
	return f.lookupPrincipal, f.lookupErr
}

func (f *fakeClient) SignIn(ctx context.Context, user, secret string) (string, *types.Principal, error) {
	if f.signInStarted != nil {
		f.signInStarted <- struct{}{}
		<-f.signInRelease
	}
	return f.signInToken, f.signInPrincipal, f.signInErr
}

func (f *fakeClient) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func TestStore_StartsUnknown(t *testing.T) {
	store := NewStore(&fakeClient{}, NewMemorySlot())

	snap := store.Snapshot()
	assert.Equal(t, Unknown, snap.Readiness)
	assert.Nil(t, snap.Identity)

	// Queries built before restoration carry Ready=false.
	q := snap.Query("/dashboard")
	assert.False(t, q.Ready)
	assert.Nil(t, q.Principal)
}

func TestStore_RestoreWithoutCredential(t *testing.T) {
	client := &fakeClient{}
	store := NewStore(client, NewMemorySlot())

	require.NoError(t, store.Restore(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness)
	assert.Nil(t, snap.Identity)
	assert.Equal(t, 0, client.lookupCount(), "no credential means no lookup")
}

func TestStore_RestoreResolvesCredential(t *testing.T) {
	client := &fakeClient{
		lookupPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
	}
	slot := NewMemorySlot()
	require.NoError(t, slot.Write("tok-123"))
	store := NewStore(client, slot)

	require.NoError(t, store.Restore(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "Admin Web", snap.Identity.Role)

	q := snap.Query("/dashboard")
	assert.True(t, q.Ready)
	require.NotNil(t, q.Principal)
	assert.Equal(t, "siti@balaipom.go.id", q.Principal.Subject)
}

func TestStore_RestoreIsIdempotent(t *testing.T) {
	client := &fakeClient{
		lookupPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
	}
	slot := NewMemorySlot()
	require.NoError(t, slot.Write("tok-123"))
	store := NewStore(client, slot)

	require.NoError(t, store.Restore(context.Background()))
	require.NoError(t, store.Restore(context.Background()))
	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, 1, client.lookupCount(), "at most one lookup per store")
}

func TestStore_SnapshotDuringRestoreObservesUnknown(t *testing.T) {
	client := &fakeClient{
		lookupPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
		lookupStarted:   make(chan struct{}),
		lookupRelease:   make(chan struct{}),
	}
	slot := NewMemorySlot()
	require.NoError(t, slot.Write("tok-123"))
	store := NewStore(client, slot)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Restore(context.Background()))
	}()

	// Wait until restoration is inside the identity lookup.
	select {
	case <-client.lookupStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("restore never reached the client")
	}

	// The lookup is still in flight; readers must see the loading
	// state rather than block on the store.
	snap := store.Snapshot()
	assert.Equal(t, Unknown, snap.Readiness)
	assert.Nil(t, snap.Identity)

	close(client.lookupRelease)
	wg.Wait()

	snap = store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "Admin Web", snap.Identity.Role)
}

func TestStore_RestoreAfterSignInIsNoOp(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok-456",
		signInPrincipal: &types.Principal{Subject: "kepala@balaipom.go.id", Role: "Kepala Balai"},
	}
	store := NewStore(client, NewMemorySlot())

	ok, err := store.SignIn(context.Background(), "kepala", "rahasia")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Restore(context.Background()))

	assert.Equal(t, 0, client.lookupCount(), "a ready session needs no lookup")
	snap := store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "kepala@balaipom.go.id", snap.Identity.Subject)
}

func TestStore_RestoreFailureClearsSlot(t *testing.T) {
	client := &fakeClient{lookupErr: ErrLookupFailed}
	slot := NewMemorySlot()
	require.NoError(t, slot.Write("stale-token"))
	store := NewStore(client, slot)

	require.NoError(t, store.Restore(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness, "failed restore still ends Ready")
	assert.Nil(t, snap.Identity)

	token, err := slot.Read()
	require.NoError(t, err)
	assert.Empty(t, token, "dead token must not be retried on next start")
}

func TestStore_SignIn(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok-456",
		signInPrincipal: &types.Principal{Subject: "kepala@balaipom.go.id", Role: "Kepala Balai"},
	}
	slot := NewMemorySlot()
	store := NewStore(client, slot)

	ok, err := store.SignIn(context.Background(), "kepala", "rahasia")
	require.NoError(t, err)
	assert.True(t, ok)

	snap := store.Snapshot()
	assert.Equal(t, Ready, snap.Readiness)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "Kepala Balai", snap.Identity.Role)

	token, err := slot.Read()
	require.NoError(t, err)
	assert.Equal(t, "tok-456", token)
}

func TestStore_SignInFailureIsNotAnError(t *testing.T) {
	client := &fakeClient{signInErr: ErrSignInFailed}
	store := NewStore(client, NewMemorySlot())

	ok, err := store.SignIn(context.Background(), "siti", "salah")
	require.NoError(t, err)
	assert.False(t, ok)

	snap := store.Snapshot()
	assert.Nil(t, snap.Identity)
}

func TestStore_OverlappingSignInRejected(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok-789",
		signInPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
		signInStarted:   make(chan struct{}),
		signInRelease:   make(chan struct{}),
	}
	store := NewStore(client, NewMemorySlot())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ok, err := store.SignIn(context.Background(), "siti", "rahasia")
		assert.NoError(t, err)
		assert.True(t, ok)
	}()

	// Wait until the first sign-in is inside the client call.
	select {
	case <-client.signInStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("first sign-in never reached the client")
	}

	ok, err := store.SignIn(context.Background(), "siti", "rahasia")
	assert.ErrorIs(t, err, ErrSignInPending)
	assert.False(t, ok)

	close(client.signInRelease)
	wg.Wait()
}

func TestStore_BackToBackSignIn(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok-1",
		signInPrincipal: &types.Principal{Subject: "a@balaipom.go.id", Role: "Admin Web"},
	}
	store := NewStore(client, NewMemorySlot())

	ok, err := store.SignIn(context.Background(), "a", "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	client.signInToken = "tok-2"
	client.signInPrincipal = &types.Principal{Subject: "b@balaipom.go.id", Role: "Kepala Balai"}

	ok, err = store.SignIn(context.Background(), "b", "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	snap := store.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "b@balaipom.go.id", snap.Identity.Subject)
}

func TestStore_SignOut(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok-456",
		signInPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
	}
	slot := NewMemorySlot()
	store := NewStore(client, slot)

	ok, err := store.SignIn(context.Background(), "siti", "rahasia")
	require.NoError(t, err)
	require.True(t, ok)

	store.SignOut()

	snap := store.Snapshot()
	assert.Nil(t, snap.Identity)

	token, err := slot.Read()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSnapshot_IsValueCopy(t *testing.T) {
	client := &fakeClient{
		signInToken:     "tok",
		signInPrincipal: &types.Principal{Subject: "siti@balaipom.go.id", Role: "Admin Web"},
	}
	store := NewStore(client, NewMemorySlot())

	ok, err := store.SignIn(context.Background(), "siti", "rahasia")
	require.NoError(t, err)
	require.True(t, ok)

	snap := store.Snapshot()
	store.SignOut()

	// The earlier snapshot is unaffected by the later sign-out.
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "siti@balaipom.go.id", snap.Identity.Subject)
}
