//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/core/config"
	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("portalguard.session")
var agent = "session"

// ErrLookupFailed is returned by [Client.Lookup] for every failure
// mode. Transport errors, non-2xx statuses, and malformed responses
// are deliberately indistinguishable: a failed lookup always resolves
// to an anonymous session, never to a different code path.
var ErrLookupFailed = errors.New("identity lookup failed")

// ErrSignInFailed is returned by [Client.SignIn] for every failure
// mode, for the same reason as [ErrLookupFailed].
var ErrSignInFailed = errors.New("sign-in failed")

// Client resolves credentials against the portal identity API.
//
// Implementations must be safe for concurrent use.
type Client interface {
	// Lookup resolves a stored token to the principal it belongs to.
	// Any failure returns [ErrLookupFailed].
	Lookup(ctx context.Context, token string) (*types.Principal, error)

	// SignIn exchanges a username (or email) and secret for a fresh
	// token and its principal. Any failure returns [ErrSignInFailed].
	SignIn(ctx context.Context, usernameOrEmail, secret string) (string, *types.Principal, error)
}

// HTTPClient implements [Client] against the portal identity API over
// HTTP. The base URL and request timeout come from the identity.url
// and identity.timeout configuration keys.
type HTTPClient struct {
	base string
	http *http.Client
}

// NewHTTPClient creates an [HTTPClient] from the loaded configuration.
func NewHTTPClient() *HTTPClient {
	timeout, err := time.ParseDuration(config.VConfig.GetString(config.IdentityTimeout))
	if err != nil {
		logger.SysWarnf("invalid identity.timeout, using 10s: %+v", err)
		timeout = 10 * time.Second
	}

	return NewHTTPClientWithBase(config.VConfig.GetString(config.IdentityURL), timeout)
}

// NewHTTPClientWithBase creates an [HTTPClient] against an explicit
// base URL, bypassing configuration. Intended for tests.
func NewHTTPClientWithBase(base string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		base: base,
		http: &http.Client{Timeout: timeout},
	}
}

type identityResponse struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token   string `json:"token"`
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Lookup resolves a token via GET /auth/me.
func (c *HTTPClient) Lookup(ctx context.Context, token string) (*types.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/auth/me", nil)
	if err != nil {
		logger.Debugf(agent, "Lookup", "building request: %+v", err)
		return nil, ErrLookupFailed
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debugf(agent, "Lookup", "transport error: %+v", err)
		return nil, ErrLookupFailed
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debugf(agent, "Lookup", "unexpected status: %s", resp.Status)
		return nil, ErrLookupFailed
	}

	var body identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Debugf(agent, "Lookup", "decoding response: %+v", err)
		return nil, ErrLookupFailed
	}

	return &types.Principal{Subject: body.Subject, Role: body.Role}, nil
}

// SignIn exchanges credentials via POST /auth/login.
func (c *HTTPClient) SignIn(ctx context.Context, usernameOrEmail, secret string) (string, *types.Principal, error) {
	payload, err := json.Marshal(signInRequest{Username: usernameOrEmail, Password: secret})
	if err != nil {
		return "", nil, ErrSignInFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		logger.Debugf(agent, "SignIn", "building request: %+v", err)
		return "", nil, ErrSignInFailed
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debugf(agent, "SignIn", "transport error: %+v", err)
		return "", nil, ErrSignInFailed
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debugf(agent, "SignIn", "unexpected status: %s", resp.Status)
		return "", nil, ErrSignInFailed
	}

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Debugf(agent, "SignIn", "decoding response: %+v", err)
		return "", nil, ErrSignInFailed
	}
	if body.Token == "" {
		logger.Debug(agent, "SignIn", "response carried no token")
		return "", nil, ErrSignInFailed
	}

	return body.Token, &types.Principal{Subject: body.Subject, Role: body.Role}, nil
}

var _ Client = (*HTTPClient)(nil)
