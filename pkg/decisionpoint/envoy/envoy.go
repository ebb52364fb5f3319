//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package envoy

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	corev3 "github.com/envoyproxy/go-control-plane/envoy/config/core/v3"
	authv3 "github.com/envoyproxy/go-control-plane/envoy/service/auth/v3"
	typev3 "github.com/envoyproxy/go-control-plane/envoy/type/v3"
	"github.com/balaipom/portalguard/internal/logging"
	"github.com/balaipom/portalguard/pkg/core/types"
	"github.com/balaipom/portalguard/pkg/decisionpoint"
	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/balaipom/portalguard/pkg/core"
)

var logger = logging.GetLogger("portalguard.decisionpoint")

const agent string = "envoy"

const (
	resultHeader   = "x-portalguard-check-result"
	receivedHeader = "x-portalguard-check-received"
	resultAllowed  = "allowed"
	resultDenied   = "denied"
	resultLogin    = "login"

	bearerPrefix = "Bearer "
)

// IdentityResolver turns a bearer token into a principal. The session
// package's identity client satisfies this interface.
type IdentityResolver interface {
	Lookup(ctx context.Context, token string) (*types.Principal, error)
}

func returnIfNotTooLong(body string) string {
	// Maximum size of a header accepted by Envoy is 60KiB, so when the request body is bigger than 60KB,
	// we don't return it in a response header to avoid rejecting it by Envoy and returning 431 to the client
	if len(body) > 60000 {
		return "<too-long>"
	}
	return body
}

// ExtAuthzServer implements the ext_authz v3 gRPC check request API.
type ExtAuthzServer struct {
	grpcServer *grpc.Server
	guard      core.Guard
	resolver   IdentityResolver
	signInURL  string

	// For test only
	grpcPort chan int
}

func logRequest(result string, request *authv3.CheckRequest) {
	httpAttrs := request.GetAttributes().GetRequest().GetHttp()
	logger.Tracef(agent, "logRequest", "[gRPCv3][%s]: %s%s, attributes: %v", result, httpAttrs.GetHost(),
		httpAttrs.GetPath(),
		request.GetAttributes())
}

func (s *ExtAuthzServer) allow(request *authv3.CheckRequest) *authv3.CheckResponse {
	logRequest(resultAllowed, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_OkResponse{
			OkResponse: &authv3.OkHttpResponse{
				Headers: []*corev3.HeaderValueOption{
					{
						Header: &corev3.HeaderValue{
							Key:   resultHeader,
							Value: resultAllowed,
						},
					},
					{
						Header: &corev3.HeaderValue{
							Key:   receivedHeader,
							Value: returnIfNotTooLong(request.GetAttributes().String()),
						},
					},
				},
			},
		},
		Status: &status.Status{Code: int32(codes.OK)},
	}
}

func (s *ExtAuthzServer) deny(request *authv3.CheckRequest) *authv3.CheckResponse {
	logRequest(resultDenied, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_DeniedResponse{
			DeniedResponse: &authv3.DeniedHttpResponse{
				Status: &typev3.HttpStatus{Code: typev3.StatusCode_Forbidden},
				Body:   "permission denied",
				Headers: []*corev3.HeaderValueOption{
					{
						Header: &corev3.HeaderValue{
							Key:   resultHeader,
							Value: resultDenied,
						},
					},
				},
			},
		},
		Status: &status.Status{Code: int32(codes.PermissionDenied)},
	}
}

// redirectToSignIn answers a Login decision with a 302 so the browser
// lands on the sign-in page instead of a bare 403.
func (s *ExtAuthzServer) redirectToSignIn(request *authv3.CheckRequest) *authv3.CheckResponse {
	logRequest(resultLogin, request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_DeniedResponse{
			DeniedResponse: &authv3.DeniedHttpResponse{
				Status: &typev3.HttpStatus{Code: typev3.StatusCode_Found},
				Headers: []*corev3.HeaderValueOption{
					{
						Header: &corev3.HeaderValue{
							Key:   "location",
							Value: s.signInURL,
						},
					},
					{
						Header: &corev3.HeaderValue{
							Key:   resultHeader,
							Value: resultLogin,
						},
					},
				},
			},
		},
		Status: &status.Status{Code: int32(codes.Unauthenticated)},
	}
}

func (s *ExtAuthzServer) unavailable(request *authv3.CheckRequest) *authv3.CheckResponse {
	logRequest("pending", request)
	return &authv3.CheckResponse{
		HttpResponse: &authv3.CheckResponse_DeniedResponse{
			DeniedResponse: &authv3.DeniedHttpResponse{
				Status: &typev3.HttpStatus{Code: typev3.StatusCode_ServiceUnavailable},
				Body:   "decision pending",
			},
		},
		Status: &status.Status{Code: int32(codes.Unavailable)},
	}
}

// requestPath extracts the route path from the check request, without
// any query string.
func requestPath(request *authv3.CheckRequest) string {
	path := request.GetAttributes().GetRequest().GetHttp().GetPath()
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// principalFor resolves the bearer token carried in the authorization
// header. A missing, malformed, or stale token yields an anonymous
// principal; the route decision then comes back as Login.
func (s *ExtAuthzServer) principalFor(ctx context.Context, request *authv3.CheckRequest) *types.Principal {
	auth := request.GetAttributes().GetRequest().GetHttp().GetHeaders()["authorization"]
	if !strings.HasPrefix(auth, bearerPrefix) {
		return nil
	}

	principal, err := s.resolver.Lookup(ctx, strings.TrimPrefix(auth, bearerPrefix))
	if err != nil {
		logger.Debugf(agent, "principalFor", "token lookup failed, treating as anonymous: %v", err)
		return nil
	}
	return principal
}

// Check implements gRPC v3 check request.
func (s *ExtAuthzServer) Check(ctx context.Context, request *authv3.CheckRequest) (*authv3.CheckResponse, error) {
	query := &types.Query{
		Path:      requestPath(request),
		Ready:     true,
		Principal: s.principalFor(ctx, request),
	}

	decision, err := s.guard.Decide(ctx, query)
	if err != nil {
		return nil, err
	}

	switch decision {
	case types.Allow:
		return s.allow(request), nil
	case types.Login:
		return s.redirectToSignIn(request), nil
	case types.Pending:
		return s.unavailable(request), nil
	default:
		return s.deny(request), nil
	}
}

func (s *ExtAuthzServer) startGRPC(address string, wg *sync.WaitGroup) {
	logger.Infof(agent, "start", "Starting Envoy External Authorization gRPC server on %s", address)
	defer func() {
		wg.Done()
		logger.SysInfof("Stopped gRPC server")
	}()

	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Fatalf(agent, "net.listen", "Failed to start gRPC server: %v", err)
		return
	}

	s.grpcServer = grpc.NewServer()
	authv3.RegisterAuthorizationServer(s.grpcServer, s)

	// Store the port for test only. Must be after grpcServer is set to avoid race condition.
	s.grpcPort <- listener.Addr().(*net.TCPAddr).Port

	logger.SysInfof("Starting gRPC server at %s", listener.Addr())
	if err := s.grpcServer.Serve(listener); err != nil {
		logger.Fatalf(agent, "grpc.start", "Failed to serve gRPC server: %v", err)
		return
	}
}

func (s *ExtAuthzServer) run(grpcAddr string) {
	var wg sync.WaitGroup
	wg.Add(1)
	go s.startGRPC(grpcAddr, &wg)
	wg.Wait()
}

// CreateServer creates and starts a new Envoy External Authorization server.
// It returns a Server interface that implements the decisionpoint.Server interface.
// Bearer tokens on incoming requests are resolved to principals via the
// given resolver; requests without a valid token are redirected to signInURL.
func CreateServer(guard core.Guard, port int, resolver IdentityResolver, signInURL string) (decisionpoint.Server, error) {
	if signInURL == "" {
		signInURL = "/login"
	}

	s := &ExtAuthzServer{
		grpcPort:  make(chan int, 1),
		guard:     guard,
		resolver:  resolver,
		signInURL: signInURL,
	}

	go s.run(fmt.Sprintf(":%d", port))

	return s, nil
}

// Stop gracefully stops the ExtAuthzServer by stopping the underlying gRPC server.
func (s *ExtAuthzServer) Stop(ctx context.Context) error {
	s.grpcServer.Stop()
	logger.SysInfof("GRPC server stopped")

	return nil
}
