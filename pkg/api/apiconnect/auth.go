package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "splitledger.v1.AuthService"

const (
	AuthServiceRegisterProcedure         = "/splitledger.v1.AuthService/Register"
	AuthServiceLoginProcedure            = "/splitledger.v1.AuthService/Login"
	AuthServiceGetCurrentMemberProcedure = "/splitledger.v1.AuthService/GetCurrentMember"
)

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentMember(context.Context, *connect.Request[api.GetCurrentMemberRequest]) (*connect.Response[api.GetCurrentMemberResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetCurrentMemberProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentMemberProcedure, svc.GetCurrentMember, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for the auth service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentMember(context.Context, *connect.Request[api.GetCurrentMemberRequest]) (*connect.Response[api.GetCurrentMemberResponse], error)
}

type authServiceClient struct {
	register         *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login            *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentMember *connect.Client[api.GetCurrentMemberRequest, api.GetCurrentMemberResponse]
}

// NewAuthServiceClient constructs a client for the auth service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &authServiceClient{
		register:         connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:            connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentMember: connect.NewClient[api.GetCurrentMemberRequest, api.GetCurrentMemberResponse](httpClient, baseURL+AuthServiceGetCurrentMemberProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentMember(ctx context.Context, req *connect.Request[api.GetCurrentMemberRequest]) (*connect.Response[api.GetCurrentMemberResponse], error) {
	return c.getCurrentMember.CallUnary(ctx, req)
}
