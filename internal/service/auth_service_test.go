package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

func setupAuthTestServer(t *testing.T) apiconnect.AuthServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	svc := NewAuthService(authenticator, jwtManager, store, nil)

	path, handler := apiconnect.NewAuthServiceHandler(svc, connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func withToken[T any](token string, req *connect.Request[T]) *connect.Request[T] {
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthService(t *testing.T) {
	client := setupAuthTestServer(t)
	ctx := context.Background()

	registered, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.Msg.Token == "" || registered.Msg.Member.ID == "" {
		t.Fatalf("expected token and member, got %+v", registered.Msg)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "alice@example.com", DisplayName: "Alice", Password: "correct horse",
		}))
		requireCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "bob@example.com", DisplayName: "Bob", Password: "short",
		}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "correct horse",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.Member.ID != registered.Msg.Member.ID {
			t.Errorf("expected the registered member, got %s", resp.Msg.Member.ID)
		}

		_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "alice@example.com", Password: "wrong horse",
		}))
		requireCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("current member", func(t *testing.T) {
		resp, err := client.GetCurrentMember(ctx, withToken(registered.Msg.Token, connect.NewRequest(&api.GetCurrentMemberRequest{})))
		if err != nil {
			t.Fatalf("GetCurrentMember failed: %v", err)
		}
		if resp.Msg.Member.Email != "alice@example.com" || resp.Msg.Member.DisplayName != "Alice" {
			t.Errorf("unexpected member: %+v", resp.Msg.Member)
		}

		_, err = client.GetCurrentMember(ctx, connect.NewRequest(&api.GetCurrentMemberRequest{}))
		requireCode(t, err, connect.CodeUnauthenticated)
	})
}
