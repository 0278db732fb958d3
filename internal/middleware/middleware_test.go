package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
)

const testProcedure = "/splitledger.v1.GroupService/GetGroup"

// fakeRequest overrides Spec so interceptors see a procedure name.
type fakeRequest struct {
	*connect.Request[struct{}]
	procedure string
}

func (r fakeRequest) Spec() connect.Spec {
	return connect.Spec{Procedure: r.procedure, StreamType: connect.StreamTypeUnary}
}

func newRequest(procedure, authorization string) connect.AnyRequest {
	req := connect.NewRequest(&struct{}{})
	if authorization != "" {
		req.Header().Set("Authorization", authorization)
	}
	return fakeRequest{Request: req, procedure: procedure}
}

// capture records the member ID that reached the handler.
func capture(got *string) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*got = GetMemberID(ctx)
		return connect.NewResponse(&struct{}{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	member := models.NewMember("alice@example.com", "Alice", "hash")
	token, err := manager.Generate(member)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name          string
		procedure     string
		authorization string
		wantMember    string
		wantCode      connect.Code
	}{
		{name: "valid token", procedure: testProcedure, authorization: "Bearer " + token, wantMember: member.ID},
		{name: "lowercase scheme", procedure: testProcedure, authorization: "bearer " + token, wantMember: member.ID},
		{name: "missing header", procedure: testProcedure, wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", procedure: testProcedure, authorization: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", procedure: testProcedure, authorization: "Bearer nope", wantCode: connect.CodeUnauthenticated},
		{name: "public procedure", procedure: "/splitledger.v1.AuthService/Login"},
		{name: "public procedure with token", procedure: "/splitledger.v1.AuthService/Login", authorization: "Bearer " + token, wantMember: member.ID},
	}

	interceptor := RequireAuth(manager, "/splitledger.v1.AuthService/Login")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			_, err := interceptor(capture(&got))(context.Background(), newRequest(tt.procedure, tt.authorization))
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("Expected code %v, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.wantMember {
				t.Errorf("member: got %q, want %q", got, tt.wantMember)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	member := models.NewMember("bob@example.com", "Bob", "hash")
	token, _ := manager.Generate(member)

	var got string
	interceptor := OptionalAuth(manager)

	if _, err := interceptor(capture(&got))(context.Background(), newRequest(testProcedure, "Bearer garbage")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("Expected no member for invalid token, got %q", got)
	}

	if _, err := interceptor(capture(&got))(context.Background(), newRequest(testProcedure, "Bearer "+token)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != member.ID {
		t.Errorf("member: got %q, want %q", got, member.ID)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	interceptor := LoggingInterceptor(logger)

	failing := func(err error) connect.UnaryFunc {
		return func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
			return nil, err
		}
	}

	ctx := WithMember(context.Background(), "member-1", "m@example.com")

	_, _ = interceptor(failing(connect.NewError(connect.CodeNotFound, errors.New("group missing"))))(ctx, newRequest(testProcedure, ""))
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "member_id=member-1") {
		t.Errorf("Expected WARN line with member, got %s", out)
	}

	buf.Reset()
	_, _ = interceptor(failing(connect.NewError(connect.CodeDataLoss, errors.New("ledger does not balance"))))(ctx, newRequest(testProcedure, ""))
	if out := buf.String(); !strings.Contains(out, "level=ERROR") {
		t.Errorf("Expected ERROR line, got %s", out)
	}

	buf.Reset()
	var got string
	_, _ = interceptor(capture(&got))(ctx, newRequest(testProcedure, ""))
	if out := buf.String(); !strings.Contains(out, "RPC ok") || !strings.Contains(out, testProcedure) {
		t.Errorf("Expected ok line, got %s", out)
	}
}
