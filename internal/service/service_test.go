package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// testMemberHeader lets a test act as someone other than the default member.
const testMemberHeader = "X-Test-Member"

// testAuthInterceptor returns a Connect interceptor that sets a test member ID in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			member := req.Header().Get(testMemberHeader)
			if member == "" {
				member = "alice"
			}
			if member != "-" {
				ctx = context.WithValue(ctx, middleware.MemberIDKey, member)
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	store    *sqlite.SQLiteStore
	metrics  *metrics.Metrics
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T, publisher events.Publisher) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.New(nil)
	balances := NewBalances(store, time.Minute, m)

	authInterceptor := connect.WithInterceptors(testAuthInterceptor())
	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(NewGroupService(store, balances), authInterceptor)
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(NewExpenseService(store, balances, publisher), authInterceptor)

	mux := http.NewServeMux()
	mux.Handle(groupPath, groupHandler)
	mux.Handle(expensePath, expenseHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:    store,
		metrics:  m,
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

// as makes req run as member. "-" sends no member at all.
func as[T any](member string, req *connect.Request[T]) *connect.Request[T] {
	req.Header().Set(testMemberHeader, member)
	return req
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code: expected %v, got %v (%v)", want, got, err)
	}
}

func requireAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got.StringFixed(2))
	}
}
