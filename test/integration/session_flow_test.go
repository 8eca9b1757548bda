package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"vetdesk/internal/api"
	"vetdesk/internal/config"
	"vetdesk/internal/session"
	"vetdesk/internal/stubserver"
)

// Pruebas de extremo a extremo: cliente real contra el stub server real,
// sin fakes por el medio.

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := stubserver.New(config.StubConfig{
		Driver:    "sqlite",
		DSN:       fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		JWTSecret: "integration-secret-0123456789abc",
		TokenTTL:  time.Hour,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("new stub server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, ts *httptest.Server, store *session.Store) *api.Client {
	t.Helper()
	gw, err := api.New(ts.URL, 5*time.Second, store, zap.NewNop())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return gw
}

func TestLoginPersistsSessionAcrossRestart(t *testing.T) {
	ts := newStub(t)
	ctx := context.Background()

	storage := session.NewMemoryStorage("")
	store := session.NewStore(storage, nil)
	gw := newClient(t, ts, store)

	res := store.Login(ctx, gw, stubserver.DemoUsername, stubserver.DemoPassword)
	if !res.OK {
		t.Fatalf("login failed: %s", res.Message)
	}
	if store.State() != session.Authenticated {
		t.Fatalf("state = %v, want authenticated", store.State())
	}
	if tok, _ := storage.Load(); tok == "" {
		t.Fatal("token not persisted after login")
	}
	if store.Username() != stubserver.DemoUsername {
		t.Fatalf("username = %q", store.Username())
	}

	// Un arranque posterior con el mismo almacenamiento recupera la sesión
	// sin pasar por el login.
	restarted := session.NewStore(storage, nil)
	if restarted.CheckAuth() != session.Authenticated {
		t.Fatal("restart with stored token should resolve authenticated")
	}
}

func TestLogoutClearsStoredToken(t *testing.T) {
	ts := newStub(t)
	ctx := context.Background()

	storage := session.NewMemoryStorage("")
	store := session.NewStore(storage, nil)
	gw := newClient(t, ts, store)

	if res := store.Login(ctx, gw, stubserver.DemoUsername, stubserver.DemoPassword); !res.OK {
		t.Fatalf("login failed: %s", res.Message)
	}
	store.Logout()

	if tok, _ := storage.Load(); tok != "" {
		t.Fatalf("token survives logout: %q", tok)
	}
	if session.NewStore(storage, nil).CheckAuth() != session.Unauthenticated {
		t.Fatal("restart after logout should resolve unauthenticated")
	}
}

func TestBadCredentialsSurfaceServerMessage(t *testing.T) {
	ts := newStub(t)

	store := session.NewStore(session.NewMemoryStorage(""), nil)
	gw := newClient(t, ts, store)

	res := store.Login(context.Background(), gw, stubserver.DemoUsername, "wrong")
	if res.OK {
		t.Fatal("login with bad password succeeded")
	}
	if res.Message != "Credenciales inválidas" {
		t.Fatalf("message = %q", res.Message)
	}
	if store.State() != session.Unauthenticated {
		t.Fatalf("state = %v after failed login", store.State())
	}
}

func TestProtectedCallsRequireSession(t *testing.T) {
	ts := newStub(t)
	ctx := context.Background()

	store := session.NewStore(session.NewMemoryStorage(""), nil)
	gw := newClient(t, ts, store)

	if _, err := gw.ListOwners(ctx); !api.IsStatus(err, 401) {
		t.Fatalf("unauthenticated list owners: err = %v, want 401", err)
	}

	if res := store.Login(ctx, gw, stubserver.DemoUsername, stubserver.DemoPassword); !res.OK {
		t.Fatalf("login failed: %s", res.Message)
	}
	if _, err := gw.ListOwners(ctx); err != nil {
		t.Fatalf("authenticated list owners: %v", err)
	}

	// Tras el logout el token se desarma y las llamadas vuelven a 401.
	store.Logout()
	if _, err := gw.ListOwners(ctx); !api.IsStatus(err, 401) {
		t.Fatalf("post-logout list owners: err = %v, want 401", err)
	}
}
