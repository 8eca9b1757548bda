package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vetdesk/internal/api"
	"vetdesk/internal/security"
	"vetdesk/internal/session"
)

func newTestApp(t *testing.T, storedToken string) *App {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(storedToken), nil)
	gw, err := api.New("http://localhost:9", time.Second, store, nil)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return NewApp(store, gw, nil)
}

func validToken(t *testing.T) string {
	t.Helper()
	token, err := security.NewSigner("vetdesk-test", "secret").Sign("vet", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestViewDuringStartupCheckIsNeutral(t *testing.T) {
	app := newTestApp(t, validToken(t))

	view := app.View()
	if !strings.Contains(view, "Comprobando sesión") {
		t.Fatalf("expected checking view before auth resolves, got %q", view)
	}
	if strings.Contains(view, "Propietarios") || strings.Contains(view, "VetDesk · Iniciar sesión") {
		t.Fatalf("neither protected content nor login may render while checking: %q", view)
	}
}

func TestAuthCheckRoutesToDashboard(t *testing.T) {
	app := newTestApp(t, validToken(t))

	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	if app.screen != screenDashboard {
		t.Fatalf("screen = %v, want dashboard", app.screen)
	}
	if !strings.Contains(app.View(), "Sesión iniciada como") {
		t.Fatalf("dashboard view missing session banner")
	}
}

func TestDashboardShowsEntityCounts(t *testing.T) {
	app := newTestApp(t, validToken(t))
	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	if view := app.View(); !strings.Contains(view, "Cargando totales") {
		t.Fatalf("dashboard should show a loading placeholder before counts arrive: %q", view)
	}

	model, _ = app.Update(dashboardLoadedMsg{seq: app.seq, owners: 3, pets: 7})
	app = model.(*App)
	view := app.View()
	for _, want := range []string{"Propietarios", "3", "Mascotas registradas", "7"} {
		if !strings.Contains(view, want) {
			t.Fatalf("dashboard view missing %q: %q", want, view)
		}
	}

	// Una respuesta con secuencia vieja no pisa los totales actuales.
	model, _ = app.Update(dashboardLoadedMsg{seq: app.seq - 1, owners: 99, pets: 99})
	app = model.(*App)
	if view := app.View(); strings.Contains(view, "99") {
		t.Fatalf("stale dashboard reply overwrote counts: %q", view)
	}
}

func TestAuthCheckWithoutTokenRoutesToLogin(t *testing.T) {
	app := newTestApp(t, "")

	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	if app.screen != screenLogin {
		t.Fatalf("screen = %v, want login", app.screen)
	}
}

func TestProtectedScreenNeverRendersUnauthenticated(t *testing.T) {
	app := newTestApp(t, "")
	app.session.CheckAuth()

	// Aunque el modelo apunte a una pantalla protegida, la vista redirige
	// al login mientras no haya sesión.
	app.screen = screenOwners
	view := app.View()
	if !strings.Contains(view, "Iniciar sesión") {
		t.Fatalf("expected login view, got %q", view)
	}

	// Y la navegación a una pantalla protegida también redirige.
	app.goTo(screenPets)
	if app.screen != screenLogin {
		t.Fatalf("goTo(pets) without session landed on %v, want login", app.screen)
	}
}

func TestLoginFocusCyclesBothWays(t *testing.T) {
	app := newTestApp(t, "")
	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	login := app.login
	if login.focus != 0 {
		t.Fatalf("initial focus = %d, want 0", login.focus)
	}
	login.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if login.focus != 1 {
		t.Fatalf("focus after tab = %d, want 1", login.focus)
	}
	login.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if login.focus != 0 {
		t.Fatalf("focus after shift+tab = %d, want 0", login.focus)
	}
	// Desde el primer campo, retroceder envuelve al último.
	login.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if login.focus != 1 {
		t.Fatalf("focus after wrap = %d, want 1", login.focus)
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	app := newTestApp(t, validToken(t))
	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	app.session.Logout()
	model, _ = app.Update(loggedOutMsg{})
	app = model.(*App)

	if app.screen != screenLogin {
		t.Fatalf("screen after logout = %v, want login", app.screen)
	}
	if app.session.Token() != "" {
		t.Fatalf("token still armed after logout")
	}
}

func TestStaleRepliesAreDiscarded(t *testing.T) {
	app := newTestApp(t, validToken(t))
	model, _ := app.Update(authCheckedMsg{state: app.session.CheckAuth()})
	app = model.(*App)

	app.goTo(screenOwners)
	oldSeq := app.seq
	app.goTo(screenPets)

	// Una respuesta de la pantalla anterior no debe tocar el estado actual.
	if !app.stale(oldSeq) {
		t.Fatalf("reply from a previous screen must be stale")
	}
	if !app.stale(oldSeq - 1) {
		t.Fatalf("older replies must be stale too")
	}
	if app.stale(app.seq) {
		t.Fatalf("current sequence must not be stale")
	}
}
