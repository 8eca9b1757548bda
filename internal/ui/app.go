package ui

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"vetdesk/internal/api"
	"vetdesk/internal/session"
)

type screen int

const (
	screenChecking screen = iota
	screenLogin
	screenDashboard
	screenOwners
	screenPets
)

// protected indica qué pantallas exigen sesión activa. La pantalla de
// comprobación y la de login son las únicas públicas.
func (s screen) protected() bool {
	return s != screenChecking && s != screenLogin
}

type authCheckedMsg struct{ state session.State }

type loggedOutMsg struct{}

type dashboardLoadedMsg struct {
	seq    int
	owners int
	pets   int
	err    error
}

// App es el modelo raíz de bubbletea. Mantiene la pantalla actual y un
// contador de secuencia: cada navegación lo incrementa y las respuestas de
// red que llegan con una secuencia vieja se descartan.
type App struct {
	session *session.Store
	gateway *api.Client
	log     *zap.Logger

	screen screen
	seq    int
	width  int
	height int

	login  *loginModel
	owners *ownersModel
	pets   *petsModel
	status statusBar

	ownerCount  int
	petCount    int
	countsReady bool
}

func NewApp(sess *session.Store, gateway *api.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		session: sess,
		gateway: gateway,
		log:     log,
		screen:  screenChecking,
	}
	a.login = newLoginModel(a)
	a.owners = newOwnersModel(a)
	a.pets = newPetsModel(a)
	return a
}

func (a *App) Init() tea.Cmd {
	return a.checkAuth()
}

// checkAuth resuelve el estado de la sesión almacenada antes de mostrar
// cualquier contenido protegido.
func (a *App) checkAuth() tea.Cmd {
	return func() tea.Msg {
		return authCheckedMsg{state: a.session.CheckAuth()}
	}
}

// goTo cambia de pantalla. Si el destino es protegido y la sesión no está
// activa, redirige al login. Devuelve el comando de carga inicial de la
// pantalla destino.
func (a *App) goTo(target screen) tea.Cmd {
	if target.protected() && a.session.State() != session.Authenticated {
		target = screenLogin
	}
	a.seq++
	a.screen = target
	switch target {
	case screenLogin:
		a.login.reset()
		return nil
	case screenDashboard:
		a.countsReady = false
		return a.loadDashboard(a.seq)
	case screenOwners:
		return a.owners.enter(a.seq)
	case screenPets:
		return a.pets.enter(a.seq)
	default:
		return nil
	}
}

// loadDashboard trae los totales de propietarios y mascotas para las
// tarjetas del tablero.
func (a *App) loadDashboard(seq int) tea.Cmd {
	gw := a.gateway
	ctx := a.background()
	return func() tea.Msg {
		msg := dashboardLoadedMsg{seq: seq}
		owners, err := gw.ListOwners(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		pets, err := gw.ListPets(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.owners = len(owners)
		msg.pets = len(pets)
		return msg
	}
}

// newPetForOwner navega a mascotas con el formulario de alta abierto y el
// propietario pre-seleccionado.
func (a *App) newPetForOwner(ownerID int64) tea.Cmd {
	listCmd := a.goTo(screenPets)
	formCmd := a.pets.openNewForm(ownerID)
	return tea.Batch(listCmd, formCmd)
}

// stale dice si una respuesta pertenece a una pantalla que ya no es la
// actual y debe descartarse.
func (a *App) stale(seq int) bool {
	if seq != a.seq {
		a.log.Debug("discarding stale reply", zap.Int("seq", seq), zap.Int("current", a.seq))
		return true
	}
	return false
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case statusExpiredMsg:
		a.status.expire(msg)
		return a, nil

	case authCheckedMsg:
		a.log.Info("session check resolved", zap.Stringer("state", msg.state))
		if msg.state == session.Authenticated {
			return a, a.goTo(screenDashboard)
		}
		return a, a.goTo(screenLogin)

	case loggedOutMsg:
		return a, a.goTo(screenLogin)

	case dashboardLoadedMsg:
		if a.stale(msg.seq) {
			return a, nil
		}
		if msg.err != nil {
			return a, a.notify("Error al cargar los datos del tablero", true)
		}
		a.ownerCount = msg.owners
		a.petCount = msg.pets
		a.countsReady = true
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)
	}

	// Resto de mensajes: respuestas de red y resultados de formularios.
	switch a.screen {
	case screenLogin:
		return a, a.login.update(msg)
	case screenOwners:
		return a, a.owners.update(msg)
	case screenPets:
		return a, a.pets.update(msg)
	}
	return a, nil
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	// Atajos globales sólo en pantallas protegidas y fuera de diálogos.
	if a.screen.protected() && !a.modalOpen() {
		switch msg.String() {
		case "q":
			return tea.Quit
		case "o":
			return a.goTo(screenOwners)
		case "p":
			return a.goTo(screenPets)
		case "d":
			return a.goTo(screenDashboard)
		case "ctrl+l":
			a.session.Logout()
			return func() tea.Msg { return loggedOutMsg{} }
		}
	}
	switch a.screen {
	case screenLogin:
		return a.login.handleKey(msg)
	case screenOwners:
		return a.owners.handleKey(msg)
	case screenPets:
		return a.pets.handleKey(msg)
	}
	return nil
}

func (a *App) modalOpen() bool {
	switch a.screen {
	case screenOwners:
		return a.owners.modalOpen()
	case screenPets:
		return a.pets.modalOpen()
	}
	return false
}

func (a *App) View() string {
	// Guardia de ruta: el contenido protegido nunca se pinta sin sesión
	// activa, ni antes de que termine la comprobación inicial.
	if a.screen == screenChecking {
		return "\n  Comprobando sesión...\n"
	}
	if a.screen.protected() && a.session.State() != session.Authenticated {
		return a.login.view()
	}

	var body string
	switch a.screen {
	case screenLogin:
		body = a.login.view()
	case screenDashboard:
		body = a.dashboardView()
	case screenOwners:
		body = a.owners.view()
	case screenPets:
		body = a.pets.view()
	}

	status := a.status.view()
	if status != "" {
		body += "\n\n" + status
	}
	return body
}

func (a *App) dashboardView() string {
	user := a.session.Username()
	counts := "Cargando totales..."
	if a.countsReady {
		counts = lipgloss.JoinHorizontal(lipgloss.Top,
			dialogStyle.Render(fmt.Sprintf("Propietarios\n%s", focusedStyle.Render(strconv.Itoa(a.ownerCount)))),
			" ",
			dialogStyle.Render(fmt.Sprintf("Mascotas registradas\n%s", focusedStyle.Render(strconv.Itoa(a.petCount)))),
		)
	}
	lines := []string{
		titleStyle.Render("VetDesk"),
		"",
		"Sesión iniciada como " + focusedStyle.Render(user),
		"",
		counts,
		"",
		"  [o] Propietarios",
		"  [p] Mascotas",
		"",
		helpStyle.Render("ctrl+l cerrar sesión · q salir"),
	}
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (a *App) notify(message string, isError bool) tea.Cmd {
	return a.status.show(message, isError)
}

func (a *App) background() context.Context {
	return context.Background()
}
