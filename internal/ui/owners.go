package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vetdesk/internal/controller"
	"vetdesk/internal/domain"
)

type ownersMode int

const (
	ownersBrowsing ownersMode = iota
	ownersSearching
	ownersDetail
	ownersForm
	ownersConfirm
)

type ownersRefreshedMsg struct {
	seq     int
	outcome controller.Outcome
}

type ownerDetailMsg struct {
	seq   int
	owner domain.Owner
	err   error
}

type ownerEditMsg struct {
	seq   int
	owner domain.Owner
	err   error
}

type ownerSavedMsg struct {
	seq     int
	outcome controller.Outcome
	err     error
}

type ownerDeletedMsg struct {
	seq     int
	outcome controller.Outcome
}

type ownersModel struct {
	app     *App
	list    *controller.ListController[domain.Owner]
	mode    ownersMode
	cursor  int
	search  textField
	loading bool
	prompt  string
	detail  domain.Owner
	form    *ownerFormModel
}

func newOwnersModel(app *App) *ownersModel {
	return &ownersModel{
		app:    app,
		list:   controller.NewOwnerList(app.gateway),
		search: textField{label: "Buscar"},
	}
}

func (m *ownersModel) enter(seq int) tea.Cmd {
	m.mode = ownersBrowsing
	m.cursor = 0
	m.loading = true
	return m.refresh(seq)
}

func (m *ownersModel) refresh(seq int) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		out := m.list.Refresh(app.background())
		return ownersRefreshedMsg{seq: seq, outcome: out}
	}
}

func (m *ownersModel) modalOpen() bool {
	return m.mode != ownersBrowsing
}

func (m *ownersModel) selected() (domain.Owner, bool) {
	items := m.list.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Owner{}, false
	}
	return items[m.cursor], true
}

func (m *ownersModel) clampCursor() {
	if n := len(m.list.Items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ownersModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ownersSearching:
		return m.handleSearchKey(msg)
	case ownersDetail:
		switch msg.String() {
		case "esc", "q":
			m.mode = ownersBrowsing
		case "m":
			// Alta de mascota con este propietario ya seleccionado.
			return m.app.newPetForOwner(m.detail.ID)
		}
		return nil
	case ownersForm:
		return m.form.handleKey(msg)
	case ownersConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m *ownersModel) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list.Items())-1 {
			m.cursor++
		}
	case "/":
		m.mode = ownersSearching
	case "r":
		m.loading = true
		return m.refresh(m.app.seq)
	case "n":
		m.form = newOwnerFormModel(m, nil)
		m.mode = ownersForm
	case "e":
		if o, ok := m.selected(); ok {
			return m.loadForEdit(o.ID)
		}
	case "enter":
		if o, ok := m.selected(); ok {
			return m.loadDetail(o.ID)
		}
	case "x":
		if o, ok := m.selected(); ok {
			m.prompt = m.list.RequestDelete(o)
			m.mode = ownersConfirm
		}
	case "esc":
		return m.app.goTo(screenDashboard)
	}
	return nil
}

func (m *ownersModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.value = ""
		m.list.SetSearch("")
		m.mode = ownersBrowsing
	case tea.KeyEnter:
		m.mode = ownersBrowsing
	default:
		m.search.handleKey(msg)
		m.list.SetSearch(m.search.value)
		m.clampCursor()
	}
	return nil
}

func (m *ownersModel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "s", "enter":
		m.mode = ownersBrowsing
		app := m.app
		seq := app.seq
		return func() tea.Msg {
			out, err := m.list.ConfirmDelete(app.background())
			if err != nil {
				out = controller.Outcome{OK: false, Message: err.Error()}
			}
			return ownerDeletedMsg{seq: seq, outcome: out}
		}
	case "n", "esc":
		m.list.CancelDelete()
		m.mode = ownersBrowsing
	}
	return nil
}

// loadDetail trae el propietario por id; el detalle embebe sus mascotas.
func (m *ownersModel) loadDetail(id int64) tea.Cmd {
	app := m.app
	seq := app.seq
	return func() tea.Msg {
		owner, err := app.gateway.FindOwner(app.background(), id)
		return ownerDetailMsg{seq: seq, owner: owner, err: err}
	}
}

// loadForEdit recarga el registro antes de editar, para no sembrar el
// formulario con una fila de listado potencialmente desfasada.
func (m *ownersModel) loadForEdit(id int64) tea.Cmd {
	app := m.app
	seq := app.seq
	return func() tea.Msg {
		owner, err := app.gateway.FindOwner(app.background(), id)
		return ownerEditMsg{seq: seq, owner: owner, err: err}
	}
}

func (m *ownersModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ownersRefreshedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		m.loading = false
		m.clampCursor()
		if !msg.outcome.OK {
			return m.app.notify(msg.outcome.Message, true)
		}
		return nil

	case ownerDetailMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		if msg.err != nil {
			return m.app.notify("Error al cargar el propietario", true)
		}
		m.detail = msg.owner
		m.mode = ownersDetail
		return nil

	case ownerEditMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		if msg.err != nil {
			return m.app.notify("Error al cargar el propietario", true)
		}
		owner := msg.owner
		m.form = newOwnerFormModel(m, &owner)
		m.mode = ownersForm
		return nil

	case ownerSavedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		return m.form.finish(msg)

	case ownerDeletedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		m.clampCursor()
		return m.app.notify(msg.outcome.Message, !msg.outcome.OK)
	}
	return nil
}

func (m *ownersModel) view() string {
	switch m.mode {
	case ownersDetail:
		return m.detailView()
	case ownersForm:
		return m.form.view()
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Propietarios") + "\n\n")

	if m.mode == ownersSearching {
		b.WriteString(m.search.render(true, "") + "\n\n")
	} else if m.search.value != "" {
		b.WriteString(m.search.render(false, "") + "\n\n")
	}

	if m.loading {
		b.WriteString("Cargando...\n")
	} else {
		b.WriteString(m.tableView())
	}

	if m.mode == ownersConfirm {
		b.WriteString("\n" + dialogStyle.Render(m.prompt+"\n\n[s] sí   [n] no") + "\n")
	} else {
		b.WriteString("\n" + helpStyle.Render("enter detalle · n nuevo · e editar · x eliminar · / buscar · r recargar · esc volver") + "\n")
	}
	return b.String()
}

func (m *ownersModel) tableView() string {
	items := m.list.Items()
	if len(items) == 0 {
		if m.search.value != "" {
			return "Sin resultados para la búsqueda.\n"
		}
		return "No hay propietarios registrados.\n"
	}

	var b strings.Builder
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-30s %-15s %-30s", "Nombre", "Teléfono", "Email")) + "\n")
	for i, o := range items {
		row := fmt.Sprintf("%-30s %-15s %-30s", truncate(o.FullName, 30), truncate(o.Phone, 15), truncate(o.Email, 30))
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d de %d", len(items), m.list.Total())) + "\n")
	return b.String()
}

func (m *ownersModel) detailView() string {
	o := m.detail
	lines := []string{
		titleStyle.Render("Propietario · " + o.FullName),
		"",
		labelStyle.Render("Teléfono") + o.Phone,
		labelStyle.Render("Email") + o.Email,
		labelStyle.Render("Dirección") + o.Address,
	}
	if o.Notes != "" {
		lines = append(lines, labelStyle.Render("Notas")+o.Notes)
	}
	lines = append(lines, "", headerRowStyle.Render(fmt.Sprintf("%-20s %-12s %-15s", "Mascota", "Especie", "Raza")))
	if len(o.Pets) == 0 {
		lines = append(lines, helpStyle.Render("Sin mascotas registradas"))
	}
	for _, p := range o.Pets {
		lines = append(lines, fmt.Sprintf("%-20s %-12s %-15s", truncate(p.Name, 20), truncate(p.SpeciesName(), 12), truncate(p.BreedName(), 15)))
	}
	lines = append(lines, "", helpStyle.Render("m nueva mascota · esc volver"))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
