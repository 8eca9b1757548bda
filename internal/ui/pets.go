package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vetdesk/internal/controller"
	"vetdesk/internal/domain"
)

type petsMode int

const (
	petsBrowsing petsMode = iota
	petsSearching
	petsDetail
	petsForm
	petsConfirm
)

type petsRefreshedMsg struct {
	seq     int
	outcome controller.Outcome
}

type petDetailMsg struct {
	seq int
	pet domain.Pet
	err error
}

type petEditMsg struct {
	seq int
	pet domain.Pet
	err error
}

type petRefDataMsg struct {
	seq     int
	data    controller.ReferenceData
	outcome controller.Outcome
}

type petSavedMsg struct {
	seq     int
	outcome controller.Outcome
	err     error
}

type petDeletedMsg struct {
	seq     int
	outcome controller.Outcome
}

type petsModel struct {
	app     *App
	list    *controller.ListController[domain.Pet]
	mode    petsMode
	cursor  int
	search  textField
	loading bool
	prompt  string
	detail  domain.Pet
	form    *petFormModel
}

func newPetsModel(app *App) *petsModel {
	return &petsModel{
		app:    app,
		list:   controller.NewPetList(app.gateway),
		search: textField{label: "Buscar"},
	}
}

func (m *petsModel) enter(seq int) tea.Cmd {
	m.mode = petsBrowsing
	m.cursor = 0
	m.loading = true
	return m.refresh(seq)
}

func (m *petsModel) refresh(seq int) tea.Cmd {
	app := m.app
	return func() tea.Msg {
		out := m.list.Refresh(app.background())
		return petsRefreshedMsg{seq: seq, outcome: out}
	}
}

func (m *petsModel) modalOpen() bool {
	return m.mode != petsBrowsing
}

func (m *petsModel) selected() (domain.Pet, bool) {
	items := m.list.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.Pet{}, false
	}
	return items[m.cursor], true
}

func (m *petsModel) clampCursor() {
	if n := len(m.list.Items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *petsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case petsSearching:
		return m.handleSearchKey(msg)
	case petsDetail:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.mode = petsBrowsing
		}
		return nil
	case petsForm:
		return m.form.handleKey(msg)
	case petsConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m *petsModel) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
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
		m.mode = petsSearching
	case "r":
		m.loading = true
		return m.refresh(m.app.seq)
	case "n":
		return m.openNewForm(0)
	case "e":
		if p, ok := m.selected(); ok {
			return m.loadForEdit(p.ID)
		}
	case "enter":
		if p, ok := m.selected(); ok {
			return m.loadDetail(p.ID)
		}
	case "x":
		if p, ok := m.selected(); ok {
			m.prompt = m.list.RequestDelete(p)
			m.mode = petsConfirm
		}
	case "esc":
		return m.app.goTo(screenDashboard)
	}
	return nil
}

func (m *petsModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.value = ""
		m.list.SetSearch("")
		m.mode = petsBrowsing
	case tea.KeyEnter:
		m.mode = petsBrowsing
	default:
		m.search.handleKey(msg)
		m.list.SetSearch(m.search.value)
		m.clampCursor()
	}
	return nil
}

func (m *petsModel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "s", "enter":
		m.mode = petsBrowsing
		app := m.app
		seq := app.seq
		return func() tea.Msg {
			out, err := m.list.ConfirmDelete(app.background())
			if err != nil {
				out = controller.Outcome{OK: false, Message: err.Error()}
			}
			return petDeletedMsg{seq: seq, outcome: out}
		}
	case "n", "esc":
		m.list.CancelDelete()
		m.mode = petsBrowsing
	}
	return nil
}

// openNewForm abre el alta de mascota; presetOwnerID pre-puebla el
// propietario cuando se llega desde su detalle.
func (m *petsModel) openNewForm(presetOwnerID int64) tea.Cmd {
	m.form = newPetFormModel(m, nil, presetOwnerID)
	m.mode = petsForm
	return m.form.loadReferenceData()
}

func (m *petsModel) loadDetail(id int64) tea.Cmd {
	app := m.app
	seq := app.seq
	return func() tea.Msg {
		pet, err := app.gateway.FindPet(app.background(), id)
		return petDetailMsg{seq: seq, pet: pet, err: err}
	}
}

func (m *petsModel) loadForEdit(id int64) tea.Cmd {
	app := m.app
	seq := app.seq
	return func() tea.Msg {
		pet, err := app.gateway.FindPet(app.background(), id)
		return petEditMsg{seq: seq, pet: pet, err: err}
	}
}

func (m *petsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case petsRefreshedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		m.loading = false
		m.clampCursor()
		if !msg.outcome.OK {
			return m.app.notify(msg.outcome.Message, true)
		}
		return nil

	case petDetailMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		if msg.err != nil {
			return m.app.notify("Error al cargar la mascota", true)
		}
		m.detail = msg.pet
		m.mode = petsDetail
		return nil

	case petEditMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		if msg.err != nil {
			return m.app.notify("Error al cargar la mascota", true)
		}
		pet := msg.pet
		m.form = newPetFormModel(m, &pet, 0)
		m.mode = petsForm
		return m.form.loadReferenceData()

	case petRefDataMsg:
		if m.app.stale(msg.seq) || m.mode != petsForm {
			return nil
		}
		m.form.setReferenceData(msg.data)
		if !msg.outcome.OK {
			return m.app.notify(msg.outcome.Message, true)
		}
		return nil

	case petSavedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		return m.form.finish(msg)

	case petDeletedMsg:
		if m.app.stale(msg.seq) {
			return nil
		}
		m.clampCursor()
		return m.app.notify(msg.outcome.Message, !msg.outcome.OK)
	}
	return nil
}

func (m *petsModel) view() string {
	switch m.mode {
	case petsDetail:
		return m.detailView()
	case petsForm:
		return m.form.view()
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Mascotas") + "\n\n")

	if m.mode == petsSearching {
		b.WriteString(m.search.render(true, "") + "\n\n")
	} else if m.search.value != "" {
		b.WriteString(m.search.render(false, "") + "\n\n")
	}

	if m.loading {
		b.WriteString("Cargando...\n")
	} else {
		b.WriteString(m.tableView())
	}

	if m.mode == petsConfirm {
		b.WriteString("\n" + dialogStyle.Render(m.prompt+"\n\n[s] sí   [n] no") + "\n")
	} else {
		b.WriteString("\n" + helpStyle.Render("enter detalle · n nueva · e editar · x eliminar · / buscar · r recargar · esc volver") + "\n")
	}
	return b.String()
}

func (m *petsModel) tableView() string {
	items := m.list.Items()
	if len(items) == 0 {
		if m.search.value != "" {
			return "Sin resultados para la búsqueda.\n"
		}
		return "No hay mascotas registradas.\n"
	}

	var b strings.Builder
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%-20s %-22s %-12s %-15s", "Nombre", "Propietario", "Especie", "Raza")) + "\n")
	for i, p := range items {
		row := fmt.Sprintf("%-20s %-22s %-12s %-15s",
			truncate(p.Name, 20), truncate(p.OwnerName(), 22),
			truncate(p.SpeciesName(), 12), truncate(p.BreedName(), 15))
		if i == m.cursor {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d de %d", len(items), m.list.Total())) + "\n")
	return b.String()
}

func (m *petsModel) detailView() string {
	p := m.detail
	age := "—"
	if years := p.Age(domain.Today()); years >= 0 {
		age = fmt.Sprintf("%d años", years)
	}
	birth := "—"
	if p.BirthDate != nil && !p.BirthDate.IsZero() {
		birth = p.BirthDate.String()
	}
	weight := "—"
	if p.WeightKg > 0 {
		weight = fmt.Sprintf("%.2f kg", p.WeightKg)
	}
	lines := []string{
		titleStyle.Render("Mascota · " + p.Name),
		"",
		labelStyle.Render("Propietario") + p.OwnerName(),
		labelStyle.Render("Especie") + p.SpeciesName(),
		labelStyle.Render("Raza") + p.BreedName(),
		labelStyle.Render("Género") + p.Gender.Label(),
		labelStyle.Render("Nacimiento") + birth,
		labelStyle.Render("Edad") + age,
		labelStyle.Render("Color") + p.Color,
		labelStyle.Render("Peso") + weight,
	}
	if p.Microchip != "" {
		lines = append(lines, labelStyle.Render("Microchip")+p.Microchip)
	}
	lines = append(lines, "", helpStyle.Render("esc volver"))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
