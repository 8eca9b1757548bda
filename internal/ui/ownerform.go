package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vetdesk/internal/controller"
	"vetdesk/internal/domain"
)

// ownerFormModel pinta el formulario de propietario sobre el controlador
// genérico. Los valores viven en los textField mientras se edita y se
// vuelcan al controlador justo antes de enviar.
type ownerFormModel struct {
	parent *ownersModel
	ctrl   *controller.FormController[domain.OwnerForm]
	id     int64
	fields []*textField
	keys   []string
	focus  int
	errs   domain.FieldErrors
}

func newOwnerFormModel(parent *ownersModel, seed *domain.Owner) *ownerFormModel {
	m := &ownerFormModel{
		parent: parent,
		ctrl:   controller.NewOwnerForm(seed, parent.app.gateway),
	}
	form := m.ctrl.Form()
	m.id = form.ID
	m.fields = []*textField{
		{label: "Nombre completo", value: form.FullName},
		{label: "Teléfono", value: form.Phone},
		{label: "Email", value: form.Email},
		{label: "Dirección", value: form.Address},
		{label: "Notas", value: form.Notes},
	}
	m.keys = []string{"fullName", "phone", "email", "address", "notes"}
	return m
}

func (m *ownerFormModel) collect() domain.OwnerForm {
	return domain.OwnerForm{
		ID:       m.id,
		FullName: m.fields[0].value,
		Phone:    m.fields[1].value,
		Email:    m.fields[2].value,
		Address:  m.fields[3].value,
		Notes:    m.fields[4].value,
	}
}

func (m *ownerFormModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.ctrl.Submitting() {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.parent.mode = ownersBrowsing
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.fields)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
		return nil
	case tea.KeyEnter:
		return m.submit()
	}
	m.fields[m.focus].handleKey(msg)
	return nil
}

func (m *ownerFormModel) submit() tea.Cmd {
	m.ctrl.SetForm(m.collect())
	app := m.parent.app
	seq := app.seq
	ctrl := m.ctrl
	return func() tea.Msg {
		out, err := ctrl.Submit(app.background())
		return ownerSavedMsg{seq: seq, outcome: out, err: err}
	}
}

// finish procesa el resultado del guardado: errores de campo se pintan en
// el formulario, el éxito cierra el diálogo y recarga el listado.
func (m *ownerFormModel) finish(msg ownerSavedMsg) tea.Cmd {
	if msg.err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(msg.err, &fieldErrs) {
			m.errs = fieldErrs
			return nil
		}
		return m.parent.app.notify(msg.err.Error(), true)
	}
	if !msg.outcome.OK {
		return m.parent.app.notify(msg.outcome.Message, true)
	}
	m.parent.mode = ownersBrowsing
	m.parent.loading = true
	return tea.Batch(
		m.parent.app.notify(msg.outcome.Message, false),
		m.parent.refresh(msg.seq),
	)
}

func (m *ownerFormModel) view() string {
	title := "Nuevo propietario"
	if m.ctrl.Editing() {
		title = "Editar propietario"
	}
	lines := []string{titleStyle.Render(title), ""}
	for i, f := range m.fields {
		lines = append(lines, f.render(i == m.focus, m.errs[m.keys[i]]))
	}
	if m.ctrl.Submitting() {
		lines = append(lines, "", "Guardando...")
	}
	lines = append(lines, "", helpStyle.Render("tab cambiar campo · enter guardar · esc cancelar"))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
