package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vetdesk/internal/session"
)

type loginResultMsg struct {
	seq    int
	result session.LoginResult
}

type loginModel struct {
	app        *App
	username   textField
	password   textField
	focus      int
	submitting bool
	errMsg     string
}

func newLoginModel(app *App) *loginModel {
	m := &loginModel{app: app}
	m.reset()
	return m
}

func (m *loginModel) reset() {
	m.username = textField{label: "Usuario"}
	m.password = textField{label: "Contraseña", secret: true}
	m.focus = 0
	m.submitting = false
	m.errMsg = ""
}

func (m *loginModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		return nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % 2
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + 2 - 1) % 2
		return nil
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyCtrlC:
		return tea.Quit
	}
	if m.focus == 0 {
		m.username.handleKey(msg)
	} else {
		m.password.handleKey(msg)
	}
	return nil
}

func (m *loginModel) submit() tea.Cmd {
	username := m.username.value
	password := m.password.value
	if username == "" || password == "" {
		m.errMsg = "Usuario y contraseña son obligatorios"
		return nil
	}
	m.submitting = true
	m.errMsg = ""
	app := m.app
	seq := app.seq
	return func() tea.Msg {
		res := app.session.Login(app.background(), app.gateway, username, password)
		return loginResultMsg{seq: seq, result: res}
	}
}

func (m *loginModel) update(msg tea.Msg) tea.Cmd {
	res, ok := msg.(loginResultMsg)
	if !ok || m.app.stale(res.seq) {
		return nil
	}
	m.submitting = false
	if res.result.OK {
		return m.app.goTo(screenDashboard)
	}
	m.password.value = ""
	m.errMsg = res.result.Message
	return nil
}

func (m *loginModel) view() string {
	lines := []string{
		titleStyle.Render("VetDesk · Iniciar sesión"),
		"",
		m.username.render(m.focus == 0, ""),
		m.password.render(m.focus == 1, ""),
	}
	if m.submitting {
		lines = append(lines, "", "Entrando...")
	} else if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	lines = append(lines, "", helpStyle.Render("tab cambiar campo · enter entrar · ctrl+c salir"))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
