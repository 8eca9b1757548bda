package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusBar muestra la última notificación (éxito o error) durante unos
// segundos. Cada aviso lleva un id para que el temporizador de un aviso
// anterior no borre uno más reciente.
type statusBar struct {
	id      int
	message string
	isError bool
}

type statusExpiredMsg struct{ id int }

const statusTTL = 4 * time.Second

func (s *statusBar) show(message string, isError bool) tea.Cmd {
	s.id++
	s.message = message
	s.isError = isError
	id := s.id
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

func (s *statusBar) expire(msg statusExpiredMsg) {
	if msg.id == s.id {
		s.message = ""
	}
}

func (s *statusBar) view() string {
	if s.message == "" {
		return ""
	}
	if s.isError {
		return errorStyle.Render(s.message)
	}
	return okStyle.Render(s.message)
}
