package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// textField es un campo de texto mínimo para los formularios. No usamos un
// widget externo: sólo hace falta escribir, borrar y mostrar el valor.
type textField struct {
	label  string
	value  string
	secret bool
}

func (f *textField) handleKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyBackspace:
		if f.value != "" {
			runes := []rune(f.value)
			f.value = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		f.value += " "
	case tea.KeyRunes:
		f.value += string(msg.Runes)
	}
}

func (f *textField) render(focused bool, fieldErr string) string {
	shown := f.value
	if f.secret {
		shown = strings.Repeat("*", len([]rune(shown)))
	}
	if focused {
		shown = focusedStyle.Render(shown + "▌")
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.label), shown)
	if fieldErr != "" {
		line += "\n" + labelStyle.Render("") + errorStyle.Render(fieldErr)
	}
	return line
}

// selectField recorre un conjunto fijo de opciones con las flechas
// izquierda/derecha. La opción vacía (índice -1) se muestra como "—".
type selectField struct {
	label      string
	options    []selectOption
	index      int
	allowEmpty bool
}

type selectOption struct {
	id    int64
	label string
}

func newSelectField(label string, allowEmpty bool) selectField {
	idx := 0
	if allowEmpty {
		idx = -1
	}
	return selectField{label: label, index: idx, allowEmpty: allowEmpty}
}

func (f *selectField) setOptions(opts []selectOption, selected int64) {
	f.options = opts
	f.index = -1
	for i, o := range opts {
		if o.id == selected {
			f.index = i
			return
		}
	}
	if !f.allowEmpty && len(opts) > 0 {
		f.index = 0
	}
}

func (f *selectField) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyLeft:
		min := 0
		if f.allowEmpty {
			min = -1
		}
		if f.index > min {
			f.index--
			return true
		}
	case tea.KeyRight:
		if f.index < len(f.options)-1 {
			f.index++
			return true
		}
	}
	return false
}

func (f *selectField) selected() int64 {
	if f.index < 0 || f.index >= len(f.options) {
		return 0
	}
	return f.options[f.index].id
}

func (f *selectField) render(focused bool, fieldErr string) string {
	shown := "—"
	if f.index >= 0 && f.index < len(f.options) {
		shown = f.options[f.index].label
	}
	shown = "◀ " + shown + " ▶"
	if focused {
		shown = focusedStyle.Render(shown)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.label), shown)
	if fieldErr != "" {
		line += "\n" + labelStyle.Render("") + errorStyle.Render(fieldErr)
	}
	return line
}
