package ui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vetdesk/internal/controller"
	"vetdesk/internal/domain"
)

// Índices de los campos del formulario de mascota, en orden de foco.
const (
	petFieldName = iota
	petFieldOwner
	petFieldSpecies
	petFieldBreed
	petFieldGender
	petFieldBirthDate
	petFieldColor
	petFieldWeight
	petFieldMicrochip
	petFieldPhoto
	petFieldCount
)

var genderOptions = []domain.Gender{domain.GenderMale, domain.GenderFemale, domain.GenderUnknown}

// petFormModel pinta el formulario de mascota. Las referencias (propietario,
// especie, raza) son selectores alimentados por los catálogos; cambiar de
// especie reencuadra las razas disponibles vía el controlador.
type petFormModel struct {
	parent *petsModel
	ctrl   *controller.PetFormController

	name      textField
	owner     selectField
	species   selectField
	breed     selectField
	gender    selectField
	birthDate textField
	color     textField
	weight    textField
	microchip textField
	photo     textField

	focus     int
	refsReady bool
	errs      domain.FieldErrors
	localErrs domain.FieldErrors
}

func newPetFormModel(parent *petsModel, seed *domain.Pet, presetOwnerID int64) *petFormModel {
	m := &petFormModel{
		parent:  parent,
		ctrl:    controller.NewPetForm(seed, presetOwnerID, parent.app.gateway),
		owner:   newSelectField("Propietario", false),
		species: newSelectField("Especie", false),
		breed:   newSelectField("Raza", true),
		gender:  newSelectField("Género", false),
	}
	form := m.ctrl.Form()
	m.name = textField{label: "Nombre", value: form.Name}
	m.color = textField{label: "Color", value: form.Color}
	m.microchip = textField{label: "Microchip", value: form.Microchip}
	m.photo = textField{label: "Foto (URL)", value: form.PhotoURL}
	if form.BirthDate != nil && !form.BirthDate.IsZero() {
		m.birthDate = textField{label: "Nacimiento", value: form.BirthDate.String()}
	} else {
		m.birthDate = textField{label: "Nacimiento"}
	}
	if form.WeightKg > 0 {
		m.weight = textField{label: "Peso (kg)", value: strconv.FormatFloat(form.WeightKg, 'f', -1, 64)}
	} else {
		m.weight = textField{label: "Peso (kg)"}
	}

	genders := make([]selectOption, len(genderOptions))
	for i, g := range genderOptions {
		genders[i] = selectOption{id: int64(i), label: g.Label()}
	}
	selected := int64(len(genderOptions) - 1)
	for i, g := range genderOptions {
		if g == form.Gender {
			selected = int64(i)
		}
	}
	m.gender.setOptions(genders, selected)
	return m
}

func (m *petFormModel) loadReferenceData() tea.Cmd {
	app := m.parent.app
	seq := app.seq
	return func() tea.Msg {
		data, out := controller.LoadReferenceData(app.background(), app.gateway)
		return petRefDataMsg{seq: seq, data: data, outcome: out}
	}
}

func (m *petFormModel) setReferenceData(data controller.ReferenceData) {
	m.ctrl.SetReferenceData(data)
	form := m.ctrl.Form()

	owners := make([]selectOption, len(data.Owners))
	for i, o := range data.Owners {
		owners[i] = selectOption{id: o.ID, label: o.FullName}
	}
	m.owner.setOptions(owners, form.OwnerID)

	species := make([]selectOption, len(data.Species))
	for i, s := range data.Species {
		species[i] = selectOption{id: s.ID, label: s.Name}
	}
	m.species.setOptions(species, form.SpeciesID)

	m.syncBreeds(form.BreedID)
	m.refsReady = true
}

// syncBreeds reconstruye el selector de razas para la especie actual.
func (m *petFormModel) syncBreeds(selected int64) {
	opts := m.ctrl.BreedOptions()
	breeds := make([]selectOption, len(opts))
	for i, b := range opts {
		breeds[i] = selectOption{id: b.ID, label: b.Name}
	}
	m.breed.setOptions(breeds, selected)
}

func (m *petFormModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.ctrl.Submitting() {
		return nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.parent.mode = petsBrowsing
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % petFieldCount
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + petFieldCount - 1) % petFieldCount
		return nil
	case tea.KeyEnter:
		return m.submit()
	}

	switch m.focus {
	case petFieldName:
		m.name.handleKey(msg)
	case petFieldOwner:
		m.owner.handleKey(msg)
	case petFieldSpecies:
		if m.species.handleKey(msg) {
			// Cambiar de especie invalida la raza elegida salvo que siga
			// perteneciendo a la nueva especie.
			m.ctrl.SetSpecies(m.species.selected())
			m.syncBreeds(m.ctrl.Form().BreedID)
		}
	case petFieldBreed:
		m.breed.handleKey(msg)
	case petFieldGender:
		m.gender.handleKey(msg)
	case petFieldBirthDate:
		m.birthDate.handleKey(msg)
	case petFieldColor:
		m.color.handleKey(msg)
	case petFieldWeight:
		m.weight.handleKey(msg)
	case petFieldMicrochip:
		m.microchip.handleKey(msg)
	case petFieldPhoto:
		m.photo.handleKey(msg)
	}
	return nil
}

// collect vuelca los widgets al formulario del controlador. Los campos que
// requieren parseo (fecha, peso) acumulan errores locales sin tocar la red.
func (m *petFormModel) collect() (domain.PetForm, domain.FieldErrors) {
	form := m.ctrl.Form()
	local := domain.FieldErrors{}

	form.Name = m.name.value
	form.OwnerID = m.owner.selected()
	form.SpeciesID = m.species.selected()
	form.BreedID = m.breed.selected()
	form.Gender = genderOptions[m.gender.index]
	form.Color = m.color.value
	form.Microchip = m.microchip.value
	form.PhotoURL = m.photo.value

	form.BirthDate = nil
	if s := strings.TrimSpace(m.birthDate.value); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			local["birthDate"] = "Fecha inválida, use AAAA-MM-DD"
		} else {
			form.BirthDate = &d
		}
	}

	form.WeightKg = 0
	if s := strings.TrimSpace(m.weight.value); s != "" {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			local["weightKg"] = "Peso inválido"
		} else {
			form.WeightKg = w
		}
	}
	return form, local
}

func (m *petFormModel) submit() tea.Cmd {
	form, local := m.collect()
	if len(local) > 0 {
		m.localErrs = local
		return nil
	}
	m.localErrs = nil
	m.ctrl.SetForm(form)
	app := m.parent.app
	seq := app.seq
	ctrl := m.ctrl
	return func() tea.Msg {
		out, err := ctrl.Submit(app.background())
		return petSavedMsg{seq: seq, outcome: out, err: err}
	}
}

func (m *petFormModel) finish(msg petSavedMsg) tea.Cmd {
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
	m.parent.mode = petsBrowsing
	m.parent.loading = true
	return tea.Batch(
		m.parent.app.notify(msg.outcome.Message, false),
		m.parent.refresh(msg.seq),
	)
}

func (m *petFormModel) fieldError(key string) string {
	if msg, ok := m.localErrs[key]; ok {
		return msg
	}
	return m.errs[key]
}

func (m *petFormModel) view() string {
	title := "Nueva mascota"
	if m.ctrl.Editing() {
		title = "Editar mascota"
	}
	if !m.refsReady {
		return "\n" + titleStyle.Render(title) + "\n\nCargando datos del formulario...\n"
	}

	lines := []string{titleStyle.Render(title), ""}
	lines = append(lines,
		m.name.render(m.focus == petFieldName, m.fieldError("name")),
		m.owner.render(m.focus == petFieldOwner, m.fieldError("ownerId")),
		m.species.render(m.focus == petFieldSpecies, m.fieldError("speciesId")),
		m.breed.render(m.focus == petFieldBreed, m.fieldError("breedId")),
		m.gender.render(m.focus == petFieldGender, m.fieldError("gender")),
		m.birthDate.render(m.focus == petFieldBirthDate, m.fieldError("birthDate")),
		m.color.render(m.focus == petFieldColor, m.fieldError("color")),
		m.weight.render(m.focus == petFieldWeight, m.fieldError("weightKg")),
		m.microchip.render(m.focus == petFieldMicrochip, m.fieldError("microchip")),
		m.photo.render(m.focus == petFieldPhoto, m.fieldError("photoUrl")),
	)
	if m.ctrl.Submitting() {
		lines = append(lines, "", "Guardando...")
	}
	lines = append(lines, "", helpStyle.Render("tab cambiar campo · ◀ ▶ cambiar opción · enter guardar · esc cancelar"))
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
