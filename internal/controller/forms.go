package controller

import (
	"context"

	"vetdesk/internal/domain"
)

// OwnerSaver y PetSaver son las operaciones de guardado del gateway que
// consumen los formularios. *api.Client las satisface.
type OwnerSaver interface {
	SaveOwner(ctx context.Context, form domain.OwnerForm) (domain.Owner, error)
}

type PetSaver interface {
	SavePet(ctx context.Context, form domain.PetForm) (domain.Pet, error)
}

var ownerFormMessages = FormMessages{
	Created:   "Propietario creado correctamente",
	Updated:   "Propietario actualizado correctamente",
	SaveError: "Error al guardar propietario",
}

var petFormMessages = FormMessages{
	Created:   "Mascota creada correctamente",
	Updated:   "Mascota actualizada correctamente",
	SaveError: "Error al guardar mascota",
}

// NewOwnerForm crea el controlador del formulario de propietario. seed nil
// es un alta; con entidad existente es edición.
func NewOwnerForm(seed *domain.Owner, saver OwnerSaver) *FormController[domain.OwnerForm] {
	var form domain.OwnerForm
	editing := false
	if seed != nil {
		form = domain.OwnerFormFrom(*seed)
		editing = seed.ID != 0
	}
	save := func(ctx context.Context, f domain.OwnerForm) error {
		_, err := saver.SaveOwner(ctx, f)
		return err
	}
	return newFormController(form, editing, domain.OwnerForm.Validate, save, ownerFormMessages)
}

// PetFormController añade al formulario genérico los datos de referencia y
// el acople especie->raza.
type PetFormController struct {
	*FormController[domain.PetForm]
	data ReferenceData
}

// NewPetForm crea el controlador del formulario de mascota. presetOwnerID
// pre-puebla el propietario al crear desde el detalle de un propietario;
// el campo sigue siendo editable.
func NewPetForm(seed *domain.Pet, presetOwnerID int64, saver PetSaver) *PetFormController {
	var form domain.PetForm
	editing := false
	if seed != nil {
		form = domain.PetFormFrom(*seed)
		editing = seed.ID != 0
	} else if presetOwnerID != 0 {
		form.OwnerID = presetOwnerID
	}
	save := func(ctx context.Context, f domain.PetForm) error {
		_, err := saver.SavePet(ctx, f)
		return err
	}
	return &PetFormController{
		FormController: newFormController(form, editing, domain.PetForm.Validate, save, petFormMessages),
	}
}

// SetReferenceData inyecta los catálogos (propietarios, especies, razas)
// cargados con LoadReferenceData; el controlador los usa para filtrar las
// opciones de raza.
func (c *PetFormController) SetReferenceData(data ReferenceData) {
	c.data = data
}

func (c *PetFormController) Owners() []domain.Owner {
	return c.data.Owners
}

func (c *PetFormController) Species() []domain.Species {
	return c.data.Species
}

// BreedOptions devuelve solo las razas de la especie seleccionada; sin
// especie seleccionada no hay opciones.
func (c *PetFormController) BreedOptions() []domain.Breed {
	return FilterBreeds(c.data.Breeds, c.Form().SpeciesID)
}

// SetSpecies cambia la especie seleccionada y resetea la raza elegida,
// que podría no pertenecer a la nueva especie.
func (c *PetFormController) SetSpecies(speciesID int64) {
	form := c.Form()
	if form.SpeciesID == speciesID {
		return
	}
	form.SpeciesID = speciesID
	form.BreedID = 0
	c.SetForm(form)
}

// FilterBreeds filtra razas por especie.
func FilterBreeds(breeds []domain.Breed, speciesID int64) []domain.Breed {
	if speciesID == 0 {
		return nil
	}
	out := make([]domain.Breed, 0, len(breeds))
	for _, b := range breeds {
		if b.SpeciesID() == speciesID {
			out = append(out, b)
		}
	}
	return out
}
