package domain

// Gender es el género de una mascota tal como viaja por la API.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Label devuelve la etiqueta localizada del género.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Macho"
	case GenderFemale:
		return "Hembra"
	default:
		return "Desconocido"
	}
}

type Species struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Breed referencia a su especie embebida; el filtrado de razas por especie
// se hace contra Breed.Species.ID.
type Breed struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Species *Species `json:"species,omitempty"`
}

func (b Breed) SpeciesID() int64 {
	if b.Species == nil {
		return 0
	}
	return b.Species.ID
}

type Pet struct {
	ID        int64    `json:"id,omitempty"`
	Name      string   `json:"name"`
	Owner     *Owner   `json:"owner,omitempty"`
	Species   *Species `json:"species,omitempty"`
	Breed     *Breed   `json:"breed,omitempty"`
	BirthDate *Date    `json:"birthDate,omitempty"`
	Gender    Gender   `json:"gender"`
	Color     string   `json:"color,omitempty"`
	WeightKg  float64  `json:"weightKg,omitempty"`
	Microchip string   `json:"microchip,omitempty"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
}

// Age es la edad en años cumplidos, derivada al momento de mostrarla.
// Devuelve -1 si no hay fecha de nacimiento.
func (p Pet) Age(at Date) int {
	if p.BirthDate == nil || p.BirthDate.IsZero() {
		return -1
	}
	return p.BirthDate.AgeYears(at)
}

func (p Pet) OwnerName() string {
	if p.Owner == nil {
		return ""
	}
	return p.Owner.FullName
}

func (p Pet) SpeciesName() string {
	if p.Species == nil {
		return ""
	}
	return p.Species.Name
}

func (p Pet) BreedName() string {
	if p.Breed == nil {
		return ""
	}
	return p.Breed.Name
}

// PetForm es el registro editable del formulario de mascota. Las
// referencias van como IDs planos; la conversión al payload anidado de la
// API la hace el cliente del gateway.
type PetForm struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name" validate:"required,max=100"`
	OwnerID   int64   `json:"ownerId" validate:"required"`
	SpeciesID int64   `json:"speciesId" validate:"required"`
	BreedID   int64   `json:"breedId"`
	BirthDate *Date   `json:"birthDate" validate:"omitempty,notfuture"`
	Gender    Gender  `json:"gender" validate:"required,oneof=male female unknown"`
	Color     string  `json:"color" validate:"omitempty,max=50"`
	WeightKg  float64 `json:"weightKg" validate:"omitempty,gt=0,max=999.99"`
	Microchip string  `json:"microchip" validate:"omitempty,max=50"`
	PhotoURL  string  `json:"photoUrl" validate:"omitempty,max=255"`
}

// PetFormFrom siembra el formulario desde una mascota existente.
func PetFormFrom(p Pet) PetForm {
	f := PetForm{
		ID:        p.ID,
		Name:      p.Name,
		BirthDate: p.BirthDate,
		Gender:    p.Gender,
		Color:     p.Color,
		WeightKg:  p.WeightKg,
		Microchip: p.Microchip,
		PhotoURL:  p.PhotoURL,
	}
	if p.Owner != nil {
		f.OwnerID = p.Owner.ID
	}
	if p.Species != nil {
		f.SpeciesID = p.Species.ID
	}
	if p.Breed != nil {
		f.BreedID = p.Breed.ID
	}
	return f
}

func (f PetForm) Validate() FieldErrors {
	return validateStruct(f, petMessages)
}

var petMessages = map[string]string{
	"name.required":       "El nombre es obligatorio",
	"name.max":            "El nombre no puede exceder 100 caracteres",
	"ownerId.required":    "El propietario es obligatorio",
	"speciesId.required":  "La especie es obligatoria",
	"birthDate.notfuture": "La fecha de nacimiento no puede ser futura",
	"gender.required":     "El género es obligatorio",
	"gender.oneof":        "El género es obligatorio",
	"color.max":           "El color no puede exceder 50 caracteres",
	"weightKg.gt":         "El peso debe ser positivo",
	"weightKg.max":        "El peso no puede exceder 999.99 kg",
	"microchip.max":       "El número de microchip no puede exceder 50 caracteres",
	"photoUrl.max":        "La URL de la foto no puede exceder 255 caracteres",
}
