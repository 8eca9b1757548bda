package domain

// Owner es un propietario tal como lo devuelve la API. El detalle incluye
// sus mascotas embebidas; el listado puede incluirlas o no.
type Owner struct {
	ID       int64  `json:"id,omitempty"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Pets     []Pet  `json:"pets,omitempty"`
}

// OwnerForm es el registro editable del formulario de propietario.
// El mismo payload sirve para crear y actualizar; ID==0 es alta.
type OwnerForm struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,max=20"`
	Email    string `json:"email" validate:"omitempty,email,max=100"`
	Address  string `json:"address" validate:"omitempty,max=200"`
	Notes    string `json:"notes"`
}

// OwnerFormFrom siembra el formulario desde un propietario existente.
func OwnerFormFrom(o Owner) OwnerForm {
	return OwnerForm{
		ID:       o.ID,
		FullName: o.FullName,
		Phone:    o.Phone,
		Email:    o.Email,
		Address:  o.Address,
		Notes:    o.Notes,
	}
}

func (f OwnerForm) Validate() FieldErrors {
	return validateStruct(f, ownerMessages)
}

var ownerMessages = map[string]string{
	"fullName.required": "El nombre es obligatorio",
	"fullName.max":      "El nombre no puede exceder 100 caracteres",
	"phone.required":    "El teléfono es obligatorio",
	"phone.max":         "El teléfono no puede exceder 20 caracteres",
	"email.email":       "Email inválido",
	"email.max":         "El email no puede exceder 100 caracteres",
	"address.max":       "La dirección no puede exceder 200 caracteres",
}
