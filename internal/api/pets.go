package api

import (
	"context"
	"fmt"
	"net/http"

	"vetdesk/internal/domain"
)

func (c *Client) ListPets(ctx context.Context) ([]domain.Pet, error) {
	var pets []domain.Pet
	if err := c.do(ctx, http.MethodGet, "/api/pets", nil, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (c *Client) FindPet(ctx context.Context, id int64) (domain.Pet, error) {
	var pet domain.Pet
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/pets/find/%d", id), nil, &pet); err != nil {
		return domain.Pet{}, err
	}
	return pet, nil
}

type entityRef struct {
	ID int64 `json:"id"`
}

// petSaveRequest es el payload anidado que espera el backend: las
// referencias van como objetos {id} y la raza puede ser null.
type petSaveRequest struct {
	ID        *int64        `json:"id"`
	Name      string        `json:"name"`
	Owner     entityRef     `json:"owner"`
	Species   entityRef     `json:"species"`
	Breed     *entityRef    `json:"breed"`
	BirthDate *domain.Date  `json:"birthDate,omitempty"`
	Gender    domain.Gender `json:"gender"`
	Color     string        `json:"color,omitempty"`
	WeightKg  float64       `json:"weightKg,omitempty"`
	Microchip string        `json:"microchip,omitempty"`
	PhotoURL  string        `json:"photoUrl,omitempty"`
}

func (c *Client) SavePet(ctx context.Context, form domain.PetForm) (domain.Pet, error) {
	req := petSaveRequest{
		Name:      form.Name,
		Owner:     entityRef{ID: form.OwnerID},
		Species:   entityRef{ID: form.SpeciesID},
		BirthDate: form.BirthDate,
		Gender:    form.Gender,
		Color:     form.Color,
		WeightKg:  form.WeightKg,
		Microchip: form.Microchip,
		PhotoURL:  form.PhotoURL,
	}
	if form.ID != 0 {
		req.ID = &form.ID
	}
	if form.BreedID != 0 {
		req.Breed = &entityRef{ID: form.BreedID}
	}
	var pet domain.Pet
	if err := c.do(ctx, http.MethodPost, "/api/pets/save", req, &pet); err != nil {
		return domain.Pet{}, err
	}
	return pet, nil
}

func (c *Client) DeletePet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/pets/delete/%d", id), nil, nil)
}

func (c *Client) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	var species []domain.Species
	if err := c.do(ctx, http.MethodGet, "/api/species", nil, &species); err != nil {
		return nil, err
	}
	return species, nil
}

func (c *Client) ListBreeds(ctx context.Context) ([]domain.Breed, error) {
	var breeds []domain.Breed
	if err := c.do(ctx, http.MethodGet, "/api/breeds", nil, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}
