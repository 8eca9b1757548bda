// Package stubserver es un backend de desarrollo que implementa el
// contrato REST de la clínica (login, propietarios, mascotas, especies y
// razas) para poder ejercitar el cliente sin la API real. Lo usan el
// subcomando stub-server y los tests de extremo a extremo.
package stubserver

import (
	"time"

	"vetdesk/internal/domain"
)

type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
}

type Species struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

type Breed struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	SpeciesID int64  `gorm:"index;not null"`
	Species   Species
}

type Owner struct {
	ID       int64  `gorm:"primaryKey"`
	FullName string `gorm:"size:100;not null"`
	Phone    string `gorm:"size:20;not null"`
	Email    string `gorm:"size:100"`
	Address  string `gorm:"size:200"`
	Notes    string
	Pets     []Pet
}

type Pet struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	OwnerID   int64 `gorm:"index;not null"`
	Owner     Owner
	SpeciesID int64 `gorm:"index;not null"`
	Species   Species
	BreedID   *int64
	Breed     *Breed
	BirthDate *time.Time
	Gender    string `gorm:"size:10;not null"`
	Color     string `gorm:"size:50"`
	WeightKg  float64
	Microchip string `gorm:"size:50"`
	PhotoURL  string `gorm:"size:255"`
}

func (s Species) toDomain() domain.Species {
	return domain.Species{ID: s.ID, Name: s.Name}
}

func (b Breed) toDomain() domain.Breed {
	out := domain.Breed{ID: b.ID, Name: b.Name}
	if b.Species.ID != 0 {
		sp := b.Species.toDomain()
		out.Species = &sp
	} else {
		out.Species = &domain.Species{ID: b.SpeciesID}
	}
	return out
}

func (o Owner) toDomain(includePets bool) domain.Owner {
	out := domain.Owner{
		ID:       o.ID,
		FullName: o.FullName,
		Phone:    o.Phone,
		Email:    o.Email,
		Address:  o.Address,
		Notes:    o.Notes,
	}
	if includePets {
		out.Pets = make([]domain.Pet, 0, len(o.Pets))
		for _, p := range o.Pets {
			// Sin re-embeber al propietario dentro de sus mascotas.
			dp := p.toDomain()
			dp.Owner = nil
			out.Pets = append(out.Pets, dp)
		}
	}
	return out
}

func (p Pet) toDomain() domain.Pet {
	out := domain.Pet{
		ID:        p.ID,
		Name:      p.Name,
		Gender:    domain.Gender(p.Gender),
		Color:     p.Color,
		WeightKg:  p.WeightKg,
		Microchip: p.Microchip,
		PhotoURL:  p.PhotoURL,
	}
	if p.Owner.ID != 0 {
		owner := p.Owner.toDomain(false)
		out.Owner = &owner
	}
	if p.Species.ID != 0 {
		sp := p.Species.toDomain()
		out.Species = &sp
	}
	if p.Breed != nil && p.Breed.ID != 0 {
		br := p.Breed.toDomain()
		out.Breed = &br
	}
	if p.BirthDate != nil {
		d := domain.DateOf(*p.BirthDate)
		out.BirthDate = &d
	}
	return out
}
