package stubserver

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Store es el acceso a datos del stub sobre gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindUser(username string) (*User, error) {
	var u User
	err := s.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListOwners() ([]Owner, error) {
	var owners []Owner
	err := s.db.Preload("Pets").Preload("Pets.Species").Preload("Pets.Breed").
		Order("id").Find(&owners).Error
	return owners, err
}

func (s *Store) FindOwner(id int64) (*Owner, error) {
	var o Owner
	err := s.db.Preload("Pets").Preload("Pets.Species").Preload("Pets.Breed").
		First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// SaveOwner es un upsert: ID presente actualiza, ausente crea.
func (s *Store) SaveOwner(o *Owner) (*Owner, error) {
	if o.ID != 0 {
		var existing Owner
		if err := s.db.First(&existing, o.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if err := s.db.Model(&existing).Select("FullName", "Phone", "Email", "Address", "Notes").
			Updates(o).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Create(o).Error; err != nil {
			return nil, err
		}
	}
	return s.FindOwner(o.ID)
}

// DeleteOwner borra al propietario y en cascada a sus mascotas.
func (s *Store) DeleteOwner(id int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var o Owner
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&Pet{}).Error; err != nil {
			return fmt.Errorf("delete pets of owner %d: %w", id, err)
		}
		return tx.Delete(&o).Error
	})
}

func (s *Store) ListPets() ([]Pet, error) {
	var pets []Pet
	err := s.db.Preload("Owner").Preload("Species").Preload("Breed").Preload("Breed.Species").
		Order("id").Find(&pets).Error
	return pets, err
}

func (s *Store) FindPet(id int64) (*Pet, error) {
	var p Pet
	err := s.db.Preload("Owner").Preload("Species").Preload("Breed").Preload("Breed.Species").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePet(p *Pet) (*Pet, error) {
	if p.ID != 0 {
		var existing Pet
		if err := s.db.First(&existing, p.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if err := s.db.Model(&existing).
			Select("Name", "OwnerID", "SpeciesID", "BreedID", "BirthDate", "Gender", "Color", "WeightKg", "Microchip", "PhotoURL").
			Updates(map[string]any{
				"name":       p.Name,
				"owner_id":   p.OwnerID,
				"species_id": p.SpeciesID,
				"breed_id":   p.BreedID,
				"birth_date": p.BirthDate,
				"gender":     p.Gender,
				"color":      p.Color,
				"weight_kg":  p.WeightKg,
				"microchip":  p.Microchip,
				"photo_url":  p.PhotoURL,
			}).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Create(p).Error; err != nil {
			return nil, err
		}
	}
	return s.FindPet(p.ID)
}

func (s *Store) DeletePet(id int64) error {
	res := s.db.Delete(&Pet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListSpecies() ([]Species, error) {
	var species []Species
	err := s.db.Order("id").Find(&species).Error
	return species, err
}

func (s *Store) FindSpecies(id int64) (*Species, error) {
	var sp Species
	err := s.db.First(&sp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func (s *Store) ListBreeds() ([]Breed, error) {
	var breeds []Breed
	err := s.db.Preload("Species").Order("id").Find(&breeds).Error
	return breeds, err
}

func (s *Store) FindBreed(id int64) (*Breed, error) {
	var b Breed
	err := s.db.Preload("Species").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
