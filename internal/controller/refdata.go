package controller

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"vetdesk/internal/domain"
)

// ReferenceClient expone las búsquedas de datos de referencia del
// formulario de mascota. *api.Client lo satisface.
type ReferenceClient interface {
	ListOwners(ctx context.Context) ([]domain.Owner, error)
	ListSpecies(ctx context.Context) ([]domain.Species, error)
	ListBreeds(ctx context.Context) ([]domain.Breed, error)
}

// ReferenceData son las colecciones de solo lectura que pueblan los
// selectores del formulario de mascota.
type ReferenceData struct {
	Owners  []domain.Owner
	Species []domain.Species
	Breeds  []domain.Breed
}

const refDataError = "Error al cargar los datos del formulario"

// LoadReferenceData trae las tres colecciones en paralelo. Las tres
// corren hasta terminar: que una falle no cancela a las otras, y el
// formulario se renderiza igual con las listas que sí llegaron. El error
// devuelto (si lo hay) se reporta como notificación, no bloquea.
func LoadReferenceData(ctx context.Context, client ReferenceClient) (ReferenceData, Outcome) {
	var (
		data ReferenceData
		mu   sync.Mutex
		g    errgroup.Group
	)

	g.Go(func() error {
		owners, err := client.ListOwners(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.Owners = owners
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		species, err := client.ListSpecies(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.Species = species
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		breeds, err := client.ListBreeds(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		data.Breeds = breeds
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return data, Outcome{OK: false, Message: refDataError}
	}
	return data, Outcome{OK: true}
}
