package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vetdesk/internal/api"
	"vetdesk/internal/domain"
)

type fakeOwnerGateway struct {
	owners     []domain.Owner
	fetchCalls int
	fetchErr   error

	deleteCalls int
	deleteErr   error
	deletedIDs  []int64
}

func (f *fakeOwnerGateway) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.owners, nil
}

func (f *fakeOwnerGateway) DeleteOwner(ctx context.Context, id int64) error {
	f.deleteCalls++
	f.deletedIDs = append(f.deletedIDs, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.owners[:0]
	for _, o := range f.owners {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	f.owners = kept
	return nil
}

func sampleOwners() []domain.Owner {
	return []domain.Owner{
		{ID: 1, FullName: "Ana Gomez", Phone: "111", Email: "a@x.com"},
		{ID: 2, FullName: "Bob", Phone: "222", Email: "b@y.com"},
	}
}

func TestOwnerListFilter(t *testing.T) {
	gw := &fakeOwnerGateway{owners: sampleOwners()}
	list := NewOwnerList(gw)
	if res := list.Refresh(context.Background()); !res.OK {
		t.Fatalf("refresh: %+v", res)
	}

	cases := []struct {
		name   string
		term   string
		wantID []int64
	}{
		{"case-insensitive name match", "ana", []int64{1}},
		{"email match", "B@Y.com", []int64{2}},
		{"phone match", "111", []int64{1}},
		{"empty term returns everything", "", []int64{1, 2}},
		{"no match", "zzz", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list.SetSearch(tc.term)
			got := list.Items()
			if len(got) != len(tc.wantID) {
				t.Fatalf("got %d items, want %d", len(got), len(tc.wantID))
			}
			for i, id := range tc.wantID {
				if got[i].ID != id {
					t.Fatalf("item %d: got id %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}

	// El filtrado nunca va a la red.
	if gw.fetchCalls != 1 {
		t.Fatalf("filtering must not refetch, fetch calls = %d", gw.fetchCalls)
	}
}

func TestPetListFilterFields(t *testing.T) {
	dogs := domain.Species{ID: 1, Name: "Perro"}
	lab := domain.Breed{ID: 10, Name: "Labrador", Species: &dogs}
	ana := domain.Owner{ID: 1, FullName: "Ana Gomez"}
	pets := []domain.Pet{
		{ID: 1, Name: "Rocky", Owner: &ana, Species: &dogs, Breed: &lab},
		{ID: 2, Name: "Misu", Species: &domain.Species{ID: 2, Name: "Gato"}},
	}
	gw := &fakePetGateway{pets: pets}
	list := NewPetList(gw)
	if res := list.Refresh(context.Background()); !res.OK {
		t.Fatalf("refresh: %+v", res)
	}

	for term, wantID := range map[string]int64{
		"rocky":    1,
		"gomez":    1, // nombre del propietario
		"labrador": 1, // raza
		"gato":     2, // especie
	} {
		list.SetSearch(term)
		got := list.Items()
		if len(got) != 1 || got[0].ID != wantID {
			t.Fatalf("term %q: got %v", term, got)
		}
	}
}

type fakePetGateway struct {
	pets       []domain.Pet
	fetchCalls int
}

func (f *fakePetGateway) ListPets(ctx context.Context) ([]domain.Pet, error) {
	f.fetchCalls++
	return f.pets, nil
}

func (f *fakePetGateway) DeletePet(ctx context.Context, id int64) error { return nil }

func TestDeleteFlow(t *testing.T) {
	t.Run("confirmation prompt names the target", func(t *testing.T) {
		gw := &fakeOwnerGateway{owners: sampleOwners()}
		list := NewOwnerList(gw)
		_ = list.Refresh(context.Background())

		prompt := list.RequestDelete(list.Items()[0])
		if !strings.Contains(prompt, "Ana Gomez") {
			t.Fatalf("prompt must name the entity: %q", prompt)
		}
		if list.PendingDelete() == nil {
			t.Fatal("expected pending delete")
		}

		list.CancelDelete()
		if list.PendingDelete() != nil {
			t.Fatal("cancel must clear the pending delete")
		}
		if gw.deleteCalls != 0 {
			t.Fatal("cancel must not call the API")
		}
	})

	t.Run("success: one delete call, then one full refetch", func(t *testing.T) {
		gw := &fakeOwnerGateway{owners: sampleOwners()}
		list := NewOwnerList(gw)
		_ = list.Refresh(context.Background())
		fetchesBefore := gw.fetchCalls

		list.RequestDelete(list.Items()[0])
		out, err := list.ConfirmDelete(context.Background())
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if !out.OK || out.Message != "Propietario eliminado correctamente" {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if gw.deleteCalls != 1 {
			t.Fatalf("delete calls = %d, want 1", gw.deleteCalls)
		}
		if gw.fetchCalls != fetchesBefore+1 {
			t.Fatalf("fetch calls = %d, want %d", gw.fetchCalls, fetchesBefore+1)
		}
		if list.Total() != 1 {
			t.Fatalf("expected refreshed collection of 1, got %d", list.Total())
		}
	})

	t.Run("failure: no refetch, collection retained", func(t *testing.T) {
		gw := &fakeOwnerGateway{owners: sampleOwners(), deleteErr: &api.RequestError{Status: 500}}
		list := NewOwnerList(gw)
		_ = list.Refresh(context.Background())
		fetchesBefore := gw.fetchCalls

		list.RequestDelete(list.Items()[0])
		out, err := list.ConfirmDelete(context.Background())
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if out.OK || out.Message != "Error al eliminar propietario" {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if gw.deleteCalls != 1 {
			t.Fatalf("delete calls = %d, want 1", gw.deleteCalls)
		}
		if gw.fetchCalls != fetchesBefore {
			t.Fatalf("failed delete must not refetch, fetch calls = %d", gw.fetchCalls)
		}
		if list.Total() != 2 {
			t.Fatalf("collection must be retained, got %d items", list.Total())
		}
	})

	t.Run("confirm without pending delete", func(t *testing.T) {
		gw := &fakeOwnerGateway{owners: sampleOwners()}
		list := NewOwnerList(gw)
		if _, err := list.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
			t.Fatalf("expected ErrNoPendingDelete, got %v", err)
		}
	})
}

func TestRefreshFailureKeepsCollection(t *testing.T) {
	gw := &fakeOwnerGateway{owners: sampleOwners()}
	list := NewOwnerList(gw)
	_ = list.Refresh(context.Background())

	gw.fetchErr = &api.RequestError{Status: 503}
	res := list.Refresh(context.Background())
	if res.OK || res.Message != "Error al cargar los propietarios" {
		t.Fatalf("unexpected outcome: %+v", res)
	}
	if list.Total() != 2 {
		t.Fatalf("previous collection must survive, got %d", list.Total())
	}
}
