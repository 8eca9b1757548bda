package integration

import (
	"context"
	"testing"

	"vetdesk/internal/api"
	"vetdesk/internal/controller"
	"vetdesk/internal/domain"
	"vetdesk/internal/session"
	"vetdesk/internal/stubserver"
)

func loggedInClient(t *testing.T) (*session.Store, *api.Client) {
	t.Helper()
	ts := newStub(t)
	store := session.NewStore(session.NewMemoryStorage(""), nil)
	gw := newClient(t, ts, store)
	if res := store.Login(context.Background(), gw, stubserver.DemoUsername, stubserver.DemoPassword); !res.OK {
		t.Fatalf("login failed: %s", res.Message)
	}
	return store, gw
}

func TestOwnerLifecycleThroughControllers(t *testing.T) {
	_, gw := loggedInClient(t)
	ctx := context.Background()

	// Alta vía formulario.
	form := controller.NewOwnerForm(nil, gw)
	form.SetForm(domain.OwnerForm{
		FullName: "Lucía Fernández",
		Phone:    "600111222",
		Email:    "lucia@example.com",
	})
	out, err := form.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.OK || out.Message != "Propietario creado correctamente" {
		t.Fatalf("outcome = %+v", out)
	}

	// El listado la ve y el filtro la encuentra.
	list := controller.NewOwnerList(gw)
	if out := list.Refresh(ctx); !out.OK {
		t.Fatalf("refresh: %s", out.Message)
	}
	list.SetSearch("lucía")
	items := list.Items()
	if len(items) != 1 || items[0].FullName != "Lucía Fernández" {
		t.Fatalf("filtered items = %+v", items)
	}
	created := items[0]

	// Edición conserva el id y actualiza el registro.
	edit := controller.NewOwnerForm(&created, gw)
	f := edit.Form()
	f.Phone = "600999888"
	edit.SetForm(f)
	if out, err := edit.Submit(ctx); err != nil || !out.OK {
		t.Fatalf("edit submit: out=%+v err=%v", out, err)
	}

	list.SetSearch("600999888")
	if out := list.Refresh(ctx); !out.OK {
		t.Fatalf("refresh after edit: %s", out.Message)
	}
	if got := list.Items(); len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("edited owner not found by new phone: %+v", got)
	}

	// Borrado confirmado: ejecuta el delete y recarga la colección.
	list.SetSearch("")
	before := list.Total()
	list.RequestDelete(created)
	out, err = list.ConfirmDelete(ctx)
	if err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if !out.OK {
		t.Fatalf("delete outcome = %+v", out)
	}
	if list.Total() != before-1 {
		t.Fatalf("total after delete = %d, want %d", list.Total(), before-1)
	}
}

func TestPetLifecycleThroughControllers(t *testing.T) {
	_, gw := loggedInClient(t)
	ctx := context.Background()

	// Primero hace falta un propietario.
	ownerForm := controller.NewOwnerForm(nil, gw)
	ownerForm.SetForm(domain.OwnerForm{FullName: "Marta Ruiz", Phone: "611222333"})
	if out, err := ownerForm.Submit(ctx); err != nil || !out.OK {
		t.Fatalf("owner submit: out=%+v err=%v", out, err)
	}

	data, out := controller.LoadReferenceData(ctx, gw)
	if !out.OK {
		t.Fatalf("reference data: %s", out.Message)
	}
	if len(data.Owners) == 0 || len(data.Species) == 0 || len(data.Breeds) == 0 {
		t.Fatalf("reference data incomplete: %+v", data)
	}
	owner := data.Owners[len(data.Owners)-1]
	species := data.Species[0]
	breeds := controller.FilterBreeds(data.Breeds, species.ID)
	if len(breeds) == 0 {
		t.Fatalf("no breeds for species %d", species.ID)
	}

	birth := domain.NewDate(2021, 5, 10)
	petForm := controller.NewPetForm(nil, owner.ID, gw)
	f := petForm.Form()
	f.Name = "Rocky"
	f.SpeciesID = species.ID
	f.BreedID = breeds[0].ID
	f.Gender = domain.GenderMale
	f.BirthDate = &birth
	f.WeightKg = 12.5
	petForm.SetForm(f)

	if out, err := petForm.Submit(ctx); err != nil || !out.OK {
		t.Fatalf("pet submit: out=%+v err=%v", out, err)
	}

	list := controller.NewPetList(gw)
	if out := list.Refresh(ctx); !out.OK {
		t.Fatalf("refresh: %s", out.Message)
	}
	list.SetSearch("rocky")
	items := list.Items()
	if len(items) != 1 {
		t.Fatalf("filtered pets = %+v", items)
	}
	pet := items[0]
	if pet.OwnerName() != "Marta Ruiz" || pet.SpeciesName() != species.Name {
		t.Fatalf("pet references wrong: owner=%q species=%q", pet.OwnerName(), pet.SpeciesName())
	}

	// El filtro también encuentra por nombre del propietario.
	list.SetSearch("marta")
	if got := list.Items(); len(got) != 1 || got[0].ID != pet.ID {
		t.Fatalf("search by owner name failed: %+v", got)
	}

	list.SetSearch("")
	before := list.Total()
	list.RequestDelete(pet)
	if out, err := list.ConfirmDelete(ctx); err != nil || !out.OK {
		t.Fatalf("delete: out=%+v err=%v", out, err)
	}
	if list.Total() != before-1 {
		t.Fatalf("total after delete = %d, want %d", list.Total(), before-1)
	}
}
