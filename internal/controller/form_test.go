package controller

import (
	"context"
	"errors"
	"testing"

	"vetdesk/internal/api"
	"vetdesk/internal/domain"
)

type fakeOwnerSaver struct {
	calls int
	err   error
}

func (f *fakeOwnerSaver) SaveOwner(ctx context.Context, form domain.OwnerForm) (domain.Owner, error) {
	f.calls++
	if f.err != nil {
		return domain.Owner{}, f.err
	}
	saved := domain.Owner{ID: form.ID, FullName: form.FullName, Phone: form.Phone}
	if saved.ID == 0 {
		saved.ID = 1
	}
	return saved, nil
}

func TestOwnerFormSubmit(t *testing.T) {
	t.Run("empty fullName blocks submission and issues no network call", func(t *testing.T) {
		saver := &fakeOwnerSaver{}
		form := NewOwnerForm(nil, saver)
		form.SetForm(domain.OwnerForm{FullName: "", Phone: "111"})

		_, err := form.Submit(context.Background())
		var fieldErrs domain.FieldErrors
		if !errors.As(err, &fieldErrs) {
			t.Fatalf("expected field errors, got %v", err)
		}
		if fieldErrs["fullName"] != "El nombre es obligatorio" {
			t.Fatalf("unexpected message: %q", fieldErrs["fullName"])
		}
		if saver.calls != 0 {
			t.Fatalf("no network call expected, got %d", saver.calls)
		}
		// Los demás valores no se pierden.
		if form.Form().Phone != "111" {
			t.Fatal("other fields must be preserved")
		}
	})

	t.Run("create success resets the form", func(t *testing.T) {
		saver := &fakeOwnerSaver{}
		form := NewOwnerForm(nil, saver)
		form.SetForm(domain.OwnerForm{FullName: "Ana Gomez", Phone: "111"})

		out, err := form.Submit(context.Background())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if !out.OK || out.Message != "Propietario creado correctamente" {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if form.Form().FullName != "" {
			t.Fatal("form must reset on success")
		}
	})

	t.Run("edit mode reports the update message", func(t *testing.T) {
		saver := &fakeOwnerSaver{}
		seed := domain.Owner{ID: 4, FullName: "Ana Gomez", Phone: "111"}
		form := NewOwnerForm(&seed, saver)
		if !form.Editing() {
			t.Fatal("expected edit mode")
		}

		out, err := form.Submit(context.Background())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if out.Message != "Propietario actualizado correctamente" {
			t.Fatalf("unexpected message: %q", out.Message)
		}
	})

	t.Run("save failure keeps entered values", func(t *testing.T) {
		saver := &fakeOwnerSaver{err: &api.RequestError{Status: 500}}
		form := NewOwnerForm(nil, saver)
		form.SetForm(domain.OwnerForm{FullName: "Ana Gomez", Phone: "111"})

		out, err := form.Submit(context.Background())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if out.OK || out.Message != "Error al guardar propietario" {
			t.Fatalf("unexpected outcome: %+v", out)
		}
		if form.Form().FullName != "Ana Gomez" {
			t.Fatal("entered values must survive a failed save")
		}
	})

	t.Run("server message wins over the generic one", func(t *testing.T) {
		saver := &fakeOwnerSaver{err: &api.RequestError{Status: 409, Message: "El teléfono ya existe"}}
		form := NewOwnerForm(nil, saver)
		form.SetForm(domain.OwnerForm{FullName: "Ana", Phone: "111"})

		out, _ := form.Submit(context.Background())
		if out.Message != "El teléfono ya existe" {
			t.Fatalf("unexpected message: %q", out.Message)
		}
	})

	t.Run("second submit while in flight is rejected", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		saver := &blockingPetSaver{release: release, started: started}
		form := NewPetForm(nil, 0, saver)
		form.SetForm(domain.PetForm{Name: "Rocky", OwnerID: 1, SpeciesID: 1, Gender: domain.GenderMale})

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = form.Submit(context.Background())
		}()
		<-started

		if _, err := form.Submit(context.Background()); !errors.Is(err, ErrSaveInFlight) {
			t.Fatalf("expected ErrSaveInFlight, got %v", err)
		}
		close(release)
		<-done
	})
}

type blockingPetSaver struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingPetSaver) SavePet(ctx context.Context, form domain.PetForm) (domain.Pet, error) {
	close(b.started)
	<-b.release
	return domain.Pet{ID: 1}, nil
}

func TestPetFormSpeciesBreedCoupling(t *testing.T) {
	dogs := domain.Species{ID: 1, Name: "Perro"}
	cats := domain.Species{ID: 2, Name: "Gato"}
	breeds := []domain.Breed{
		{ID: 10, Name: "Labrador", Species: &dogs},
		{ID: 11, Name: "Caniche", Species: &dogs},
		{ID: 20, Name: "Siamés", Species: &cats},
	}

	form := NewPetForm(nil, 0, &fakePetSaver{})
	form.SetReferenceData(ReferenceData{Species: []domain.Species{dogs, cats}, Breeds: breeds})

	form.SetSpecies(dogs.ID)
	f := form.Form()
	f.BreedID = 10
	form.SetForm(f)

	// Cambiar de especie limpia la raza elegida y filtra las opciones.
	form.SetSpecies(cats.ID)
	if got := form.Form().BreedID; got != 0 {
		t.Fatalf("breed must reset on species change, got %d", got)
	}
	opts := form.BreedOptions()
	if len(opts) != 1 || opts[0].ID != 20 {
		t.Fatalf("unexpected breed options: %v", opts)
	}

	// Re-seleccionar la misma especie no borra nada.
	f = form.Form()
	f.BreedID = 20
	form.SetForm(f)
	form.SetSpecies(cats.ID)
	if form.Form().BreedID != 20 {
		t.Fatal("same-species selection must keep the breed")
	}

	// Sin especie seleccionada no hay opciones de raza.
	form.SetSpecies(0)
	if opts := form.BreedOptions(); len(opts) != 0 {
		t.Fatalf("expected no options, got %v", opts)
	}
}

type fakePetSaver struct {
	calls int
	err   error
}

func (f *fakePetSaver) SavePet(ctx context.Context, form domain.PetForm) (domain.Pet, error) {
	f.calls++
	if f.err != nil {
		return domain.Pet{}, f.err
	}
	return domain.Pet{ID: 1, Name: form.Name}, nil
}

func TestPetFormOwnerPreset(t *testing.T) {
	form := NewPetForm(nil, 7, &fakePetSaver{})
	if form.Form().OwnerID != 7 {
		t.Fatalf("owner must be pre-populated, got %d", form.Form().OwnerID)
	}
	// Sigue siendo editable.
	f := form.Form()
	f.OwnerID = 9
	form.SetForm(f)
	if form.Form().OwnerID != 9 {
		t.Fatal("preset owner must remain editable")
	}
}
