package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"vetdesk/internal/domain"
	"vetdesk/internal/security"
)

type handlers struct {
	store    *Store
	signer   *security.Signer
	tokenTTL time.Duration
	log      *zap.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}
	user, err := h.store.FindUser(req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		h.internalError(w, "find user", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	token, err := h.signer.Sign(user.Username, h.tokenTTL)
	if err != nil {
		h.internalError(w, "sign token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *handlers) listOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.store.ListOwners()
	if err != nil {
		h.internalError(w, "list owners", err)
		return
	}
	out := make([]domain.Owner, 0, len(owners))
	for _, o := range owners {
		out = append(out, o.toDomain(true))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) findOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	owner, err := h.store.FindOwner(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Propietario no encontrado")
			return
		}
		h.internalError(w, "find owner", err)
		return
	}
	writeJSON(w, http.StatusOK, owner.toDomain(true))
}

type ownerSaveRequest struct {
	ID       *int64 `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (h *handlers) saveOwner(w http.ResponseWriter, r *http.Request) {
	var req ownerSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}
	if req.FullName == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "Nombre y teléfono son obligatorios")
		return
	}
	owner := Owner{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if req.ID != nil {
		owner.ID = *req.ID
	}
	saved, err := h.store.SaveOwner(&owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Propietario no encontrado")
			return
		}
		h.internalError(w, "save owner", err)
		return
	}
	writeJSON(w, http.StatusOK, saved.toDomain(true))
}

func (h *handlers) deleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteOwner(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Propietario no encontrado")
			return
		}
		h.internalError(w, "delete owner", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Propietario eliminado"})
}

func (h *handlers) listPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.store.ListPets()
	if err != nil {
		h.internalError(w, "list pets", err)
		return
	}
	out := make([]domain.Pet, 0, len(pets))
	for _, p := range pets {
		out = append(out, p.toDomain())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) findPet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pet, err := h.store.FindPet(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mascota no encontrada")
			return
		}
		h.internalError(w, "find pet", err)
		return
	}
	writeJSON(w, http.StatusOK, pet.toDomain())
}

type petSaveRequest struct {
	ID        *int64       `json:"id"`
	Name      string       `json:"name"`
	Owner     *idRef       `json:"owner"`
	Species   *idRef       `json:"species"`
	Breed     *idRef       `json:"breed"`
	BirthDate *domain.Date `json:"birthDate"`
	Gender    string       `json:"gender"`
	Color     string       `json:"color"`
	WeightKg  float64      `json:"weightKg"`
	Microchip string       `json:"microchip"`
	PhotoURL  string       `json:"photoUrl"`
}

type idRef struct {
	ID int64 `json:"id"`
}

func (h *handlers) savePet(w http.ResponseWriter, r *http.Request) {
	var req petSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Petición inválida")
		return
	}
	if req.Name == "" || req.Owner == nil || req.Species == nil || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "Nombre, propietario, especie y género son obligatorios")
		return
	}
	if _, err := h.store.FindOwner(req.Owner.ID); err != nil {
		writeError(w, http.StatusBadRequest, "El propietario no existe")
		return
	}
	if _, err := h.store.FindSpecies(req.Species.ID); err != nil {
		writeError(w, http.StatusBadRequest, "La especie no existe")
		return
	}
	pet := Pet{
		Name:      req.Name,
		OwnerID:   req.Owner.ID,
		SpeciesID: req.Species.ID,
		Gender:    req.Gender,
		Color:     req.Color,
		WeightKg:  req.WeightKg,
		Microchip: req.Microchip,
		PhotoURL:  req.PhotoURL,
	}
	if req.ID != nil {
		pet.ID = *req.ID
	}
	if req.Breed != nil {
		breed, err := h.store.FindBreed(req.Breed.ID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "La raza no existe")
			return
		}
		if breed.SpeciesID != req.Species.ID {
			writeError(w, http.StatusBadRequest, "La raza no corresponde a la especie")
			return
		}
		pet.BreedID = &breed.ID
	}
	if req.BirthDate != nil && !req.BirthDate.IsZero() {
		t := req.BirthDate.Time()
		pet.BirthDate = &t
	}
	saved, err := h.store.SavePet(&pet)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mascota no encontrada")
			return
		}
		h.internalError(w, "save pet", err)
		return
	}
	writeJSON(w, http.StatusOK, saved.toDomain())
}

func (h *handlers) deletePet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeletePet(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Mascota no encontrada")
			return
		}
		h.internalError(w, "delete pet", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Mascota eliminada"})
}

func (h *handlers) listSpecies(w http.ResponseWriter, r *http.Request) {
	species, err := h.store.ListSpecies()
	if err != nil {
		h.internalError(w, "list species", err)
		return
	}
	out := make([]domain.Species, 0, len(species))
	for _, sp := range species {
		out = append(out, sp.toDomain())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) listBreeds(w http.ResponseWriter, r *http.Request) {
	breeds, err := h.store.ListBreeds()
	if err != nil {
		h.internalError(w, "list breeds", err)
		return
	}
	out := make([]domain.Breed, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, b.toDomain())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) internalError(w http.ResponseWriter, op string, err error) {
	h.log.Error("stub handler failed", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Error interno del servidor")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Identificador inválido")
		return 0, false
	}
	return id, true
}
