package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"vetdesk/internal/domain"
)

var ErrNoPendingDelete = errors.New("no hay borrado pendiente de confirmar")

// ListMessages son los textos de notificación del listado.
type ListMessages struct {
	LoadError   string
	Deleted     string
	DeleteError string
}

type fetchFunc[T any] func(ctx context.Context) ([]T, error)

type deleteFunc func(ctx context.Context, id int64) error

// ListController gestiona un listado de entidades: trae la colección
// completa, filtra en memoria por término de búsqueda y ejecuta el flujo
// de borrado confirmado. Tras cualquier mutación exitosa la colección se
// vuelve a traer entera del servidor; nunca se parchea localmente.
type ListController[T any] struct {
	mu            sync.Mutex
	items         []T
	search        string
	loaded        bool
	pendingDelete *T

	fetch  fetchFunc[T]
	remove deleteFunc
	id     func(T) int64
	label  func(T) string
	match  func(T, string) bool
	msgs   ListMessages
}

func newListController[T any](fetch fetchFunc[T], remove deleteFunc, id func(T) int64, label func(T) string, match func(T, string) bool, msgs ListMessages) *ListController[T] {
	return &ListController[T]{fetch: fetch, remove: remove, id: id, label: label, match: match, msgs: msgs}
}

// Refresh trae la colección completa. En fallo la colección previa se
// conserva tal cual.
func (c *ListController[T]) Refresh(ctx context.Context) Outcome {
	items, err := c.fetch(ctx)
	if err != nil {
		return Outcome{OK: false, Message: requestMessage(err, c.msgs.LoadError)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.loaded = true
	return Outcome{OK: true}
}

// Loaded indica si ya llegó al menos un fetch completo.
func (c *ListController[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// SetSearch actualiza el término de filtrado; se aplica en memoria sobre
// la colección ya traída, sin ir a la red.
func (c *ListController[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

func (c *ListController[T]) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Items devuelve la vista filtrada, sin distinguir mayúsculas.
func (c *ListController[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	term := strings.ToLower(strings.TrimSpace(c.search))
	if term == "" {
		return c.items
	}
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.match(item, term) {
			out = append(out, item)
		}
	}
	return out
}

// Total es el tamaño de la colección sin filtrar.
func (c *ListController[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// RequestDelete deja un borrado pendiente de confirmación y devuelve el
// texto del diálogo, nombrando a la entidad objetivo.
func (c *ListController[T]) RequestDelete(item T) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = &item
	return fmt.Sprintf("¿Eliminar a %s? Esta acción no se puede deshacer.", c.label(item))
}

// PendingDelete devuelve la entidad a borrar, o nil si no hay diálogo.
func (c *ListController[T]) PendingDelete() *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

func (c *ListController[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete ejecuta el borrado pendiente: exactamente una llamada de
// borrado y, solo si fue exitosa, exactamente un re-fetch completo. En
// fallo la colección queda como estaba.
func (c *ListController[T]) ConfirmDelete(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.pendingDelete == nil {
		c.mu.Unlock()
		return Outcome{}, ErrNoPendingDelete
	}
	target := *c.pendingDelete
	c.pendingDelete = nil
	c.mu.Unlock()

	if err := c.remove(ctx, c.id(target)); err != nil {
		return Outcome{OK: false, Message: requestMessage(err, c.msgs.DeleteError)}, nil
	}
	if res := c.Refresh(ctx); !res.OK {
		// El borrado sí ocurrió; lo que falló fue recargar.
		return Outcome{OK: true, Message: res.Message}, nil
	}
	return Outcome{OK: true, Message: c.msgs.Deleted}, nil
}

// OwnerLister y PetLister son las operaciones de listado/borrado del
// gateway. *api.Client las satisface.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]domain.Owner, error)
	DeleteOwner(ctx context.Context, id int64) error
}

type PetLister interface {
	ListPets(ctx context.Context) ([]domain.Pet, error)
	DeletePet(ctx context.Context, id int64) error
}

// NewOwnerList filtra por nombre, email y teléfono.
func NewOwnerList(gw OwnerLister) *ListController[domain.Owner] {
	return newListController(
		gw.ListOwners,
		gw.DeleteOwner,
		func(o domain.Owner) int64 { return o.ID },
		func(o domain.Owner) string { return o.FullName },
		matchOwner,
		ListMessages{
			LoadError:   "Error al cargar los propietarios",
			Deleted:     "Propietario eliminado correctamente",
			DeleteError: "Error al eliminar propietario",
		},
	)
}

// NewPetList filtra por nombre, propietario, especie y raza.
func NewPetList(gw PetLister) *ListController[domain.Pet] {
	return newListController(
		gw.ListPets,
		gw.DeletePet,
		func(p domain.Pet) int64 { return p.ID },
		func(p domain.Pet) string { return p.Name },
		matchPet,
		ListMessages{
			LoadError:   "Error al cargar las mascotas",
			Deleted:     "Mascota eliminada correctamente",
			DeleteError: "Error al eliminar mascota",
		},
	)
}

func matchOwner(o domain.Owner, term string) bool {
	return containsFold(term, o.FullName, o.Email, o.Phone)
}

func matchPet(p domain.Pet, term string) bool {
	return containsFold(term, p.Name, p.OwnerName(), p.SpeciesName(), p.BreedName())
}

// containsFold espera el término ya en minúsculas.
func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
