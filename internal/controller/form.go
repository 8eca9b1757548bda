// Package controller implementa el patrón compartido de las pantallas de
// gestión: formulario crear/editar con validación local y guardado, y
// listado con filtro en memoria, borrado confirmado y re-fetch tras cada
// mutación. Los controladores no conocen el toolkit de la interfaz;
// devuelven resultados explícitos en lugar de invocar callbacks.
package controller

import (
	"context"
	"errors"
	"sync"

	"vetdesk/internal/api"
	"vetdesk/internal/domain"
)

// Outcome es el resultado de una operación que la pantalla traduce a una
// notificación transitoria.
type Outcome struct {
	OK      bool
	Message string
}

var ErrSaveInFlight = errors.New("ya hay un guardado en curso")

// FormMessages son los textos de notificación del formulario, por entidad
// y modo (alta o edición).
type FormMessages struct {
	Created   string
	Updated   string
	SaveError string
}

type validateFunc[F any] func(F) domain.FieldErrors

type saveFunc[F any] func(ctx context.Context, form F) error

// FormController gestiona un formulario crear-o-editar genérico sobre el
// registro F. Se siembra vacío (alta) o desde la entidad existente
// (edición, ID presente).
type FormController[F any] struct {
	mu        sync.Mutex
	form      F
	editing   bool
	fieldErrs domain.FieldErrors
	inFlight  bool
	validate  validateFunc[F]
	save      saveFunc[F]
	msgs      FormMessages
}

func newFormController[F any](seed F, editing bool, validate validateFunc[F], save saveFunc[F], msgs FormMessages) *FormController[F] {
	return &FormController[F]{form: seed, editing: editing, validate: validate, save: save, msgs: msgs}
}

// Form devuelve la copia editable actual del registro.
func (c *FormController[F]) Form() F {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetForm reemplaza el registro con los valores editados en pantalla.
func (c *FormController[F]) SetForm(form F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

func (c *FormController[F]) Editing() bool {
	return c.editing
}

// FieldErrors devuelve el feedback por campo del último intento de envío.
func (c *FormController[F]) FieldErrors() domain.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrs
}

// Submitting indica si hay un guardado en vuelo; la pantalla deshabilita
// el control de envío mientras tanto.
func (c *FormController[F]) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submit valida y guarda. La validación corre completa antes de cualquier
// llamada de red; si falla, marca los campos y no toca la red. En éxito
// resetea el formulario; en fallo los valores quedan intactos para
// reintentar. Solo un guardado en vuelo a la vez.
func (c *FormController[F]) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Outcome{}, ErrSaveInFlight
	}
	form := c.form
	if errs := c.validate(form); len(errs) > 0 {
		c.fieldErrs = errs
		c.mu.Unlock()
		return Outcome{}, errs
	}
	c.fieldErrs = nil
	c.inFlight = true
	c.mu.Unlock()

	err := c.save(ctx, form)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return Outcome{OK: false, Message: requestMessage(err, c.msgs.SaveError)}, nil
	}
	var zero F
	c.form = zero
	msg := c.msgs.Created
	if c.editing {
		msg = c.msgs.Updated
	}
	return Outcome{OK: true, Message: msg}, nil
}

// requestMessage prefiere el mensaje del servidor cuando el fallo es un
// RequestError con payload; si no, usa el fallback localizado.
func requestMessage(err error, fallback string) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
