package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims es la identidad decodificada de un token de acceso.
type Claims struct {
	jwt.RegisteredClaims
}

// Username es el nombre de usuario autenticado (subject del token).
func (c *Claims) Username() string {
	return c.Subject
}

// Expired indica si el token venció. Un token sin exp no se considera
// vencido; el servidor es quien manda sobre su validez real.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

var ErrMalformedToken = errors.New("malformed token")

// DecodeClaims decodifica los claims de un token sin verificar la firma.
// El cliente no posee el secreto; verificar es trabajo del servidor en
// cada request. Aquí solo se necesitan subject y expiración.
func DecodeClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}
	return claims, nil
}
