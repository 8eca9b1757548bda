// Package session mantiene el estado de autenticación del cliente:
// token vigente, claims decodificados y el ciclo de vida
// Unauthenticated -> Checking -> Authenticated -> Unauthenticated.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vetdesk/internal/api"
	"vetdesk/internal/security"
)

type State int

const (
	Unauthenticated State = iota
	Checking
	Authenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Authenticator es la operación de login del gateway. *api.Client la
// satisface; los tests inyectan fakes.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// LoginResult es el resultado explícito de un intento de login; Message
// solo viene poblado en fallo y es mostrable al usuario.
type LoginResult struct {
	OK      bool
	Message string
}

const genericLoginError = "Error al iniciar sesión"

// Store es el único escritor del token compartido. Implementa
// api.TokenSource: entrar a Authenticated arma el token para todas las
// llamadas salientes y salir lo desarma.
type Store struct {
	mu      sync.Mutex
	state   State
	token   string
	claims  *security.Claims
	storage TokenStorage
	log     *zap.Logger
}

func NewStore(storage TokenStorage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{state: Unauthenticated, storage: storage, log: log}
}

// Token implementa api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated {
		return ""
	}
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Claims devuelve la identidad decodificada, o nil sin sesión.
func (s *Store) Claims() *security.Claims {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims == nil {
		return ""
	}
	return s.claims.Username()
}

// Login autentica contra el gateway. En éxito persiste el token, decodifica
// claims y pasa a Authenticated. En fallo queda Unauthenticated y devuelve
// el mensaje del servidor, o uno genérico si no lo hay.
func (s *Store) Login(ctx context.Context, auth Authenticator, username, password string) LoginResult {
	token, err := auth.Login(ctx, username, password)
	if err != nil {
		s.log.Info("login rejected", zap.String("username", username), zap.Error(err))
		return LoginResult{OK: false, Message: loginMessage(err)}
	}

	claims, err := security.DecodeClaims(token)
	if err != nil {
		s.log.Warn("login returned undecodable token", zap.Error(err))
		return LoginResult{OK: false, Message: genericLoginError}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(token); err != nil {
		// La sesión sigue siendo válida en memoria; solo no sobrevive
		// al reinicio.
		s.log.Warn("token not persisted", zap.Error(err))
	}
	s.token = token
	s.claims = claims
	s.state = Authenticated
	s.log.Info("session started", zap.String("username", claims.Username()))
	return LoginResult{OK: true}
}

// Logout descarta token y claims incondicionalmente. No hay llamada al
// servidor: el logout es solo del cliente.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		s.log.Warn("token not cleared from storage", zap.Error(err))
	}
	s.token = ""
	s.claims = nil
	s.state = Unauthenticated
	s.log.Info("session ended")
}

// CheckAuth valida el token persistido al arranque. Token ausente,
// indecodificable o vencido deja la sesión en Unauthenticated (y limpia
// el almacenamiento); es idempotente.
func (s *Store) CheckAuth() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Checking

	token, err := s.storage.Load()
	if err != nil || token == "" {
		if err != nil {
			s.log.Warn("token storage unreadable", zap.Error(err))
		}
		return s.dropSession(false)
	}

	claims, err := security.DecodeClaims(token)
	if err != nil {
		s.log.Info("stored token undecodable, discarding")
		return s.dropSession(true)
	}
	if claims.Expired(time.Now()) {
		s.log.Info("stored token expired, discarding")
		return s.dropSession(true)
	}

	s.token = token
	s.claims = claims
	s.state = Authenticated
	s.log.Info("session restored", zap.String("username", claims.Username()))
	return s.state
}

// dropSession requiere el lock tomado.
func (s *Store) dropSession(clearStorage bool) State {
	if clearStorage {
		if err := s.storage.Clear(); err != nil {
			s.log.Warn("token not cleared from storage", zap.Error(err))
		}
	}
	s.token = ""
	s.claims = nil
	s.state = Unauthenticated
	return s.state
}

func loginMessage(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return genericLoginError
}
