package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetdesk/internal/security"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	claimsKey    contextKey = "claims"
)

func newRouter(h *handlers, signer *security.Signer, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(log))

	r.Post("/login", h.login)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(signer))
		r.Get("/owners", h.listOwners)
		r.Get("/owners/find/{id}", h.findOwner)
		r.Post("/owners/save", h.saveOwner)
		r.Delete("/owners/delete/{id}", h.deleteOwner)

		r.Get("/pets", h.listPets)
		r.Get("/pets/find/{id}", h.findPet)
		r.Post("/pets/save", h.savePet)
		r.Delete("/pets/delete/{id}", h.deletePet)

		r.Get("/species", h.listSpecies)
		r.Get("/breeds", h.listBreeds)
	})

	return r
}

// requestID propaga el X-Request-Id del cliente o genera uno.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			id, _ := r.Context().Value(requestIDKey).(string)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", id))
		})
	}
}

func authMiddleware(signer *security.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				writeError(w, http.StatusUnauthorized, "No autorizado")
				return
			}
			raw := strings.TrimSpace(auth[7:])
			claims, err := signer.Parse(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token inválido o vencido")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
