package stubserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vetdesk/internal/config"
	"vetdesk/internal/security"
)

// Server arma el stub completo: base de datos migrada y sembrada, firmas
// de token y router HTTP.
type Server struct {
	cfg     config.StubConfig
	handler http.Handler
	log     *zap.Logger
}

func New(cfg config.StubConfig, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db); err != nil {
		return nil, err
	}

	store := NewStore(db)
	signer := security.NewSigner("vetdesk-stub", cfg.JWTSecret)
	h := &handlers{store: store, signer: signer, tokenTTL: cfg.TokenTTL, log: log}
	return &Server{cfg: cfg, handler: newRouter(h, signer, log), log: log}, nil
}

// Handler expone el router para montarlo en un httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run atiende hasta que el contexto se cancele; entonces apaga con gracia.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("stub server listening", zap.String("addr", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stubserver: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stubserver: serve: %w", err)
	}
}
