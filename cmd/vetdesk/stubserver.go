package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vetdesk/internal/config"
	"vetdesk/internal/logging"
	"vetdesk/internal/stubserver"
)

// newStubServerCommand levanta el backend de desarrollo. Sirve la misma API
// que el servidor real de la clínica, con datos sembrados, para poder usar
// el cliente sin infraestructura.
func newStubServerCommand(configFile *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Servidor de desarrollo con datos de ejemplo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Stub.Listen = listen
			}

			log, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			srv, err := stubserver.New(cfg.Stub, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("stub server listening",
				zap.String("addr", cfg.Stub.Listen),
				zap.String("driver", cfg.Stub.Driver),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "dirección de escucha (por defecto la de la configuración)")
	return cmd
}
