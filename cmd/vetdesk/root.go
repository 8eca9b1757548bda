package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vetdesk/internal/api"
	"vetdesk/internal/config"
	"vetdesk/internal/logging"
	"vetdesk/internal/session"
	"vetdesk/internal/ui"
)

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "vetdesk",
		Short: "Cliente de terminal para la clínica veterinaria",
		Long: "vetdesk gestiona propietarios y mascotas contra la API de la clínica.\n" +
			"Los logs van a archivo; la terminal queda para la interfaz.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configFile)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "archivo de configuración (por defecto vetdesk.yaml)")
	cmd.AddCommand(newStubServerCommand(&configFile))
	return cmd
}

func runTUI(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tokenPath := cfg.Session.TokenPath
	if tokenPath == "" {
		tokenPath, err = session.DefaultTokenPath()
		if err != nil {
			return err
		}
	}

	store := session.NewStore(session.NewFileStorage(tokenPath), log)
	gateway, err := api.New(cfg.API.BaseURL, cfg.API.Timeout, store, log)
	if err != nil {
		return err
	}

	log.Info("starting vetdesk",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("token_path", tokenPath),
	)

	program := tea.NewProgram(ui.NewApp(store, gateway, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
