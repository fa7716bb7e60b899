package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/billbook/internal/config"
	"github.com/mmynk/billbook/pkg/logging"
)

// newMigrateCmd applies pending schema migrations and exits. Opening a store
// migrates it, so this is the same path serve takes at startup.
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logger.Info("Migrations applied", "driver", cfg.DBDriver)
			return store.Close()
		},
	}
}
