package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the reservations schema",
		Long: `Create the reservations table and its room/interval index for the
configured DB_DRIVER.  Running it again is harmless.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg)

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Infof("schema ready (driver=%s)", cfg.DBDriver)
			return nil
		},
	}
}
