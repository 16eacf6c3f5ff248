package main // Entry point package

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/room-reservation/internal/config" // Internal config loader
)

var RootCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Room reservation service",
	Long: `Room reservation service

Stores room reservations and rejects any reservation whose interval
overlaps another reservation of the same room.

environment:
    APP_ENV, APP_PORT        required
    DB_DRIVER                mysql (default), postgres or sqlite
    DB_DSN or DB_USER/DB_PASS/DB_HOST/DB_PORT/DB_NAME
    JWT_SECRET               enables bearer auth on mutating routes
    RABBITMQ_URL             enables reservation events
    REDIS_ADDR               backs the rate limiter
    LOG_LEVEL                debug, info, warn or error
`,
	SilenceUsage: true,
}

func main() {
	RootCmd.AddCommand(serveCmd(), migrateCmd(), tokenCmd())
	// no subcommand runs the server with its default flags
	RootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), false, "logs")
	}

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns the JSON logger shared by every subcommand.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.New("reservations")
	logger.SetLevel(cfg.Level())
	return logger
}
