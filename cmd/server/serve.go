package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func serveCmd() *cobra.Command {
	var (
		consume bool
		logDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the reservation HTTP API.

The schema is created on startup.  With --consume and RABBITMQ_URL set,
the process also consumes reservation events and appends them to
<log-dir>/reservations.log.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), consume, logDir)
		},
	}

	cmd.Flags().BoolVar(&consume, "consume", false, "Consume reservation events in-process")
	cmd.Flags().StringVar(&logDir, "log-dir", "logs", "Directory for the event log")
	return cmd
}

func serve(parent context.Context, consume bool, logDir string) error {
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL, logger)
		if consume {
			c := &queue.Consumer{URL: cfg.AMQPURL, LogDir: logDir, Logger: logger}
			go func() {
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Errorf("reservation-consumer stopped: %v", err)
				}
			}()
		}
	} else if consume {
		logger.Warn("--consume ignored: RABBITMQ_URL is not set")
	}

	svc := service.NewReservationService(repository.NewReservationRepo(db), events, logger)
	ops := service.WithLogging(svc, logger)

	rl := config.LoadRateLimitConfig()
	var limiter echo.MiddlewareFunc
	if rl.Enabled {
		rdb := config.NewRedisClient(ctx)
		if rdb == nil {
			logger.Warn("redis unavailable, rate limiting disabled")
		} else {
			defer rdb.Close()
		}
		limiter = middleware.NewTokenBucket(rl, rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infoj(log.JSON{
				"event":      "http",
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			})
			return nil
		},
	}))

	router.RegisterRoutes(e, db)
	router.RegisterReservations(e, handler.NewReservationHandler(ops), cfg.JWTSecret, limiter)

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s, driver=%s)", addr, cfg.Env, cfg.DBDriver)

	errc := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
