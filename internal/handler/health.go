package handler // declare the package name; contains HTTP handlers

import (
	"context"  // bounding the database ping
	"net/http" // net/http provides status codes and response helpers
	"time"     // ping timeout

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health returns a health-check endpoint used by load balancers and
// monitoring systems.  It answers 200 "ok" while the database responds
// to a ping and 503 otherwise.
func Health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.Logger().Warnf("healthz: database ping failed: %v", err)
			return c.String(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
