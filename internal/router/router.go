package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/room-reservation/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/room-reservation/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers non-authenticated routes on the provided Echo
// instance.  Currently it exposes only a health check that pings db.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterReservations registers the reservation endpoints.  Reads are
// public.  Mutating routes go through JWTAuth, which is a no-op when
// jwtSecret is empty.  limiter runs after JWTAuth so per-user buckets see
// the token subject.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	if limiter == nil {
		limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g := e.Group("/reservations")
	auth := middleware.JWTAuth(jwtSecret)

	g.GET("/:id", h.Get, limiter)
	g.GET("/room/:room", h.ListByRoom, limiter)

	g.POST("", h.Create, auth, limiter)
	g.PUT("/:id", h.Update, auth, limiter)
	g.DELETE("/:id", h.Delete, auth, limiter)
}
