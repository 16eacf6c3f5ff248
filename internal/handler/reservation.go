package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

// ReservationHandler exposes the reservation operations over HTTP.  It
// only translates between JSON and service calls; every rule about
// conflicts and field validity lives in the service.
type ReservationHandler struct {
	ops service.Operations
}

// NewReservationHandler constructs a handler.  ops must be non-nil.
func NewReservationHandler(ops service.Operations) *ReservationHandler {
	if ops == nil {
		panic("nil operations passed to NewReservationHandler")
	}
	return &ReservationHandler{ops: ops}
}

// Create handles POST /reservations.  It returns 201 with the stored
// reservation and a Location header, 400 on invalid input and 409 when
// the room is already taken for an overlapping interval.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.ops.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/reservations/"+strconv.FormatInt(res.ID, 10))
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ops.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListByRoom handles GET /reservations/room/:room?startDate=&endDate=.
// Missing bounds are treated as the zero time, so a request without an
// endDate matches nothing.
func (h *ReservationHandler) ListByRoom(c echo.Context) error {
	room, err := roomParam(c)
	if err != nil || room == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is required"})
	}
	start, err := parseQueryTime(c.QueryParam("startDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate"})
	}
	end, err := parseQueryTime(c.QueryParam("endDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endDate"})
	}
	list, err := h.ops.ListByRoom(c.Request().Context(), room, start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Update handles PUT /reservations/:id.  The id in the body must equal the
// id in the path.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var in service.UpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.ops.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /reservations/:id.  It returns 204 when a
// reservation was removed and 404 when none existed.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	deleted, err := h.ops.Delete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// writeError maps service and repository errors onto HTTP responses.
// Unknown errors are logged and reported as a bare 500.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	var ce *repository.ConflictError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    ce.Error(),
			"conflict": echo.Map{"room": ce.Room, "id": ce.ReservationID},
		})
	case errors.Is(err, repository.ErrConcurrentWrite):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation changed concurrently, retry"})
	}
	c.Logger().Errorf("reservation request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// roomParam returns the :room segment decoded.  Echo leaves it escaped when
// the request path needed a RawPath, e.g. for a room named "A/B".
func roomParam(c echo.Context) (string, error) {
	room := c.Param("room")
	if c.Request().URL.RawPath != "" {
		var err error
		if room, err = url.PathUnescape(room); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(room), nil
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryTimeLayouts are tried in order; values without a zone are UTC.
var queryTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseQueryTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range queryTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
