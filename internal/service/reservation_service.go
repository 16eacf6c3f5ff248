// Package service implements the reservation use cases on top of the
// repository: create, update, delete, get by id and list by room.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/model"
	q "github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// Operations is the set of reservation use cases exposed to the HTTP layer.
type Operations interface {
	Create(ctx context.Context, in CreateInput) (*model.Reservation, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*model.Reservation, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Get(ctx context.Context, id int64) (*model.Reservation, error)
	ListByRoom(ctx context.Context, room string, start, end time.Time) ([]model.Reservation, error)
}

// CreateInput carries the fields of a new reservation.
type CreateInput struct {
	Room       string    `json:"room"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	ReservedBy string    `json:"reservedBy"`
}

// UpdateInput carries the replacement fields of an existing reservation.
// ID must equal the id of the reservation being updated.
type UpdateInput struct {
	ID         int64     `json:"id"`
	Room       string    `json:"room"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	ReservedBy string    `json:"reservedBy"`
}

// eventTimeout bounds how long a committed change waits on the broker.
const eventTimeout = 5 * time.Second

// ReservationService orchestrates the store and the conflict validator.
// Create and update run the conflict check and the write in one
// transaction, so two overlapping requests cannot both commit.
type ReservationService struct {
	repo      *repository.ReservationRepo
	validator *ConflictValidator
	events    EventPublisher
	logger    *log.Logger
}

// NewReservationService wires a service.  A nil publisher disables events.
func NewReservationService(repo *repository.ReservationRepo, events EventPublisher, logger *log.Logger) *ReservationService {
	if repo == nil || logger == nil {
		panic("nil dependency passed to NewReservationService")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &ReservationService{
		repo:      repo,
		validator: NewConflictValidator(repo),
		events:    events,
		logger:    logger,
	}
}

// Create stores a new reservation after checking that its room is free for
// the requested interval.  On conflict nothing is written and a
// *repository.ConflictError is returned.
func (s *ReservationService) Create(ctx context.Context, in CreateInput) (*model.Reservation, error) {
	res := buildReservation(0, in.Room, in.StartDate, in.EndDate, in.ReservedBy)
	if err := validateFields(res); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.validator.ValidateConflict(ctx, tx, res, nil); err != nil {
			return err
		}
		return s.repo.CreateTx(ctx, tx, &res)
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	s.publish(ctx, q.EventCreated, res)
	return &res, nil
}

// Update replaces room, interval and requester of reservation id.  The body
// id must match id; a mismatch is rejected before the store is read.  The
// reservation being updated is excluded from the conflict check.
func (s *ReservationService) Update(ctx context.Context, id int64, in UpdateInput) (*model.Reservation, error) {
	if in.ID != id {
		return nil, &ValidationError{Field: "id", Message: fmt.Sprintf("%d does not match path id %d", in.ID, id)}
	}
	res := buildReservation(id, in.Room, in.StartDate, in.EndDate, in.ReservedBy)
	if err := validateFields(res); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.repo.GetByIDTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.validator.ValidateConflict(ctx, tx, res, &id); err != nil {
			return err
		}
		return s.repo.UpdateTx(ctx, tx, &res)
	})
	if err != nil {
		return nil, fmt.Errorf("update reservation %d: %w", id, err)
	}
	s.publish(ctx, q.EventUpdated, res)
	return &res, nil
}

// Delete removes reservation id.  It returns false, without error, when the
// reservation does not exist.
func (s *ReservationService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete reservation %d: %w", id, err)
	}
	if ok {
		s.publish(ctx, q.EventDeleted, model.Reservation{ID: id})
	}
	return ok, nil
}

// Get returns reservation id or repository.ErrReservationNotFound.
func (s *ReservationService) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByRoom returns the reservations of room overlapping [start, end).
func (s *ReservationService) ListByRoom(ctx context.Context, room string, start, end time.Time) ([]model.Reservation, error) {
	return s.repo.ListByRoomInRange(ctx, strings.TrimSpace(room), start, end)
}

// publish emits a change event once the write has committed.  The request
// context may already be cancelled by then, so only its values are kept.
func (s *ReservationService) publish(ctx context.Context, kind string, res model.Reservation) {
	ev := q.ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          kind,
		ReservationID: res.ID,
		Room:          res.Room,
		ReservedBy:    res.ReservedBy,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if !res.StartDate.IsZero() {
		ev.StartDate = res.StartDate.Format(time.RFC3339Nano)
		ev.EndDate = res.EndDate.Format(time.RFC3339Nano)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warnj(log.JSON{"msg": "reservation event not published", "type": kind, "reservation_id": res.ID, "error": err.Error()})
	}
}

// buildReservation trims text fields and normalises times to UTC at the
// precision the store keeps.
func buildReservation(id int64, room string, start, end time.Time, reservedBy string) model.Reservation {
	return model.Reservation{
		ID:         id,
		Room:       strings.TrimSpace(room),
		StartDate:  start.UTC().Truncate(time.Microsecond),
		EndDate:    end.UTC().Truncate(time.Microsecond),
		ReservedBy: strings.TrimSpace(reservedBy),
	}
}

func validateFields(res model.Reservation) error {
	switch {
	case res.Room == "":
		return &ValidationError{Field: "room", Message: "is required"}
	case res.ReservedBy == "":
		return &ValidationError{Field: "reservedBy", Message: "is required"}
	case res.StartDate.IsZero():
		return &ValidationError{Field: "startDate", Message: "is required"}
	case res.EndDate.IsZero():
		return &ValidationError{Field: "endDate", Message: "is required"}
	case !res.StartDate.Before(res.EndDate):
		return &ValidationError{Field: "endDate", Message: "must be after startDate"}
	}
	return nil
}
