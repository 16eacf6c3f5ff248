package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// ConflictValidator rejects reservations that would overlap an existing
// reservation of the same room.  It only reads; running it inside the
// transaction that performs the write is what makes the check binding.
type ConflictValidator struct {
	repo *repository.ReservationRepo
}

// NewConflictValidator returns a validator backed by repo.
func NewConflictValidator(repo *repository.ReservationRepo) *ConflictValidator {
	return &ConflictValidator{repo: repo}
}

// ValidateConflict checks candidate's room and interval against the rows
// visible to q.  candidate.ID is ignored; pass the id of the reservation
// being updated as excludeID so it does not collide with itself.  It
// returns a *repository.ConflictError naming the first blocking
// reservation found, or nil when the slot is free.
func (v *ConflictValidator) ValidateConflict(ctx context.Context, q repository.Querier, candidate model.Reservation, excludeID *int64) error {
	existing, err := v.repo.FindConflict(ctx, q, candidate.Room, candidate.StartDate, candidate.EndDate, excludeID)
	if err != nil {
		return fmt.Errorf("check conflicts: %w", err)
	}
	if existing != nil {
		return &repository.ConflictError{Room: existing.Room, ReservationID: existing.ID}
	}
	return nil
}
