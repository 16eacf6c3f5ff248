package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

func TestValidateConflict(t *testing.T) {
	svc, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	existing, err := svc.Create(ctx, booking("A", at(9, 0), at(10, 0)))
	require.NoError(t, err)

	repo := svc.repo
	v := NewConflictValidator(repo)
	candidate := model.Reservation{Room: "A", StartDate: at(9, 15), EndDate: at(9, 45)}

	err = repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		return v.ValidateConflict(ctx, tx, candidate, nil)
	})
	var ce *repository.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, existing.ID, ce.ReservationID)

	err = repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		return v.ValidateConflict(ctx, tx, candidate, &existing.ID)
	})
	assert.NoError(t, err)

	candidate.StartDate, candidate.EndDate = at(10, 0), at(11, 0)
	err = repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		return v.ValidateConflict(ctx, tx, candidate, nil)
	})
	assert.NoError(t, err)
}
