package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/repository"
)

func TestWithLoggingRecordsRequestAndResponse(t *testing.T) {
	svc, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	var buf bytes.Buffer
	logger := log.New("test")
	logger.SetOutput(&buf)
	ops := WithLogging(svc, logger)
	ctx := context.Background()

	res, err := ops.Create(ctx, booking("A", at(9, 0), at(10, 0)))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"op":"create"`)
	assert.Contains(t, out, `"event":"request"`)
	assert.Contains(t, out, `"event":"response"`)
	assert.Contains(t, out, `"level":"INFO"`)

	buf.Reset()
	_, err = ops.Create(ctx, booking("A", at(9, 0), at(10, 0)))
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), "schedule conflict")

	buf.Reset()
	ok, err := ops.Delete(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), `"deleted":true`)

	buf.Reset()
	list, err := ops.ListByRoom(ctx, "A", at(0, 0), at(23, 0))
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Contains(t, buf.String(), `"count":0`)
}

func TestExpectedErrors(t *testing.T) {
	assert.True(t, expected(&ValidationError{Field: "room", Message: "is required"}))
	assert.True(t, expected(repository.ErrReservationNotFound))
	assert.True(t, expected(&repository.ConflictError{Room: "A", ReservationID: 1}))
	assert.True(t, expected(repository.ErrConcurrentWrite))
	assert.False(t, expected(context.DeadlineExceeded))
}
