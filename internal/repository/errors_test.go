package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create reservation: %w", &ConflictError{Room: "A", ReservationID: 7})

	assert.ErrorIs(t, err, ErrConflict)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(7), ce.ReservationID)
	assert.Contains(t, err.Error(), "room A")
}

func TestClassify(t *testing.T) {
	plain := errors.New("syntax error")

	assert.NoError(t, classify(nil))
	assert.Same(t, plain, classify(plain))
	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}), ErrConcurrentWrite)
	assert.ErrorIs(t, classify(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}), ErrConcurrentWrite)
	assert.NotErrorIs(t, classify(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), ErrConcurrentWrite)
	assert.ErrorIs(t, classify(&pq.Error{Code: "40001"}), ErrConcurrentWrite)
	assert.ErrorIs(t, classify(&pq.Error{Code: "40P01"}), ErrConcurrentWrite)
	assert.NotErrorIs(t, classify(&pq.Error{Code: "23505"}), ErrConcurrentWrite)
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2025, 3, 1, 9, 30, 0, 123456000, time.UTC)

	for _, src := range []any{
		want,
		want.In(time.FixedZone("X", 3600)),
		"2025-03-01 09:30:00.123456",
		[]byte("2025-03-01 09:30:00.123456"),
		"2025-03-01T09:30:00.123456Z",
	} {
		var dt dbTime
		require.NoError(t, dt.Scan(src), "%T %v", src, src)
		assert.True(t, want.Equal(dt.Time), "%T %v", src, src)
		assert.Equal(t, time.UTC, dt.Location())
	}

	var dt dbTime
	assert.Error(t, dt.Scan(nil))
	assert.Error(t, dt.Scan("yesterday"))
	assert.Error(t, dt.Scan(42))
}

func TestToDBTimeIsFixedWidth(t *testing.T) {
	assert.Equal(t, "2025-03-01 09:00:00.000000", toDBTime(time.Date(2025, 3, 1, 10, 0, 0, 999, time.FixedZone("X", 3600))))
	assert.Equal(t, len(dbTimeLayout), len(toDBTime(time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC))))
}
