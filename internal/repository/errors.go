// Package repository defines error types that are reused across the
// reservation store and the layers above it.  These values allow handlers
// to distinguish between failure scenarios: ErrReservationNotFound maps to
// 404, ErrConflict and ErrConcurrentWrite map to 409.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrReservationNotFound indicates that no reservation has the requested id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrConflict is returned when a reservation would overlap another
// reservation of the same room.  The concrete error is a *ConflictError.
var ErrConflict = errors.New("conflict")

// ErrConcurrentWrite is returned when the database aborted a check-and-write
// transaction because another transaction touched the same rows.  Nothing
// was written; the caller may submit the request again.
var ErrConcurrentWrite = errors.New("concurrent write")

// ConflictError identifies the reservation that blocks a create or update.
type ConflictError struct {
	Room          string
	ReservationID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict in room %s with reservation %d", e.Room, e.ReservationID)
}

// Is lets errors.Is(err, ErrConflict) match any ConflictError.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// MySQL and PostgreSQL codes for aborted serialisable transactions.
const (
	mysqlLockDeadlock    = 1213
	mysqlLockWaitTimeout = 1205
	pqSerialization      = "40001"
	pqDeadlock           = "40P01"
)

// classify wraps driver errors that mean "lost a race" in ErrConcurrentWrite
// and returns every other error unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlLockDeadlock || me.Number == mysqlLockWaitTimeout) {
		return fmt.Errorf("%w: %v", ErrConcurrentWrite, err)
	}
	var pe *pq.Error
	if errors.As(err, &pe) && (pe.Code == pqSerialization || pe.Code == pqDeadlock) {
		return fmt.Errorf("%w: %v", ErrConcurrentWrite, err)
	}
	return err
}
