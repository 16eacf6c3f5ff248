package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/model"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx so read helpers can run
// on the pool or inside a caller's transaction.
type Querier interface {
	sqlx.ExtContext
}

// ReservationRepo provides CRUD operations for reservations.  Queries are
// written with ? placeholders and rebound for the active driver.  All
// timestamps are stored in UTC.
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// reservationRecord mirrors the schema of the reservations table.  It is
// used internally when scanning rows; callers receive model.Reservation.
type reservationRecord struct {
	ID         int64  `db:"id"`
	Room       string `db:"room"`
	StartDate  dbTime `db:"start_date"`
	EndDate    dbTime `db:"end_date"`
	ReservedBy string `db:"reserved_by"`
}

func (rec reservationRecord) toModel() model.Reservation {
	return model.Reservation{
		ID:         rec.ID,
		Room:       rec.Room,
		StartDate:  rec.StartDate.Time,
		EndDate:    rec.EndDate.Time,
		ReservedBy: rec.ReservedBy,
	}
}

const selectReservation = `SELECT id, room, start_date, end_date, reserved_by FROM reservations`

// WithTx runs fn inside a transaction using the isolation level the driver
// needs for check-and-write sequences.  The transaction is committed when fn
// returns nil and rolled back otherwise.  Serialisation failures reported by
// the engine come back as ErrConcurrentWrite.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, database.TxOptions(r.db.DriverName()))
	if err != nil {
		return classify(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return classify(tx.Commit())
}

// GetByID retrieves a reservation by its ID.  It returns
// ErrReservationNotFound if there is no matching row.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return getByID(ctx, r.db, id)
}

// GetByIDTx is GetByID within the scope of an existing transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Reservation, error) {
	return getByID(ctx, tx, id)
}

func getByID(ctx context.Context, q Querier, id int64) (*model.Reservation, error) {
	var rec reservationRecord
	err := sqlx.GetContext(ctx, q, &rec, q.Rebind(selectReservation+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, classify(err)
	}
	res := rec.toModel()
	return &res, nil
}

// ListByRoomInRange returns every reservation of room whose interval
// overlaps [start, end).  An existing reservation overlaps when it starts
// before end and ends after start, so touching intervals are excluded.
// Results are ordered by start time; an empty slice is returned when
// nothing matches.
func (r *ReservationRepo) ListByRoomInRange(ctx context.Context, room string, start, end time.Time) ([]model.Reservation, error) {
	const q = selectReservation + ` WHERE room = ? AND start_date < ? AND end_date > ? ORDER BY start_date, id`
	var recs []reservationRecord
	if err := sqlx.SelectContext(ctx, r.db, &recs, r.db.Rebind(q), room, toDBTime(end), toDBTime(start)); err != nil {
		return nil, classify(err)
	}
	out := make([]model.Reservation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

// FindConflict returns the first reservation of room that overlaps
// [start, end), skipping excludeID when it is non-nil.  It returns nil and
// no error when the interval is free.  Which of several overlapping rows is
// returned is up to the database.
func (r *ReservationRepo) FindConflict(ctx context.Context, q Querier, room string, start, end time.Time, excludeID *int64) (*model.Reservation, error) {
	query := selectReservation + ` WHERE room = ? AND start_date < ? AND end_date > ?`
	args := []any{room, toDBTime(end), toDBTime(start)}
	if excludeID != nil {
		query += ` AND id <> ?`
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`

	var rec reservationRecord
	if err := sqlx.GetContext(ctx, q, &rec, q.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	res := rec.toModel()
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID.  Start and end are stored in
// UTC at microsecond precision and written back to res in that form.  The
// caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, res *model.Reservation) error {
	normalise(res)
	const q = `INSERT INTO reservations (room, start_date, end_date, reserved_by) VALUES (?, ?, ?, ?)`
	args := []any{res.Room, toDBTime(res.StartDate), toDBTime(res.EndDate), res.ReservedBy}

	// lib/pq does not implement LastInsertId
	if tx.DriverName() == config.DriverPostgres {
		if err := tx.QueryRowxContext(ctx, tx.Rebind(q+` RETURNING id`), args...).Scan(&res.ID); err != nil {
			return classify(err)
		}
		return nil
	}
	result, err := tx.ExecContext(ctx, tx.Rebind(q), args...)
	if err != nil {
		return classify(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id
	return nil
}

// UpdateTx overwrites room, start, end and reserved_by of the row with
// res.ID.  The caller is expected to have loaded the row in the same
// transaction, so a missing row is not reported here.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, res *model.Reservation) error {
	normalise(res)
	const q = `UPDATE reservations SET room = ?, start_date = ?, end_date = ?, reserved_by = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, tx.Rebind(q),
		res.Room, toDBTime(res.StartDate), toDBTime(res.EndDate), res.ReservedBy, res.ID)
	return classify(err)
}

// Delete removes the reservation with the given ID.  It reports false when
// no such row existed.
func (r *ReservationRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM reservations WHERE id = ?`), id)
	if err != nil {
		return false, classify(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func normalise(res *model.Reservation) {
	res.StartDate = res.StartDate.UTC().Truncate(time.Microsecond)
	res.EndDate = res.EndDate.UTC().Truncate(time.Microsecond)
}
