package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// WithLogging wraps ops so that every call logs its input and its result
// as a JSON line.  Expected outcomes (validation, not found, conflicts) are
// logged at WARN, anything else at ERROR.
func WithLogging(ops Operations, logger *log.Logger) Operations {
	return &loggingOperations{next: ops, logger: logger}
}

type loggingOperations struct {
	next   Operations
	logger *log.Logger
}

func (l *loggingOperations) Create(ctx context.Context, in CreateInput) (*model.Reservation, error) {
	start := l.begin("create", in)
	res, err := l.next.Create(ctx, in)
	l.end("create", start, res, err)
	return res, err
}

func (l *loggingOperations) Update(ctx context.Context, id int64, in UpdateInput) (*model.Reservation, error) {
	start := l.begin("update", log.JSON{"id": id, "body": in})
	res, err := l.next.Update(ctx, id, in)
	l.end("update", start, res, err)
	return res, err
}

func (l *loggingOperations) Delete(ctx context.Context, id int64) (bool, error) {
	start := l.begin("delete", log.JSON{"id": id})
	ok, err := l.next.Delete(ctx, id)
	l.end("delete", start, log.JSON{"deleted": ok}, err)
	return ok, err
}

func (l *loggingOperations) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	start := l.begin("get", log.JSON{"id": id})
	res, err := l.next.Get(ctx, id)
	l.end("get", start, res, err)
	return res, err
}

func (l *loggingOperations) ListByRoom(ctx context.Context, room string, from, to time.Time) ([]model.Reservation, error) {
	start := l.begin("list_by_room", log.JSON{"room": room, "startDate": from, "endDate": to})
	list, err := l.next.ListByRoom(ctx, room, from, to)
	l.end("list_by_room", start, log.JSON{"count": len(list)}, err)
	return list, err
}

func (l *loggingOperations) begin(op string, request any) time.Time {
	l.logger.Infoj(log.JSON{"event": "request", "op": op, "request": request})
	return time.Now()
}

func (l *loggingOperations) end(op string, start time.Time, response any, err error) {
	entry := log.JSON{"event": "response", "op": op, "elapsed_ms": time.Since(start).Milliseconds()}
	if err != nil {
		entry["error"] = err.Error()
		if expected(err) {
			l.logger.Warnj(entry)
		} else {
			l.logger.Errorj(entry)
		}
		return
	}
	entry["response"] = response
	l.logger.Infoj(entry)
}

func expected(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, repository.ErrReservationNotFound) ||
		errors.Is(err, repository.ErrConflict) ||
		errors.Is(err, repository.ErrConcurrentWrite)
}
