package model

import "time"

// Reservation books a room for the half-open interval [StartDate, EndDate).
// ID is assigned by the store on insert and never changes afterwards.
//
// Fields:
//  ID         – primary key identifier.
//  Room       – name of the room being booked.
//  StartDate  – inclusive start of the booking (UTC).
//  EndDate    – exclusive end of the booking (UTC).
//  ReservedBy – who asked for the room.
type Reservation struct {
	ID         int64     `json:"id"`         // reservations.id
	Room       string    `json:"room"`       // reservations.room
	StartDate  time.Time `json:"startDate"`  // reservations.start_date
	EndDate    time.Time `json:"endDate"`    // reservations.end_date
	ReservedBy string    `json:"reservedBy"` // reservations.reserved_by
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any
// instant.  Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Overlaps reports whether r and other cover a common instant.  The room is
// not compared; callers filter by room first.
func (r Reservation) Overlaps(other Reservation) bool {
	return Overlaps(r.StartDate, r.EndDate, other.StartDate, other.EndDate)
}
