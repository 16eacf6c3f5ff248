// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// QueueName is the durable queue reservation events are published to.
const QueueName = "reservations.events"

// Event types carried in ReservationEvent.Type.
const (
	EventCreated = "reservation.created"
	EventUpdated = "reservation.updated"
	EventDeleted = "reservation.deleted"
)

// ReservationEvent is published after a reservation change has been
// committed.  It contains enough information for downstream consumers to
// log, notify or sync calendars without querying the primary database.
// Room, dates and ReservedBy are empty for deletions.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID int64  `json:"reservation_id"`
	Room          string `json:"room,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	ReservedBy    string `json:"reserved_by,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
