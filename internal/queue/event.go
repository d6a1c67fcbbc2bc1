// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Reservation event kinds.
const (
	EventReserved   = "reserved"
	EventUnreserved = "unreserved"
)

// ReservationEvent is published when a reservation is created or released.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	Kind     string `json:"kind"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	CampID   int64  `json:"camp_id"`
	ParkCode string `json:"park_code"`
	At       string `json:"at"`
}
