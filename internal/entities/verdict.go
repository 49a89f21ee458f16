package entities

import "time"

// Reason classifies why a booking request was rejected.
type Reason string

const (
	ReasonInvalidRange         Reason = "invalid_range"
	ReasonInvalidRoomCount     Reason = "invalid_room_count"
	ReasonResourceNotFound     Reason = "resource_not_found"
	ReasonResourceUnverified   Reason = "resource_unverified"
	ReasonSelfBookingForbidden Reason = "self_booking_forbidden"
	ReasonAlreadyBookedBySelf  Reason = "already_booked_by_self"
	ReasonBookedByOther        Reason = "booked_by_other"
	ReasonInsufficientCapacity Reason = "insufficient_capacity"
	ReasonResourceBusy         Reason = "resource_busy"
	ReasonPersistenceFailure   Reason = "persistence_failure"
)

// ConflictingReservation surfaces an existing overlapping hold so the
// caller can render an explanation.
type ConflictingReservation struct {
	UserID    int       `json:"user_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Rooms     int       `json:"rooms"`
}

// Verdict is the availability engine's answer for one request. It is a
// transient value computed from a single snapshot of the store; it is
// never persisted.
type Verdict struct {
	Available      bool                     `json:"available"`
	Reason         Reason                   `json:"reason,omitempty"`
	Conflicts      []ConflictingReservation `json:"conflicts,omitempty"`
	AvailableRooms int                      `json:"available_rooms,omitempty"`
}
