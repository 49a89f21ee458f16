package errors

import (
	"fmt"
	"net/http"

	"wanderstay/internal/entities"
)

// BookingError is a caller-visible booking failure. Every failure the
// engine or writer produces is one of these; nothing propagates as an
// unhandled fault.
type BookingError struct {
	Reason  entities.Reason
	Message string
	// Verdict carries the conflict payload for unavailability reasons.
	Verdict *entities.Verdict
}

func (e *BookingError) Error() string {
	return e.Message
}

func New(reason entities.Reason, message string) *BookingError {
	return &BookingError{Reason: reason, Message: message}
}

func Newf(reason entities.Reason, format string, args ...interface{}) *BookingError {
	return &BookingError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// FromVerdict turns an unavailable verdict into the matching error.
func FromVerdict(v *entities.Verdict) *BookingError {
	var msg string
	switch v.Reason {
	case entities.ReasonAlreadyBookedBySelf:
		msg = "you already hold a reservation overlapping these dates"
	case entities.ReasonBookedByOther:
		msg = "the guide is already booked for these dates"
	case entities.ReasonInsufficientCapacity:
		msg = fmt.Sprintf("only %d rooms are available for these dates", v.AvailableRooms)
	default:
		msg = "the resource is not available for these dates"
	}
	return &BookingError{Reason: v.Reason, Message: msg, Verdict: v}
}

// HTTPStatus maps a reason to the status code the HTTP layer returns.
func (e *BookingError) HTTPStatus() int {
	switch e.Reason {
	case entities.ReasonResourceNotFound:
		return http.StatusNotFound
	case entities.ReasonSelfBookingForbidden:
		return http.StatusForbidden
	case entities.ReasonResourceBusy:
		return http.StatusConflict
	case entities.ReasonPersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// Retryable reports whether the caller may retry the same request.
// Only lock contention and store outages are transient; every other
// reason is permanent for the given input.
func Retryable(reason entities.Reason) bool {
	return reason == entities.ReasonResourceBusy || reason == entities.ReasonPersistenceFailure
}
