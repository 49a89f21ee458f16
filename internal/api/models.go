package api

import "wanderstay/internal/entities"

// Availability
type AvailabilityRequest struct {
	ResourceKind string `json:"resource_kind"`
	ResourceID   int    `json:"resource_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Rooms        int    `json:"rooms"`
}

// Booking
type CreateBookingRequest struct {
	ResourceKind string `json:"resource_kind"`
	ResourceID   int    `json:"resource_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Rooms        int    `json:"rooms"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserPhone    string `json:"user_phone"`
	Language     string `json:"language"`
}

type CreateBookingResponse struct {
	Code        string `json:"code"`
	Status      string `json:"status"`
	Amount      int    `json:"amount"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

// ErrorResponse is the structured failure every booking endpoint returns.
type ErrorResponse struct {
	Error          string                            `json:"error"`
	Message        string                            `json:"message"`
	Retryable      bool                              `json:"retryable"`
	Conflicts      []entities.ConflictingReservation `json:"conflicts,omitempty"`
	AvailableRooms int                               `json:"available_rooms,omitempty"`
}
