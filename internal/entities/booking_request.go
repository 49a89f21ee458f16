package entities

import "time"

// BookingRequest is a request to hold a resource for an inclusive date
// range. UserID comes from the auth middleware, never from the body.
type BookingRequest struct {
	ResourceKind string    `json:"resource_kind"`
	ResourceID   int       `json:"resource_id"`
	UserID       int       `json:"user_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Rooms        int       `json:"rooms"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserPhone    string    `json:"user_phone"`
	Language     string    `json:"language"`
}
