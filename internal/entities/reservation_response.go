package entities

import (
	"time"

	"wanderstay/internal/db"
)

type ReservationResponse struct {
	Code          string    `json:"code"`
	ResourceKind  string    `json:"resource_kind"`
	ResourceID    int       `json:"resource_id"`
	ResourceName  string    `json:"resource_name,omitempty"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	UserPhone     string    `json:"user_phone"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Rooms         int       `json:"rooms"`
	Amount        int       `json:"amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewReservationResponse maps a reservation row to its API shape.
func NewReservationResponse(res *db.Reservation) ReservationResponse {
	return ReservationResponse{
		Code:          res.Code,
		ResourceKind:  res.ResourceKind,
		ResourceID:    res.ResourceID,
		UserName:      res.UserName,
		UserEmail:     res.UserEmail,
		UserPhone:     res.UserPhone,
		StartDate:     res.StartDate,
		EndDate:       res.EndDate,
		Rooms:         res.Rooms,
		Amount:        res.Amount,
		Status:        res.Status,
		PaymentStatus: res.PaymentStatus,
		Language:      res.Language,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

type ReservationsList struct {
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Reservations []ReservationResponse `json:"reservations"`
}
