package db

import "time"

const (
	ResourceKindGuide = "guide"
	ResourceKindHotel = "hotel"
)

// Guide is a bookable guide. A guide serves one party at a time and
// charges a flat fee per engagement.
type Guide struct {
	ID        int
	UserID    int
	Name      string
	City      string
	Charge    int // cents, flat per engagement
	Verified  bool
	Active    bool
	CreatedAt time.Time
}

// Hotel is a block of TotalRooms rooms of one shared type.
type Hotel struct {
	ID          int
	UserID      int
	Name        string
	City        string
	TotalRooms  int
	NightlyRate int // cents, per room per night
	Verified    bool
	SoldOut     bool
	CreatedAt   time.Time
}

// Reservation holds a resource for an inclusive date range. Dates are
// date-only, normalized to midnight UTC. Only payment-confirmed
// reservations consume capacity.
type Reservation struct {
	ID               int
	Code             string
	ResourceKind     string
	ResourceID       int
	UserID           int
	StartDate        time.Time
	EndDate          time.Time
	Rooms            int // 1 for guide reservations
	Amount           int // cents
	Status           string
	PaymentConfirmed bool
	StripeSessionID  string
	PaymentStatus    string
	UserName         string
	UserEmail        string
	UserPhone        string
	Language         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
