package service

import (
	"fmt"
	"log"
	"time"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	apperr "wanderstay/internal/errors"
)

const (
	statusPending   = "pending"
	statusConfirmed = "confirmed"
	statusCanceled  = "canceled"

	paymentPending   = "pending"
	paymentSucceeded = "succeeded"
	paymentRefunded  = "refunded"
)

// defaultLockWait bounds how long a booking waits for its resource lock
// before failing with resource_busy.
const defaultLockWait = 2 * time.Second

// BookingStore is the durable reservation set. Reservations are owned by
// the store; dates, rooms and amount never change after creation, only
// status and payment fields flip.
type BookingStore interface {
	ReservationStore
	Create(res *db.Reservation) error
	ByCode(code string) (*db.Reservation, error)
	BySessionID(sessionID string) (*db.Reservation, error)
	SetPaymentConfirmed(id int, status, paymentStatus string) error
	SetStatus(id int, status, paymentStatus string) error
}

// CatalogStore extends the read catalog with the sold-out marker flip the
// writer performs for hotels.
type CatalogStore interface {
	ResourceCatalog
	SetHotelSoldOut(id int, soldOut bool) error
}

// PaymentGateway is the payment collaborator boundary. The engine only
// consumes its confirmed/refunded signals.
type PaymentGateway interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail, language string) (sessionURL, sessionID string, err error)
	RefundBySessionID(sessionID string) error
}

// BookingService is the reservation writer: it runs the availability
// check and the insert as one unit under the per-resource lock, so no
// concurrent call against the same resource observes a state between
// check and insert.
type BookingService struct {
	catalog  CatalogStore
	store    BookingStore
	avail    *AvailabilityService
	locks    *ResourceLocker
	gateway  PaymentGateway
	lockWait time.Duration
}

func NewBookingService(catalog CatalogStore, store BookingStore, avail *AvailabilityService, locks *ResourceLocker, gateway PaymentGateway) *BookingService {
	return &BookingService{
		catalog:  catalog,
		store:    store,
		avail:    avail,
		locks:    locks,
		gateway:  gateway,
		lockWait: defaultLockWait,
	}
}

// CheckAvailability is the read-only verdict for a request.
func (s *BookingService) CheckAvailability(req entities.BookingRequest) (*entities.Verdict, error) {
	rooms := req.Rooms
	if rooms == 0 {
		rooms = 1
	}
	return s.avail.CheckAvailability(req.ResourceKind, req.ResourceID, req.UserID, req.StartDate, req.EndDate, rooms)
}

// CreateReservation validates, prices and persists a reservation. With
// paymentConfirmed the reservation is created confirmed and immediately
// consumes capacity (the pay-then-create flow); otherwise it is created
// pending and consumes nothing until ConfirmBySessionID flips it.
func (s *BookingService) CreateReservation(req entities.BookingRequest, paymentConfirmed bool) (*db.Reservation, error) {
	res, err := s.prepare(req, paymentConfirmed)
	if err != nil {
		return nil, err
	}
	if err := s.createLocked(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Book is the checkout flow: a pending reservation plus a Stripe session
// the requester pays through. The webhook confirms or cancels it later.
func (s *BookingService) Book(req entities.BookingRequest) (*db.Reservation, string, error) {
	res, err := s.prepare(req, false)
	if err != nil {
		return nil, "", err
	}
	sessionURL, sessionID, err := s.gateway.CreateCheckoutSession(
		int64(res.Amount), "eur", "Wanderstay booking "+res.Code, req.UserEmail, req.Language)
	if err != nil {
		return nil, "", apperr.Newf(entities.ReasonPersistenceFailure, "creating checkout session: %v", err)
	}
	res.StripeSessionID = sessionID
	if err := s.createLocked(res); err != nil {
		return nil, "", err
	}
	return res, sessionURL, nil
}

// prepare re-validates the engine preconditions, applies the self-booking
// rule and prices the request. It touches the catalog but never the
// reservation store.
func (s *BookingService) prepare(req entities.BookingRequest, paymentConfirmed bool) (*db.Reservation, error) {
	if req.Rooms == 0 {
		req.Rooms = 1
	}
	if req.StartDate.After(req.EndDate) {
		return nil, apperr.New(entities.ReasonInvalidRange, "start date must not be after end date")
	}
	if req.Rooms < 1 {
		return nil, apperr.New(entities.ReasonInvalidRoomCount, "at least one room is required")
	}

	var amount int
	switch req.ResourceKind {
	case db.ResourceKindGuide:
		if req.Rooms != 1 {
			return nil, apperr.New(entities.ReasonInvalidRoomCount, "guide bookings are for a single party")
		}
		guide, err := s.catalog.GuideByID(req.ResourceID)
		if err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up guide: %v", err)
		}
		if guide == nil {
			return nil, apperr.Newf(entities.ReasonResourceNotFound, "guide %d not found", req.ResourceID)
		}
		if guide.UserID == req.UserID {
			return nil, apperr.New(entities.ReasonSelfBookingForbidden, "guides cannot book themselves")
		}
		amount = GuidePrice(guide.Charge)

	case db.ResourceKindHotel:
		if req.Rooms > MaxRoomsPerBooking {
			return nil, apperr.Newf(entities.ReasonInvalidRoomCount, "at most %d rooms per booking", MaxRoomsPerBooking)
		}
		hotel, err := s.catalog.HotelByID(req.ResourceID)
		if err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up hotel: %v", err)
		}
		if hotel == nil {
			return nil, apperr.Newf(entities.ReasonResourceNotFound, "hotel %d not found", req.ResourceID)
		}
		if !hotel.Verified {
			return nil, apperr.Newf(entities.ReasonResourceUnverified, "hotel %d is not verified", req.ResourceID)
		}
		amount = HotelPrice(hotel.NightlyRate, req.Rooms, req.StartDate, req.EndDate)

	default:
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "unknown resource kind %q", req.ResourceKind)
	}

	status, paymentStatus := statusPending, paymentPending
	if paymentConfirmed {
		status, paymentStatus = statusConfirmed, paymentSucceeded
	}
	now := time.Now().UTC()
	return &db.Reservation{
		Code:             newReservationCode(),
		ResourceKind:     req.ResourceKind,
		ResourceID:       req.ResourceID,
		UserID:           req.UserID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Rooms:            req.Rooms,
		Amount:           amount,
		Status:           status,
		PaymentConfirmed: paymentConfirmed,
		PaymentStatus:    paymentStatus,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		UserPhone:        req.UserPhone,
		Language:         req.Language,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// createLocked is the atomic unit of the writer: lock, check, insert.
// On any failure the store is left exactly as it was.
func (s *BookingService) createLocked(res *db.Reservation) error {
	if !s.locks.Acquire(res.ResourceKind, res.ResourceID, s.lockWait) {
		return apperr.New(entities.ReasonResourceBusy, "resource is busy, retry shortly")
	}
	defer s.locks.Release(res.ResourceKind, res.ResourceID)

	verdict, err := s.avail.CheckAvailability(res.ResourceKind, res.ResourceID, res.UserID, res.StartDate, res.EndDate, res.Rooms)
	if err != nil {
		return err
	}
	if !verdict.Available {
		return apperr.FromVerdict(verdict)
	}
	if err := s.store.Create(res); err != nil {
		return apperr.Newf(entities.ReasonPersistenceFailure, "creating reservation: %v", err)
	}
	if res.PaymentConfirmed {
		s.maybeMarkSoldOut(res, verdict)
	}
	return nil
}

// ConfirmBySessionID flips a pending reservation to confirmed once the
// payment collaborator reports success. Because pending holds consume no
// capacity, the availability check reruns under the resource lock here;
// if the capacity was taken while the payment was in flight, the hold is
// canceled and the payment refunded.
func (s *BookingService) ConfirmBySessionID(sessionID string) (*db.Reservation, error) {
	res, err := s.store.BySessionID(sessionID)
	if err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up reservation: %v", err)
	}
	if res == nil {
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "no reservation for session %s", sessionID)
	}
	if res.PaymentConfirmed {
		// webhook deliveries retry; confirming twice is a no-op
		return res, nil
	}

	if !s.locks.Acquire(res.ResourceKind, res.ResourceID, s.lockWait) {
		return nil, apperr.New(entities.ReasonResourceBusy, "resource is busy, retry shortly")
	}
	defer s.locks.Release(res.ResourceKind, res.ResourceID)

	verdict, err := s.avail.CheckAvailability(res.ResourceKind, res.ResourceID, res.UserID, res.StartDate, res.EndDate, res.Rooms)
	if err != nil {
		return nil, err
	}
	if !verdict.Available {
		if err := s.store.SetStatus(res.ID, statusCanceled, paymentRefunded); err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "canceling reservation %s: %v", res.Code, err)
		}
		if err := s.gateway.RefundBySessionID(sessionID); err != nil {
			log.Printf("Reservation %s canceled but refund failed: %v", res.Code, err)
		}
		return nil, apperr.FromVerdict(verdict)
	}

	if err := s.store.SetPaymentConfirmed(res.ID, statusConfirmed, paymentSucceeded); err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "confirming reservation %s: %v", res.Code, err)
	}
	res.PaymentConfirmed = true
	res.Status = statusConfirmed
	res.PaymentStatus = paymentSucceeded
	s.maybeMarkSoldOut(res, verdict)
	return res, nil
}

// CancelBySessionID marks a reservation canceled after the payment
// collaborator reports a refund.
func (s *BookingService) CancelBySessionID(sessionID string) error {
	res, err := s.store.BySessionID(sessionID)
	if err != nil {
		return apperr.Newf(entities.ReasonPersistenceFailure, "looking up reservation: %v", err)
	}
	if res == nil {
		return apperr.Newf(entities.ReasonResourceNotFound, "no reservation for session %s", sessionID)
	}
	if err := s.store.SetStatus(res.ID, statusCanceled, paymentRefunded); err != nil {
		return apperr.Newf(entities.ReasonPersistenceFailure, "canceling reservation %s: %v", res.Code, err)
	}
	return nil
}

// Quote prices a request without touching the reservation store.
func (s *BookingService) Quote(kind string, resourceID int, start, end time.Time, rooms int) (*entities.QuoteResponse, error) {
	if rooms == 0 {
		rooms = 1
	}
	if start.After(end) {
		return nil, apperr.New(entities.ReasonInvalidRange, "start date must not be after end date")
	}

	quote := &entities.QuoteResponse{
		ResourceKind: kind,
		ResourceID:   resourceID,
		Nights:       Nights(start, end),
		Rooms:        rooms,
		Currency:     "eur",
	}
	switch kind {
	case db.ResourceKindGuide:
		guide, err := s.catalog.GuideByID(resourceID)
		if err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up guide: %v", err)
		}
		if guide == nil {
			return nil, apperr.Newf(entities.ReasonResourceNotFound, "guide %d not found", resourceID)
		}
		quote.Rooms = 1
		quote.Amount = GuidePrice(guide.Charge)
	case db.ResourceKindHotel:
		if rooms > MaxRoomsPerBooking {
			return nil, apperr.Newf(entities.ReasonInvalidRoomCount, "at most %d rooms per booking", MaxRoomsPerBooking)
		}
		hotel, err := s.catalog.HotelByID(resourceID)
		if err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up hotel: %v", err)
		}
		if hotel == nil {
			return nil, apperr.Newf(entities.ReasonResourceNotFound, "hotel %d not found", resourceID)
		}
		quote.Amount = HotelPrice(hotel.NightlyRate, rooms, start, end)
	default:
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "unknown resource kind %q", kind)
	}
	return quote, nil
}

// ReservationByCode returns a requester's own reservation. Reservations
// belonging to other users are reported as not found.
func (s *BookingService) ReservationByCode(code string, userID int) (*db.Reservation, error) {
	res, err := s.store.ByCode(code)
	if err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up reservation: %v", err)
	}
	if res == nil || res.UserID != userID {
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "reservation %s not found", code)
	}
	return res, nil
}

// ReservationBySessionID resolves a reservation from its checkout
// session, for the payment confirmation page.
func (s *BookingService) ReservationBySessionID(sessionID string) (*db.Reservation, error) {
	res, err := s.store.BySessionID(sessionID)
	if err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up reservation: %v", err)
	}
	if res == nil {
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "no reservation for session %s", sessionID)
	}
	return res, nil
}

// ResourceName resolves the display name behind a reservation, for
// notifications.
func (s *BookingService) ResourceName(kind string, resourceID int) string {
	switch kind {
	case db.ResourceKindGuide:
		if guide, err := s.catalog.GuideByID(resourceID); err == nil && guide != nil {
			return guide.Name
		}
	case db.ResourceKindHotel:
		if hotel, err := s.catalog.HotelByID(resourceID); err == nil && hotel != nil {
			return hotel.Name
		}
	}
	return ""
}

// maybeMarkSoldOut flips the hotel's sold-out marker when this write
// consumed the last rooms of its window. The marker is advisory; the cron
// job clears it again once the window passes.
func (s *BookingService) maybeMarkSoldOut(res *db.Reservation, verdict *entities.Verdict) {
	if res.ResourceKind != db.ResourceKindHotel {
		return
	}
	if verdict.AvailableRooms-res.Rooms > 0 {
		return
	}
	if err := s.catalog.SetHotelSoldOut(res.ResourceID, true); err != nil {
		log.Printf("Could not mark hotel %d sold out: %v", res.ResourceID, err)
	}
}

func newReservationCode() string {
	return fmt.Sprintf("%08X", time.Now().UnixNano()%100000000)
}
