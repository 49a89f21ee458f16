package service

import (
	"time"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	apperr "wanderstay/internal/errors"
)

// MaxRoomsPerBooking is a platform cap per hotel booking, independent of
// how many rooms the hotel physically has.
const MaxRoomsPerBooking = 5

// ResourceCatalog resolves bookable resources. A missing resource is
// (nil, nil), not an error.
type ResourceCatalog interface {
	GuideByID(id int) (*db.Guide, error)
	HotelByID(id int) (*db.Hotel, error)
}

// ReservationStore exposes the payment-confirmed reservations overlapping
// an inclusive date range, ordered by start date. Pending reservations
// never appear: capacity is reserved once payment is verified, not merely
// requested.
type ReservationStore interface {
	FindOverlapping(kind string, resourceID int, start, end time.Time) ([]db.Reservation, error)
}

// Overlaps reports whether two inclusive date-only ranges share at least
// one calendar day: s1 <= e2 AND s2 <= e1. This one test subsumes the
// starts-during, ends-during, encompasses and encompassed-by cases.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// AvailabilityService decides whether a request can be satisfied against
// the existing payment-confirmed reservations. It is a pure query: one
// store snapshot per call, no side effects.
type AvailabilityService struct {
	catalog ResourceCatalog
	store   ReservationStore
}

func NewAvailabilityService(catalog ResourceCatalog, store ReservationStore) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, store: store}
}

// CheckAvailability computes the verdict for one request. Precondition
// failures (bad range, bad room count, unknown or unverified resource)
// come back as errors; a well-formed but unsatisfiable request comes back
// as an unavailable verdict.
func (s *AvailabilityService) CheckAvailability(kind string, resourceID, requesterID int, start, end time.Time, rooms int) (*entities.Verdict, error) {
	if start.After(end) {
		return nil, apperr.New(entities.ReasonInvalidRange, "start date must not be after end date")
	}
	if rooms < 1 {
		return nil, apperr.New(entities.ReasonInvalidRoomCount, "at least one room is required")
	}

	switch kind {
	case db.ResourceKindGuide:
		if rooms != 1 {
			return nil, apperr.New(entities.ReasonInvalidRoomCount, "guide bookings are for a single party")
		}
		guide, err := s.catalog.GuideByID(resourceID)
		if err != nil {
			return nil, apperr.Newf(entities.ReasonPersistenceFailure, "looking up guide: %v", err)
		}
		if guide == nil {
			return nil, apperr.Newf(entities.ReasonResourceNotFound, "guide %d not found", resourceID)
		}
		return s.checkGuide(guide, requesterID, start, end)

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
		if !hotel.Verified {
			return nil, apperr.Newf(entities.ReasonResourceUnverified, "hotel %d is not verified", resourceID)
		}
		return s.checkHotel(hotel, requesterID, start, end, rooms)

	default:
		return nil, apperr.Newf(entities.ReasonResourceNotFound, "unknown resource kind %q", kind)
	}
}

// checkGuide handles capacity-1 resources: any overlap makes the request
// unavailable, classified by who holds the conflicting reservation.
func (s *AvailabilityService) checkGuide(guide *db.Guide, requesterID int, start, end time.Time) (*entities.Verdict, error) {
	overlapping, err := s.store.FindOverlapping(db.ResourceKindGuide, guide.ID, start, end)
	if err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "querying reservations: %v", err)
	}
	if len(overlapping) == 0 {
		return &entities.Verdict{Available: true}, nil
	}

	for _, res := range overlapping {
		if res.UserID == requesterID {
			return &entities.Verdict{
				Reason:    entities.ReasonAlreadyBookedBySelf,
				Conflicts: []entities.ConflictingReservation{conflictOf(res)},
			}, nil
		}
	}
	return &entities.Verdict{
		Reason:    entities.ReasonBookedByOther,
		Conflicts: []entities.ConflictingReservation{conflictOf(overlapping[0])},
	}, nil
}

// checkHotel sums rooms over the overlapping reservations and compares the
// remainder with the request. All arithmetic runs on the one snapshot
// fetched above; the store is never re-queried mid-computation.
func (s *AvailabilityService) checkHotel(hotel *db.Hotel, requesterID int, start, end time.Time, rooms int) (*entities.Verdict, error) {
	overlapping, err := s.store.FindOverlapping(db.ResourceKindHotel, hotel.ID, start, end)
	if err != nil {
		return nil, apperr.Newf(entities.ReasonPersistenceFailure, "querying reservations: %v", err)
	}

	bookedRooms := 0
	for _, res := range overlapping {
		bookedRooms += res.Rooms
	}
	availableRooms := hotel.TotalRooms - bookedRooms

	if rooms <= availableRooms {
		return &entities.Verdict{Available: true, AvailableRooms: availableRooms}, nil
	}

	for _, res := range overlapping {
		if res.UserID == requesterID {
			return &entities.Verdict{
				Reason:         entities.ReasonAlreadyBookedBySelf,
				Conflicts:      []entities.ConflictingReservation{conflictOf(res)},
				AvailableRooms: availableRooms,
			}, nil
		}
	}

	conflicts := make([]entities.ConflictingReservation, 0, len(overlapping))
	for _, res := range overlapping {
		conflicts = append(conflicts, conflictOf(res))
	}
	return &entities.Verdict{
		Reason:         entities.ReasonInsufficientCapacity,
		Conflicts:      conflicts,
		AvailableRooms: availableRooms,
	}, nil
}

func conflictOf(res db.Reservation) entities.ConflictingReservation {
	return entities.ConflictingReservation{
		UserID:    res.UserID,
		StartDate: res.StartDate,
		EndDate:   res.EndDate,
		Rooms:     res.Rooms,
	}
}
