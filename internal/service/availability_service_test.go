package service

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	apperr "wanderstay/internal/errors"
)

func newEngine() (*AvailabilityService, *memCatalog, *memStore) {
	catalog := newMemCatalog()
	store := &memStore{}
	return NewAvailabilityService(catalog, store), catalog, store
}

func requireReason(t *testing.T, err error, reason entities.Reason) {
	t.Helper()
	require.Error(t, err)
	var be *apperr.BookingError
	require.True(t, errors.As(err, &be), "expected a BookingError, got %v", err)
	assert.Equal(t, reason, be.Reason)
}

func TestCheckAvailabilityInvalidRangeSkipsStore(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addGuide(db.Guide{ID: 1, UserID: 9, Charge: 5000, Verified: true})

	_, err := engine.CheckAvailability(db.ResourceKindGuide, 1, 42, day("2024-06-14"), day("2024-06-10"), 1)
	requireReason(t, err, entities.ReasonInvalidRange)
	assert.Zero(t, store.findCalls, "an invalid range must not reach the store")
}

func TestCheckAvailabilityResourceNotFound(t *testing.T) {
	engine, _, _ := newEngine()

	_, err := engine.CheckAvailability(db.ResourceKindGuide, 555, 42, day("2024-06-10"), day("2024-06-12"), 1)
	requireReason(t, err, entities.ReasonResourceNotFound)

	_, err = engine.CheckAvailability(db.ResourceKindHotel, 555, 42, day("2024-06-10"), day("2024-06-12"), 1)
	requireReason(t, err, entities.ReasonResourceNotFound)

	_, err = engine.CheckAvailability("apartment", 1, 42, day("2024-06-10"), day("2024-06-12"), 1)
	requireReason(t, err, entities.ReasonResourceNotFound)
}

func TestCheckAvailabilityRoomCountCap(t *testing.T) {
	engine, catalog, _ := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 20, NightlyRate: 8000, Verified: true})
	catalog.addGuide(db.Guide{ID: 1, UserID: 9, Charge: 5000, Verified: true})

	_, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-01"), day("2024-07-03"), 6)
	requireReason(t, err, entities.ReasonInvalidRoomCount)

	_, err = engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-01"), day("2024-07-03"), 0)
	requireReason(t, err, entities.ReasonInvalidRoomCount)

	// the cap is per booking, not the physical room count: 5 rooms in a
	// 20-room hotel is fine
	verdict, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-01"), day("2024-07-03"), 5)
	require.NoError(t, err)
	assert.True(t, verdict.Available)

	_, err = engine.CheckAvailability(db.ResourceKindGuide, 1, 42, day("2024-07-01"), day("2024-07-03"), 2)
	requireReason(t, err, entities.ReasonInvalidRoomCount)
}

func TestCheckAvailabilityUnverifiedHotel(t *testing.T) {
	engine, catalog, _ := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 5, NightlyRate: 8000, Verified: false})

	_, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-01"), day("2024-07-03"), 1)
	requireReason(t, err, entities.ReasonResourceUnverified)
}

// Scenario: guide booked [06-10, 06-12]; a request starting on the shared
// boundary day 06-12 overlaps and is blocked.
func TestGuideBoundaryDayCountsAsOverlap(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addGuide(db.Guide{ID: 1, UserID: 9, Charge: 5000, Verified: true})
	store.add(confirmed(db.ResourceKindGuide, 1, 7, "2024-06-10", "2024-06-12", 1))

	verdict, err := engine.CheckAvailability(db.ResourceKindGuide, 1, 42, day("2024-06-12"), day("2024-06-14"), 1)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, entities.ReasonBookedByOther, verdict.Reason)
	require.Len(t, verdict.Conflicts, 1)
	assert.Equal(t, day("2024-06-10"), verdict.Conflicts[0].StartDate)
	assert.Equal(t, day("2024-06-12"), verdict.Conflicts[0].EndDate)
}

func TestGuideConflictClassifiedAsSelf(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addGuide(db.Guide{ID: 1, UserID: 9, Charge: 5000, Verified: true})
	store.add(confirmed(db.ResourceKindGuide, 1, 42, "2024-06-10", "2024-06-12", 1))

	verdict, err := engine.CheckAvailability(db.ResourceKindGuide, 1, 42, day("2024-06-11"), day("2024-06-13"), 1)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, entities.ReasonAlreadyBookedBySelf, verdict.Reason)
	require.Len(t, verdict.Conflicts, 1)
	assert.Equal(t, 42, verdict.Conflicts[0].UserID)
}

func TestGuideFreeWhenRangesDoNotTouch(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addGuide(db.Guide{ID: 1, UserID: 9, Charge: 5000, Verified: true})
	store.add(confirmed(db.ResourceKindGuide, 1, 7, "2024-06-10", "2024-06-12", 1))

	verdict, err := engine.CheckAvailability(db.ResourceKindGuide, 1, 42, day("2024-06-13"), day("2024-06-15"), 1)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
}

// Scenario: empty 5-room hotel accepts 5 rooms; once those are confirmed,
// a single night inside the window has nothing left.
func TestHotelFullHouseThenNothingLeft(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 5, NightlyRate: 8000, Verified: true})

	verdict, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-01"), day("2024-07-03"), 5)
	require.NoError(t, err)
	require.True(t, verdict.Available)
	assert.Equal(t, 5, verdict.AvailableRooms)

	store.add(confirmed(db.ResourceKindHotel, 1, 42, "2024-07-01", "2024-07-03", 5))

	verdict, err = engine.CheckAvailability(db.ResourceKindHotel, 1, 77, day("2024-07-02"), day("2024-07-02"), 1)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, entities.ReasonInsufficientCapacity, verdict.Reason)
	assert.Equal(t, 0, verdict.AvailableRooms)
	assert.Len(t, verdict.Conflicts, 1)
}

// Scenario: 3 of 5 rooms booked [07-01, 07-05]; 2 rooms [07-04, 07-06]
// still fit, with 2 rooms reported available in the overlap window.
func TestHotelPartialOverlapWithinCapacity(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 5, NightlyRate: 8000, Verified: true})
	store.add(confirmed(db.ResourceKindHotel, 1, 7, "2024-07-01", "2024-07-05", 3))

	verdict, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-04"), day("2024-07-06"), 2)
	require.NoError(t, err)
	assert.True(t, verdict.Available)
	assert.Equal(t, 2, verdict.AvailableRooms)
}

func TestHotelShortfallClassifiedAsSelf(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 5, NightlyRate: 8000, Verified: true})
	store.add(confirmed(db.ResourceKindHotel, 1, 42, "2024-07-01", "2024-07-05", 4))

	verdict, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-02"), day("2024-07-04"), 2)
	require.NoError(t, err)
	assert.False(t, verdict.Available)
	assert.Equal(t, entities.ReasonAlreadyBookedBySelf, verdict.Reason)
	require.Len(t, verdict.Conflicts, 1)
	assert.Equal(t, 4, verdict.Conflicts[0].Rooms)
}

func TestPendingReservationsNeverBlock(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 1, NightlyRate: 8000, Verified: true})
	pending := confirmed(db.ResourceKindHotel, 1, 7, "2024-07-01", "2024-07-05", 1)
	pending.PaymentConfirmed = false
	pending.Status = statusPending
	pending.PaymentStatus = paymentPending
	store.add(pending)

	verdict, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-02"), day("2024-07-03"), 1)
	require.NoError(t, err)
	assert.True(t, verdict.Available, "an unpaid hold must not consume capacity")
}

func TestVerdictIdempotentOnUnchangedStore(t *testing.T) {
	engine, catalog, store := newEngine()
	catalog.addHotel(db.Hotel{ID: 1, UserID: 9, TotalRooms: 5, NightlyRate: 8000, Verified: true})
	store.add(confirmed(db.ResourceKindHotel, 1, 7, "2024-07-01", "2024-07-05", 3))

	first, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-03"), day("2024-07-08"), 4)
	require.NoError(t, err)
	second, err := engine.CheckAvailability(db.ResourceKindHotel, 1, 42, day("2024-07-03"), day("2024-07-08"), 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// The canonical inclusive-interval test must agree with the enumerated
// case analysis (starts-during, ends-during, encompasses, encompassed-by,
// identical) on random ranges.
func TestOverlapsMatchesCaseEnumeration(t *testing.T) {
	base := day("2024-01-01")
	between := func(x, lo, hi time.Time) bool {
		return !x.Before(lo) && !x.After(hi)
	}
	enumerated := func(s1, e1, s2, e2 time.Time) bool {
		startsDuring := between(s2, s1, e1)
		endsDuring := between(e2, s1, e1)
		encompasses := !s2.After(s1) && !e2.Before(e1)
		encompassed := !s1.After(s2) && !e1.Before(e2)
		identical := s1.Equal(s2) && e1.Equal(e2)
		return startsDuring || endsDuring || encompasses || encompassed || identical
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		s1 := base.AddDate(0, 0, rng.Intn(30))
		e1 := s1.AddDate(0, 0, rng.Intn(10))
		s2 := base.AddDate(0, 0, rng.Intn(30))
		e2 := s2.AddDate(0, 0, rng.Intn(10))

		assert.Equal(t, enumerated(s1, e1, s2, e2), Overlaps(s1, e1, s2, e2),
			"ranges [%s,%s] and [%s,%s]", s1, e1, s2, e2)
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	base := day("2024-01-01")
	for i := 0; i < 2000; i++ {
		s1 := base.AddDate(0, 0, rng.Intn(30))
		e1 := s1.AddDate(0, 0, rng.Intn(10))
		s2 := base.AddDate(0, 0, rng.Intn(30))
		e2 := s2.AddDate(0, 0, rng.Intn(10))
		assert.Equal(t, Overlaps(s1, e1, s2, e2), Overlaps(s2, e2, s1, e1))
	}
}
