package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"wanderstay/internal/db"
)

// In-memory doubles for the catalog, the reservation store and the
// payment gateway. Hand-written function-free fakes: the booking tests
// exercise real concurrency, so the doubles keep real state under a
// mutex instead of stubbing per call.

type memCatalog struct {
	mu     sync.Mutex
	guides map[int]db.Guide
	hotels map[int]db.Hotel
}

var _ CatalogStore = (*memCatalog)(nil)

func newMemCatalog() *memCatalog {
	return &memCatalog{
		guides: make(map[int]db.Guide),
		hotels: make(map[int]db.Hotel),
	}
}

func (c *memCatalog) addGuide(g db.Guide) { c.guides[g.ID] = g }
func (c *memCatalog) addHotel(h db.Hotel) { c.hotels[h.ID] = h }

func (c *memCatalog) GuideByID(id int) (*db.Guide, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.guides[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (c *memCatalog) HotelByID(id int) (*db.Hotel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.hotels[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (c *memCatalog) SetHotelSoldOut(id int, soldOut bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.hotels[id]
	if !ok {
		return fmt.Errorf("hotel %d not found", id)
	}
	h.SoldOut = soldOut
	c.hotels[id] = h
	return nil
}

func (c *memCatalog) hotelSoldOut(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hotels[id].SoldOut
}

type memStore struct {
	mu           sync.Mutex
	seq          int
	reservations []db.Reservation
	findCalls    int
	createErr    error
}

var _ BookingStore = (*memStore)(nil)

func (m *memStore) FindOverlapping(kind string, resourceID int, start, end time.Time) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	var out []db.Reservation
	for _, r := range m.reservations {
		if r.ResourceKind == kind && r.ResourceID == resourceID && r.PaymentConfirmed &&
			Overlaps(r.StartDate, r.EndDate, start, end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memStore) Create(res *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	res.ID = m.seq
	m.reservations = append(m.reservations, *res)
	return nil
}

func (m *memStore) ByCode(code string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.Code == code {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) BySessionID(sessionID string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.StripeSessionID == sessionID {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) SetPaymentConfirmed(id int, status, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			m.reservations[i].PaymentConfirmed = true
			m.reservations[i].Status = status
			m.reservations[i].PaymentStatus = paymentStatus
			return nil
		}
	}
	return fmt.Errorf("reservation %d not found", id)
}

func (m *memStore) SetStatus(id int, status, paymentStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID == id {
			m.reservations[i].Status = status
			m.reservations[i].PaymentStatus = paymentStatus
			return nil
		}
	}
	return fmt.Errorf("reservation %d not found", id)
}

func (m *memStore) add(res db.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	res.ID = m.seq
	m.reservations = append(m.reservations, res)
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

func (m *memStore) byID(id int) db.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == id {
			return r
		}
	}
	return db.Reservation{}
}

type fakeGateway struct {
	mu       sync.Mutex
	sessions int
	refunds  []string
}

var _ PaymentGateway = (*fakeGateway)(nil)

func (g *fakeGateway) CreateCheckoutSession(amount int64, currency, description, customerEmail, language string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions++
	id := fmt.Sprintf("cs_test_%d", g.sessions)
	return "https://checkout.example/" + id, id, nil
}

func (g *fakeGateway) RefundBySessionID(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, sessionID)
	return nil
}

func (g *fakeGateway) refunded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.refunds...)
}

// ---- helpers ---------------------------------------------------------------

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func confirmed(kind string, resourceID, userID int, start, end string, rooms int) db.Reservation {
	return db.Reservation{
		Code:             fmt.Sprintf("RES%d%d", resourceID, userID),
		ResourceKind:     kind,
		ResourceID:       resourceID,
		UserID:           userID,
		StartDate:        day(start),
		EndDate:          day(end),
		Rooms:            rooms,
		Status:           statusConfirmed,
		PaymentConfirmed: true,
		PaymentStatus:    paymentSucceeded,
	}
}
