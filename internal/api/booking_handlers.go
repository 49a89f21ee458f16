package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"wanderstay/internal/auth"
	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	apperr "wanderstay/internal/errors"
	"wanderstay/internal/utils"
)

// BookingAPI is what the booking endpoints need from the service layer.
type BookingAPI interface {
	CheckAvailability(req entities.BookingRequest) (*entities.Verdict, error)
	Book(req entities.BookingRequest) (*db.Reservation, string, error)
	Quote(kind string, resourceID int, start, end time.Time, rooms int) (*entities.QuoteResponse, error)
	ReservationByCode(code string, userID int) (*db.Reservation, error)
}

type UserBookingHandler struct {
	Service BookingAPI
}

func NewUserBookingHandler(svc BookingAPI) *UserBookingHandler {
	return &UserBookingHandler{Service: svc}
}

func (h *UserBookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	verdict, err := h.Service.CheckAvailability(entities.BookingRequest{
		ResourceKind: req.ResourceKind,
		ResourceID:   req.ResourceID,
		UserID:       userID,
		StartDate:    start,
		EndDate:      end,
		Rooms:        req.Rooms,
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

func (h *UserBookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, checkoutURL, err := h.Service.Book(entities.BookingRequest{
		ResourceKind: req.ResourceKind,
		ResourceID:   req.ResourceID,
		UserID:       userID,
		StartDate:    start,
		EndDate:      end,
		Rooms:        req.Rooms,
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		UserPhone:    req.UserPhone,
		Language:     req.Language,
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateBookingResponse{
		Code:        res.Code,
		Status:      res.Status,
		Amount:      res.Amount,
		CheckoutURL: checkoutURL,
		SessionID:   res.StripeSessionID,
	})
}

func (h *UserBookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	res, err := h.Service.ReservationByCode(code, userID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(res))
}

func (h *UserBookingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resourceID, err := strconv.Atoi(q.Get("resource_id"))
	if err != nil {
		http.Error(w, "resource_id required", http.StatusBadRequest)
		return
	}
	start, end, err := parseDates(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rooms := 0
	if raw := q.Get("rooms"); raw != "" {
		if rooms, err = strconv.Atoi(raw); err != nil {
			http.Error(w, "invalid rooms", http.StatusBadRequest)
			return
		}
	}

	quote, err := h.Service.Quote(q.Get("resource_kind"), resourceID, start, end, rooms)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func parseDates(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeBookingError maps the booking taxonomy onto status codes and the
// structured failure payload.
func writeBookingError(w http.ResponseWriter, err error) {
	var be *apperr.BookingError
	if !errors.As(err, &be) {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	resp := ErrorResponse{
		Error:     string(be.Reason),
		Message:   be.Message,
		Retryable: apperr.Retryable(be.Reason),
	}
	if be.Verdict != nil {
		resp.Conflicts = be.Verdict.Conflicts
		resp.AvailableRooms = be.Verdict.AvailableRooms
	}
	writeJSON(w, be.HTTPStatus(), resp)
}
