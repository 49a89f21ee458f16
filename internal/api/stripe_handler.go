package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
	apperr "wanderstay/internal/errors"
	"wanderstay/internal/service"
)

// BookingConfirmer is the payment-confirmation surface of the writer.
type BookingConfirmer interface {
	ConfirmBySessionID(sessionID string) (*db.Reservation, error)
	CancelBySessionID(sessionID string) error
	ReservationBySessionID(sessionID string) (*db.Reservation, error)
	ResourceName(kind string, resourceID int) string
}

type StripeWebhookHandler struct {
	StripeSecret  string
	bookings      BookingConfirmer
	senderService *service.SenderService
}

func NewStripeWebhookHandler(stripeSecret string, bookings BookingConfirmer, senderService *service.SenderService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		StripeSecret:  stripeSecret,
		bookings:      bookings,
		senderService: senderService,
	}
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.StripeSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res, err := h.bookings.ConfirmBySessionID(sess.ID)
		if err != nil {
			var be *apperr.BookingError
			if errors.As(err, &be) && !apperr.Retryable(be.Reason) {
				// The capacity was taken while the payment was in flight:
				// the hold is canceled and refunded. Acknowledge so Stripe
				// stops retrying.
				log.Printf("Session %s paid but reservation lost the capacity race: %v", sess.ID, err)
				h.notifyBySession(sess.ID, "canceled")
				w.WriteHeader(http.StatusOK)
				return
			}
			log.Printf("Error confirming reservation for session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.notify(res, "confirmed")

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := sessionIDByPaymentIntent(charge.PaymentIntent.ID)
			if err != nil {
				log.Printf("No session found for payment intent %s: %v", charge.PaymentIntent.ID, err)
				w.WriteHeader(http.StatusOK)
				return
			}
			if err := h.bookings.CancelBySessionID(sessionID); err != nil {
				log.Printf("Error canceling reservation for session %s: %v", sessionID, err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			h.notifyBySession(sessionID, "canceled")
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

// GetReservationBySessionIDHandler backs the payment confirmation page.
func (h *StripeWebhookHandler) GetReservationBySessionIDHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id required", http.StatusBadRequest)
		return
	}
	res, err := h.bookings.ReservationBySessionID(sessionID)
	if err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(res))
}

func (h *StripeWebhookHandler) notify(res *db.Reservation, status string) {
	if h.senderService == nil {
		return
	}
	translated := service.StatusTranslation(status, res.Language)
	resourceName := h.bookings.ResourceName(res.ResourceKind, res.ResourceID)
	h.senderService.SendBookingSMS(res, translated)
	h.senderService.SendBookingEmail(res, resourceName, translated)
}

func (h *StripeWebhookHandler) notifyBySession(sessionID, status string) {
	res, err := h.bookings.ReservationBySessionID(sessionID)
	if err != nil {
		log.Printf("Could not load reservation for session %s: %v", sessionID, err)
		return
	}
	h.notify(res, status)
}

// sessionIDByPaymentIntent resolves the checkout session behind a payment
// intent; refund events only carry the intent.
func sessionIDByPaymentIntent(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: &paymentIntentID,
	}
	params.Limit = stripe.Int64(1)
	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	return "", errors.New("no session found for payment intent " + paymentIntentID)
}
