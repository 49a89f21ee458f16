package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"wanderstay/internal/api"
	"wanderstay/internal/auth"
	"wanderstay/internal/repository"
	"wanderstay/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	catalogRepo := repository.NewCatalogRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	jobRepo := repository.NewJobRepository(database)
	adminAuthRepo := repository.NewAdminAuthRepository(database)

	availabilitySvc := service.NewAvailabilityService(catalogRepo, reservationRepo)
	bookingSvc := service.NewBookingService(catalogRepo, reservationRepo, availabilitySvc, service.NewResourceLocker(), service.NewStripeService())
	senderSvc := service.NewSenderService()
	adminSvc := service.NewAdminService(catalogRepo, reservationRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(jobRepo)

	bookingHandler := api.NewUserBookingHandler(bookingSvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc, senderSvc)
	adminHandler := api.NewAdminHandler(adminSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.UpdateFinishedReservations(); err != nil {
			log.Printf("Cron Job: %v", err)
		}
		if err := jobSvc.ReleaseSoldOutMarkers(); err != nil {
			log.Printf("Cron Job: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		n, err := jobSvc.DeleteOldPendingReservations(time.Now().UTC().Add(-24 * time.Hour))
		if err != nil {
			log.Printf("Cron Job: %v", err)
		} else if n > 0 {
			log.Printf("Cron Job: purged %d abandoned pending reservations", n)
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/quote", bookingHandler.GetQuote).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/stripe/session", stripeHandler.GetReservationBySessionIDHandler).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Booking endpoints (requester identity required)
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.UserAuthMiddleware)
	user.HandleFunc("/availability", bookingHandler.CheckAvailability).Methods("POST")
	user.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings/{code}", bookingHandler.GetBooking).Methods("GET")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/admins", adminAuthHandler.CreateAdmin).Methods("POST")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/hotels/{id}/verify", adminHandler.VerifyHotel).Methods("PUT")
	admin.HandleFunc("/guides/{id}/verify", adminHandler.VerifyGuide).Methods("PUT")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{os.Getenv("FRONTEND_BASE_URL")}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(handlers.LoggingHandler(os.Stdout, r))))
}
