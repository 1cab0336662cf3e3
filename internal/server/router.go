package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/booking/booking_api"
	"github.com/Parshant679/event-booking/internal/events/event_api"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/users/user_api"
	"github.com/Parshant679/event-booking/internal/utils"
)

type Handlers struct {
	Users    *user_api.Handler
	Events   *event_api.Handler
	Live     *event_api.SSEHandler
	Bookings *booking_api.Handler
}

func NewRouter(h Handlers, issuer *auth.Issuer, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})
	r.Post("/users", h.Users.CreateUser)
	r.Get("/events/{eventId}", h.Events.GetEvent)
	r.Get("/events/{eventId}/stats", h.Events.GetEventStats)
	r.Get("/events/{eventId}/live", h.Live.StreamAvailability)
	log.Info("ROUTER", "Public routes registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(issuer, log))

		r.Post("/events", h.Events.CreateEvent)
		r.Put("/events/{eventId}", h.Events.EditEvent)

		r.Post("/book", h.Bookings.Book)
		r.Get("/bookings/{bookingId}", h.Bookings.GetBooking)
		r.Get("/bookings/{bookingId}/qr", h.Bookings.GetTicketQR)
		r.Get("/me/bookings", h.Bookings.ListMyBookings)
		r.Post("/tickets/verify", h.Bookings.VerifyTicket)
	})
	log.Info("ROUTER", "Protected routes registered behind bearer auth")

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
