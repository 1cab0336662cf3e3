package booking_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/booking"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/utils"
)

type Handler struct {
	BookingService *booking.BookingService
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.BookingService, log *logger.Logger) *Handler {
	return &Handler{BookingService: bookingService, Logger: log}
}

// Book expects {"event_id": "..."}. Exhaustion is 409, a missing event 404
// and an aborted transaction 503 with Retry-After.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, h.Logger, "Book", fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	result, err := h.BookingService.Book(r.Context(), auth.ActorID(r.Context()), req.EventID)
	if err != nil {
		utils.WriteError(w, h.Logger, "Book", err)
		return
	}

	resp := utils.SuccessResponse("Booking confirmed", result.Booking)
	if !result.NoticeQueued {
		resp = resp.WithWarning(result.Warning)
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	b, err := h.BookingService.GetBooking(r.Context(), auth.ActorID(r.Context()), bookingID)
	if err != nil {
		utils.WriteError(w, h.Logger, "GetBooking", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Booking retrieved", b))
}

func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	png, err := h.BookingService.TicketQR(r.Context(), auth.ActorID(r.Context()), bookingID)
	if err != nil {
		utils.WriteError(w, h.Logger, "GetTicketQR", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicketQR: failed to write response: %v", err))
	}
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.BookingService.ListForActor(r.Context(), auth.ActorID(r.Context()))
	if err != nil {
		utils.WriteError(w, h.Logger, "ListMyBookings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Bookings retrieved", bookings))
}

// VerifyTicket expects {"payload": "..."} as read from the ticket QR code.
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, h.Logger, "VerifyTicket", fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	b, err := h.BookingService.VerifyTicket(r.Context(), auth.ActorID(r.Context()), req.Payload)
	if err != nil {
		utils.WriteError(w, h.Logger, "VerifyTicket", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket valid", b))
}
