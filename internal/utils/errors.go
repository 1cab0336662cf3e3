package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrActorNotFound),
		errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTicketsExhausted),
		errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrTransaction):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err under op and writes the mapped response. Internal
// errors are not echoed to the client.
func WriteError(w http.ResponseWriter, log *logger.Logger, op string, err error) {
	status := StatusFor(err)
	detail := err.Error()

	switch status {
	case http.StatusInternalServerError:
		log.Error("API", fmt.Sprintf("%s: %v", op, err))
		detail = "internal error"
	case http.StatusServiceUnavailable:
		log.Warn("API", fmt.Sprintf("%s: %v", op, err))
		w.Header().Set("Retry-After", "1")
	default:
		log.Debug("API", fmt.Sprintf("%s: %v", op, err))
	}

	WriteJSON(w, status, ErrorResponse(http.StatusText(status), detail))
}
