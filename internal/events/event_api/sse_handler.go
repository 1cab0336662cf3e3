package event_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/sse"
	"github.com/Parshant679/event-booking/internal/utils"
)

type EventLookup interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// SSEHandler streams ticket availability for one event.
type SSEHandler struct {
	Events  EventLookup
	Emitter *sse.AvailabilityEmitter
	Logger  *logger.Logger
}

func NewSSEHandler(events EventLookup, emitter *sse.AvailabilityEmitter, log *logger.Logger) *SSEHandler {
	return &SSEHandler{Events: events, Emitter: emitter, Logger: log}
}

func (h *SSEHandler) StreamAvailability(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, h.Logger, "StreamAvailability", err)
		return
	}

	rc := http.NewResponseController(w)
	// the stream outlives the server's write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	updates := h.Emitter.Subscribe(ctx, eventID)

	if err := h.send(w, rc, models.Availability{
		EventID:          event.ID,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		At:               time.Now().UTC(),
	}); err != nil {
		return
	}
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to availability stream for event: %s", eventID))

	for {
		select {
		case a, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(w, rc, a); err != nil {
				h.Logger.Debug("SSE", fmt.Sprintf("Stream for event %s ended: %v", eventID, err))
				return
			}
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from availability stream for: %s", eventID))
			return
		}
	}
}

func (h *SSEHandler) send(w http.ResponseWriter, rc *http.ResponseController, a models.Availability) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: availability\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}
