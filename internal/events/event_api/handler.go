package event_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/events"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/utils"
)

type Handler struct {
	EventService *events.EventService
	Logger       *logger.Logger
}

func NewHandler(eventService *events.EventService, log *logger.Logger) *Handler {
	return &Handler{EventService: eventService, Logger: log}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventCreate
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, h.Logger, "CreateEvent", fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), auth.ActorID(r.Context()), req)
	if err != nil {
		utils.WriteError(w, h.Logger, "CreateEvent", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", event))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	event, err := h.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, h.Logger, "GetEvent", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", event))
}

func (h *Handler) GetEventStats(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	stats, err := h.EventService.Stats(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, h.Logger, "GetEventStats", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event stats retrieved", stats))
}

func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req models.EventEdit
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, h.Logger, "EditEvent", fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	result, err := h.EventService.EditEvent(r.Context(), auth.ActorID(r.Context()), eventID, req)
	if err != nil {
		utils.WriteError(w, h.Logger, "EditEvent", err)
		return
	}

	resp := utils.SuccessResponse("Event updated", result.Event)
	if !result.NoticeQueued {
		resp = resp.WithWarning(result.Warning)
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
