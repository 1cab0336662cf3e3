package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

type EventDBLayer interface {
	CreateEvent(ctx context.Context, event models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	UpdateEventDetails(ctx context.Context, id string, edit models.EventEdit) (*models.Event, error)
	GetEventStats(ctx context.Context, id string) (*models.EventStats, error)
}

type AccessGate interface {
	Require(ctx context.Context, actorID string, role models.Role) (*models.User, error)
}

type Notifier interface {
	Enqueue(ctx context.Context, kind models.NoticeKind, subjectID string) error
}

type EventService struct {
	DB       EventDBLayer
	Gate     AccessGate
	Notifier Notifier
	Logger   *logger.Logger
	// StrictOwnership limits edits to the organizer who created the event.
	StrictOwnership bool
}

func NewEventService(db EventDBLayer, gate AccessGate, notifier Notifier, log *logger.Logger) *EventService {
	return &EventService{DB: db, Gate: gate, Notifier: notifier, Logger: log}
}

// EditResult carries the stored event and whether its update notice made it
// onto the queue. The edit is durable either way.
type EditResult struct {
	Event        *models.Event `json:"event"`
	NoticeQueued bool          `json:"notice_queued"`
	Warning      string        `json:"warning,omitempty"`
}

func (s *EventService) CreateEvent(ctx context.Context, actorID string, req models.EventCreate) (*models.Event, error) {
	if err := validateDetails(req.Title, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.TotalTickets < 0 {
		return nil, fmt.Errorf("%w: total_tickets must not be negative", models.ErrValidation)
	}
	available := req.TotalTickets
	if req.AvailableTickets != nil {
		available = *req.AvailableTickets
	}
	if available < 0 || available > req.TotalTickets {
		return nil, fmt.Errorf("%w: available_tickets must be between 0 and %d", models.ErrValidation, req.TotalTickets)
	}

	organizer, err := s.Gate.Require(ctx, actorID, models.RoleOrganizer)
	if err != nil {
		return nil, err
	}

	event := models.Event{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(req.Title),
		OrganizerID:      organizer.ID,
		Venue:            req.Venue,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		TotalTickets:     req.TotalTickets,
		AvailableTickets: available,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.Logger.Info("EVENT", fmt.Sprintf("Organizer %s created event %s with %d tickets", organizer.ID, event.ID, event.TotalTickets))
	return &event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEventByID(ctx, id)
}

func (s *EventService) Stats(ctx context.Context, id string) (*models.EventStats, error) {
	stats, err := s.DB.GetEventStats(ctx, id)
	if err != nil {
		return nil, err
	}
	if !stats.Consistent {
		s.Logger.Error("EVENT", fmt.Sprintf("Event %s counter says %d booked but ledger has %d", id, stats.Booked, stats.Bookings))
	}
	return stats, nil
}

// EditEvent replaces the descriptive fields of an event. Ticket counters
// are not editable here. The update notice is queued only after the write
// is stored; a queue failure downgrades to a warning on the result.
func (s *EventService) EditEvent(ctx context.Context, actorID, eventID string, edit models.EventEdit) (*EditResult, error) {
	if err := validateDetails(edit.Title, edit.StartTime, edit.EndTime); err != nil {
		return nil, err
	}

	organizer, err := s.Gate.Require(ctx, actorID, models.RoleOrganizer)
	if err != nil {
		return nil, err
	}

	if s.StrictOwnership {
		current, err := s.DB.GetEventByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if current.OrganizerID != organizer.ID {
			s.Logger.LogSecurity("EDIT_DENIED", fmt.Sprintf("organizer %s does not own event %s", organizer.ID, eventID))
			return nil, fmt.Errorf("%w: event belongs to another organizer", models.ErrUnauthorized)
		}
	}

	edit.Title = strings.TrimSpace(edit.Title)
	updated, err := s.DB.UpdateEventDetails(ctx, eventID, edit)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.Logger.Info("EVENT", fmt.Sprintf("Event %s edited by %s", eventID, organizer.ID))

	result := &EditResult{Event: updated, NoticeQueued: true}
	if err := s.Notifier.Enqueue(ctx, models.NoticeEventUpdate, eventID); err != nil {
		result.NoticeQueued = false
		result.Warning = "event updated but the update notice could not be queued"
	}
	return result, nil
}

func validateDetails(title string, start, end int64) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if start > end {
		return fmt.Errorf("%w: start_time must not be after end_time", models.ErrValidation)
	}
	return nil
}
