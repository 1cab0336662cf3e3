// Package booking runs the reservation core: an atomic decrement on the
// event row and the ledger insert in one transaction, followed by the
// confirmation notice once that transaction has committed.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	eventdb "github.com/Parshant679/event-booking/internal/events/db"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// TxRunner is satisfied by *bun.DB.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

type Inventory interface {
	TryReserve(ctx context.Context, tx bun.IDB, eventID string) (eventdb.ReserveResult, *models.Event, error)
}

type Ledger interface {
	RecordBooking(ctx context.Context, tx bun.IDB, eventID, userID string) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type AccessGate interface {
	Require(ctx context.Context, actorID string, role models.Role) (*models.User, error)
}

type Notifier interface {
	Enqueue(ctx context.Context, kind models.NoticeKind, subjectID string) error
}

type TicketEncoder interface {
	GeneratePNG(booking models.Booking) ([]byte, error)
	Verify(payload string) (models.Booking, error)
}

// AvailabilityFeed receives the post-commit ticket count of an event.
type AvailabilityFeed interface {
	Emit(a models.Availability)
}

type BookingService struct {
	Tx        TxRunner
	Inventory Inventory
	Ledger    Ledger
	Gate      AccessGate
	Notifier  Notifier
	Logger    *logger.Logger
	Tickets   TicketEncoder
	Feed      AvailabilityFeed

	// TxOptions is passed to every reservation transaction. nil uses the
	// driver default.
	TxOptions *sql.TxOptions
	// TxTimeout bounds the reservation transaction; on expiry it rolls back.
	TxTimeout time.Duration
}

func NewBookingService(tx TxRunner, inventory Inventory, ledger Ledger, gate AccessGate, notifier Notifier, log *logger.Logger) *BookingService {
	return &BookingService{
		Tx:        tx,
		Inventory: inventory,
		Ledger:    ledger,
		Gate:      gate,
		Notifier:  notifier,
		Logger:    log,
	}
}

type BookResult struct {
	Booking      *models.Booking `json:"booking"`
	Event        *models.Event   `json:"event"`
	NoticeQueued bool            `json:"notice_queued"`
	Warning      string          `json:"warning,omitempty"`
}

// Book reserves one ticket of eventID for a customer. Exhaustion and a
// missing event come back as models.ErrTicketsExhausted and
// models.ErrEventNotFound; any other failure inside the transaction is
// rolled back and reported as models.ErrTransaction. Nothing is retried.
func (s *BookingService) Book(ctx context.Context, actorID, eventID string) (*BookResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event_id is required", models.ErrValidation)
	}

	customer, err := s.Gate.Require(ctx, actorID, models.RoleCustomer)
	if err != nil {
		return nil, err
	}

	txCtx := ctx
	if s.TxTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, s.TxTimeout)
		defer cancel()
	}

	var booking *models.Booking
	var event *models.Event
	err = s.Tx.RunInTx(txCtx, s.TxOptions, func(ctx context.Context, tx bun.Tx) error {
		result, updated, err := s.Inventory.TryReserve(ctx, tx, eventID)
		if err != nil {
			return err
		}
		switch result {
		case eventdb.Exhausted:
			return models.ErrTicketsExhausted
		case eventdb.NotFound:
			return models.ErrEventNotFound
		}

		booking, err = s.Ledger.RecordBooking(ctx, tx, eventID, customer.ID)
		if err != nil {
			return err
		}
		event = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrTicketsExhausted) || errors.Is(err, models.ErrEventNotFound) {
			s.Logger.Debug("BOOKING", fmt.Sprintf("Customer %s could not book event %s: %v", customer.ID, eventID, err))
			return nil, err
		}
		s.Logger.Error("BOOKING", fmt.Sprintf("Reservation for event %s rolled back: %v", eventID, err))
		return nil, fmt.Errorf("%w: %v", models.ErrTransaction, err)
	}

	s.Logger.LogBooking("CREATED", booking.ID, fmt.Sprintf("event %s, customer %s, %d left", eventID, customer.ID, event.AvailableTickets))

	if s.Feed != nil {
		s.Feed.Emit(models.Availability{
			EventID:          event.ID,
			TotalTickets:     event.TotalTickets,
			AvailableTickets: event.AvailableTickets,
			At:               time.Now().UTC(),
		})
	}

	result := &BookResult{Booking: booking, Event: event, NoticeQueued: true}
	if err := s.Notifier.Enqueue(ctx, models.NoticeBookingConfirmation, booking.ID); err != nil {
		result.NoticeQueued = false
		result.Warning = "booking confirmed but the confirmation notice could not be queued"
	}
	return result, nil
}

// GetBooking returns the booking only to the customer who made it.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: no actor", models.ErrUnauthorized)
	}
	booking, err := s.Ledger.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actorID {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) ListForActor(ctx context.Context, actorID string) ([]models.Booking, error) {
	if _, err := s.Gate.Require(ctx, actorID, models.RoleCustomer); err != nil {
		return nil, err
	}
	return s.Ledger.GetBookingsByUser(ctx, actorID)
}

// TicketQR renders the signed QR code for one of the actor's bookings.
func (s *BookingService) TicketQR(ctx context.Context, actorID, bookingID string) ([]byte, error) {
	if s.Tickets == nil {
		return nil, errors.New("ticket QR codes are not configured")
	}
	booking, err := s.GetBooking(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}
	png, err := s.Tickets.GeneratePNG(*booking)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket for booking %s: %w", bookingID, err)
	}
	return png, nil
}

// VerifyTicket checks a scanned ticket payload at the door. Only organizers
// may scan; the payload must carry a valid signature and match a stored
// booking exactly.
func (s *BookingService) VerifyTicket(ctx context.Context, actorID, payload string) (*models.Booking, error) {
	if s.Tickets == nil {
		return nil, errors.New("ticket QR codes are not configured")
	}
	if _, err := s.Gate.Require(ctx, actorID, models.RoleOrganizer); err != nil {
		return nil, err
	}

	claimed, err := s.Tickets.Verify(payload)
	if err != nil {
		s.Logger.LogSecurity("TICKET_REJECTED", fmt.Sprintf("scanned by %s: %v", actorID, err))
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	booking, err := s.Ledger.GetBookingByID(ctx, claimed.ID)
	if err != nil {
		return nil, err
	}
	if booking.EventID != claimed.EventID || booking.UserID != claimed.UserID {
		s.Logger.LogSecurity("TICKET_REJECTED", fmt.Sprintf("payload for booking %s does not match the ledger", claimed.ID))
		return nil, fmt.Errorf("%w: ticket does not match booking", models.ErrValidation)
	}
	s.Logger.LogBooking("VERIFIED", booking.ID, fmt.Sprintf("scanned by %s", actorID))
	return booking, nil
}
