package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/Parshant679/event-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateEvent → insert new event
func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(ctx)
	return err
}

// GetEventByID → fetch one event by its ID
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return getEvent(ctx, d.Bun, id)
}

// UpdateEventDetails → write title, venue and times; the ticket counters are
// never part of the column list
func (d *DB) UpdateEventDetails(ctx context.Context, id string, edit models.EventEdit) (*models.Event, error) {
	var updated *models.Event
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		event := models.Event{
			ID:        id,
			Title:     edit.Title,
			Venue:     edit.Venue,
			StartTime: edit.StartTime,
			EndTime:   edit.EndTime,
			UpdatedAt: time.Now().UTC(),
		}
		res, err := tx.NewUpdate().
			Model(&event).
			Column("title", "venue", "start_time", "end_time", "updated_at").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update event %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return models.ErrEventNotFound
		}

		updated, err = getEvent(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetEventStats → counter state next to the ledger count
func (d *DB) GetEventStats(ctx context.Context, id string) (*models.EventStats, error) {
	event, err := getEvent(ctx, d.Bun, id)
	if err != nil {
		return nil, err
	}

	bookings, err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("event_id = ?", id).
		Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings for event %s: %w", id, err)
	}

	booked := event.TotalTickets - event.AvailableTickets
	return &models.EventStats{
		EventID:          event.ID,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		Booked:           booked,
		Bookings:         bookings,
		Consistent:       booked == bookings,
	}, nil
}

func getEvent(ctx context.Context, idb bun.IDB, id string) (*models.Event, error) {
	var event models.Event
	err := idb.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &event, nil
}
