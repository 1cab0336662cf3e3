package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Parshant679/event-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// RecordBooking appends one booking row inside the caller's transaction. The
// caller must already hold a successful reservation for eventID in tx;
// capacity is not re-checked here.
func (d *DB) RecordBooking(ctx context.Context, tx bun.IDB, eventID, userID string) (*models.Booking, error) {
	booking := models.Booking{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := tx.NewInsert().Model(&booking).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert booking for event %s: %w", eventID, err)
	}
	return &booking, nil
}

// GetBookingByID → fetch one booking
func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &booking, nil
}

// GetBookingsByUser → newest first
func (d *DB) GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

func (d *DB) CountBookings(ctx context.Context, eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		Where("event_id = ?", eventID).
		Count(ctx)
}
