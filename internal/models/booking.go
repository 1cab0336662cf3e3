package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking rows are append-only evidence of a successful reservation.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        string    `bun:"id,pk" json:"id"`
	EventID   string    `bun:"event_id,notnull" json:"event_id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type BookingRequest struct {
	EventID string `json:"event_id"`
}
