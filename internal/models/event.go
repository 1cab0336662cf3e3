package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event start/end are unix seconds. AvailableTickets is only ever changed
// by the inventory store's conditional decrement.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID               string    `bun:"id,pk" json:"id"`
	Title            string    `bun:"title,notnull" json:"title"`
	OrganizerID      string    `bun:"organizer_id,notnull" json:"organizer_id"`
	Venue            string    `bun:"venue" json:"venue"`
	StartTime        int64     `bun:"start_time,notnull" json:"start_time"`
	EndTime          int64     `bun:"end_time,notnull" json:"end_time"`
	TotalTickets     int       `bun:"total_tickets,notnull" json:"total_tickets"`
	AvailableTickets int       `bun:"available_tickets,notnull" json:"available_tickets"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type EventCreate struct {
	Title            string `json:"title"`
	Venue            string `json:"venue"`
	StartTime        int64  `json:"start_time"`
	EndTime          int64  `json:"end_time"`
	TotalTickets     int    `json:"total_tickets"`
	AvailableTickets *int   `json:"available_tickets,omitempty"`
}

type EventEdit struct {
	Title     string `json:"title"`
	Venue     string `json:"venue"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

// EventStats reports the inventory counter next to the ledger count.
type EventStats struct {
	EventID          string `json:"event_id"`
	TotalTickets     int    `json:"total_tickets"`
	AvailableTickets int    `json:"available_tickets"`
	Booked           int    `json:"booked"`
	Bookings         int    `json:"bookings"`
	Consistent       bool   `json:"consistent"`
}

// Availability is pushed to live subscribers after each committed booking.
type Availability struct {
	EventID          string    `json:"event_id"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
	At               time.Time `json:"at"`
}
