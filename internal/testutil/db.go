package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Parshant679/event-booking/internal/database"
	"github.com/Parshant679/event-booking/internal/models"
)

// NewDB returns an in-memory SQLite bun.DB with the schema created. The pool
// is pinned to one connection because every ":memory:" connection is its own
// database.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	if err := database.CreateSchema(context.Background(), bunDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return bunDB
}

func SeedUser(t *testing.T, db bun.IDB, role models.Role) models.User {
	t.Helper()

	id := uuid.NewString()
	u := models.User{
		ID:        id,
		Name:      "user " + id[:8],
		Email:     id + "@example.com",
		Phone:     "555-0100",
		Role:      role,
		CreatedAt: time.Now(),
	}
	if _, err := db.NewInsert().Model(&u).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return u
}

func SeedEvent(t *testing.T, db bun.IDB, organizerID string, total, available int) models.Event {
	t.Helper()

	e := models.Event{
		ID:               uuid.NewString(),
		Title:            "Launch Night",
		OrganizerID:      organizerID,
		Venue:            "Hall A",
		StartTime:        100,
		EndTime:          150,
		TotalTickets:     total,
		AvailableTickets: available,
		CreatedAt:        time.Now(),
	}
	if _, err := db.NewInsert().Model(&e).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return e
}

func EventByID(t *testing.T, db bun.IDB, id string) models.Event {
	t.Helper()

	var e models.Event
	if err := db.NewSelect().Model(&e).Where("id = ?", id).Limit(1).Scan(context.Background()); err != nil {
		t.Fatalf("Failed to load event %s: %v", id, err)
	}
	return e
}

func CountBookings(t *testing.T, db bun.IDB, eventID string) int {
	t.Helper()

	n, err := db.NewSelect().Model((*models.Booking)(nil)).Where("event_id = ?", eventID).Count(context.Background())
	if err != nil {
		t.Fatalf("Failed to count bookings: %v", err)
	}
	return n
}
