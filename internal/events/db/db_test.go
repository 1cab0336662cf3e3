package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parshant679/event-booking/internal/events/db"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/testutil"
)

func TestCreateAndGetEvent(t *testing.T) {
	bunDB := testutil.NewDB(t)
	eventDB := &db.DB{Bun: bunDB}
	ctx := context.Background()
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)

	event := models.Event{
		ID:               uuid.NewString(),
		Title:            "Jazz Evening",
		OrganizerID:      organizer.ID,
		Venue:            "Blue Room",
		StartTime:        1000,
		EndTime:          2000,
		TotalTickets:     50,
		AvailableTickets: 50,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, eventDB.CreateEvent(ctx, event))

	got, err := eventDB.GetEventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Evening", got.Title)
	assert.Equal(t, 50, got.AvailableTickets)

	_, err = eventDB.GetEventByID(ctx, "non-existent")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestUpdateEventDetailsLeavesCountersAlone(t *testing.T) {
	bunDB := testutil.NewDB(t)
	eventDB := &db.DB{Bun: bunDB}
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 10, 7)

	updated, err := eventDB.UpdateEventDetails(context.Background(), event.ID, models.EventEdit{
		Title:     "Launch Night (moved)",
		Venue:     "Hall B",
		StartTime: 200,
		EndTime:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hall B", updated.Venue)
	assert.Equal(t, int64(200), updated.StartTime)
	assert.Equal(t, int64(250), updated.EndTime)
	assert.Equal(t, 10, updated.TotalTickets)
	assert.Equal(t, 7, updated.AvailableTickets)
	assert.Equal(t, organizer.ID, updated.OrganizerID)
}

func TestUpdateEventDetailsNotFound(t *testing.T) {
	eventDB := &db.DB{Bun: testutil.NewDB(t)}

	_, err := eventDB.UpdateEventDetails(context.Background(), "missing", models.EventEdit{Title: "x", StartTime: 1, EndTime: 2})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestTryReserveOutcomes(t *testing.T) {
	bunDB := testutil.NewDB(t)
	eventDB := &db.DB{Bun: bunDB}
	ctx := context.Background()
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 1, 1)

	result, updated, err := eventDB.TryReserve(ctx, bunDB, event.ID)
	require.NoError(t, err)
	assert.Equal(t, db.Reserved, result)
	require.NotNil(t, updated)
	assert.Equal(t, 0, updated.AvailableTickets)

	result, updated, err = eventDB.TryReserve(ctx, bunDB, event.ID)
	require.NoError(t, err)
	assert.Equal(t, db.Exhausted, result)
	assert.Nil(t, updated)

	result, _, err = eventDB.TryReserve(ctx, bunDB, "missing")
	require.NoError(t, err)
	assert.Equal(t, db.NotFound, result)

	assert.Equal(t, 0, testutil.EventByID(t, bunDB, event.ID).AvailableTickets)
}

func TestTryReserveConcurrentNeverGoesNegative(t *testing.T) {
	bunDB := testutil.NewDB(t)
	eventDB := &db.DB{Bun: bunDB}
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 5, 5)

	const callers = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _, err := eventDB.TryReserve(context.Background(), bunDB, event.ID)
			if err == nil && result == db.Reserved {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, reserved)
	assert.Equal(t, 0, testutil.EventByID(t, bunDB, event.ID).AvailableTickets)
}

func TestGetEventStats(t *testing.T) {
	bunDB := testutil.NewDB(t)
	eventDB := &db.DB{Bun: bunDB}
	ctx := context.Background()
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	customer := testutil.SeedUser(t, bunDB, models.RoleCustomer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 3, 1)

	for i := 0; i < 2; i++ {
		b := models.Booking{ID: uuid.NewString(), EventID: event.ID, UserID: customer.ID, CreatedAt: time.Now()}
		_, err := bunDB.NewInsert().Model(&b).Exec(ctx)
		require.NoError(t, err)
	}

	stats, err := eventDB.GetEventStats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Booked)
	assert.Equal(t, 2, stats.Bookings)
	assert.True(t, stats.Consistent)

	_, err = eventDB.GetEventStats(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}
