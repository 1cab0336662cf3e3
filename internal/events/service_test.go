package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/Parshant679/event-booking/internal/access"
	"github.com/Parshant679/event-booking/internal/events"
	eventdb "github.com/Parshant679/event-booking/internal/events/db"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/testutil"
	userdb "github.com/Parshant679/event-booking/internal/users/db"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enqueue(ctx context.Context, kind models.NoticeKind, subjectID string) error {
	args := m.Called(ctx, kind, subjectID)
	return args.Error(0)
}

func newService(t *testing.T, notifier events.Notifier) (*events.EventService, *bun.DB) {
	t.Helper()

	bunDB := testutil.NewDB(t)
	gate := access.NewGate(&userdb.DB{Bun: bunDB}, logger.Nop())
	svc := events.NewEventService(&eventdb.DB{Bun: bunDB}, gate, notifier, logger.Nop())
	return svc, bunDB
}

func intPtr(v int) *int { return &v }

func TestCreateEventDefaultsAvailableToTotal(t *testing.T) {
	svc, bunDB := newService(t, new(MockNotifier))
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)

	event, err := svc.CreateEvent(context.Background(), organizer.ID, models.EventCreate{
		Title: "Opening", Venue: "Pier 9", StartTime: 10, EndTime: 20, TotalTickets: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, event.AvailableTickets)
	assert.Equal(t, organizer.ID, event.OrganizerID)

	stored := testutil.EventByID(t, bunDB, event.ID)
	assert.Equal(t, 30, stored.TotalTickets)
}

func TestCreateEventValidation(t *testing.T) {
	svc, bunDB := newService(t, new(MockNotifier))
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)

	cases := []struct {
		name string
		req  models.EventCreate
	}{
		{"empty title", models.EventCreate{Title: " ", StartTime: 1, EndTime: 2, TotalTickets: 1}},
		{"start after end", models.EventCreate{Title: "x", StartTime: 3, EndTime: 2, TotalTickets: 1}},
		{"negative total", models.EventCreate{Title: "x", StartTime: 1, EndTime: 2, TotalTickets: -1}},
		{"available above total", models.EventCreate{Title: "x", StartTime: 1, EndTime: 2, TotalTickets: 1, AvailableTickets: intPtr(2)}},
		{"negative available", models.EventCreate{Title: "x", StartTime: 1, EndTime: 2, TotalTickets: 1, AvailableTickets: intPtr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), organizer.ID, tc.req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCustomerCannotCreateOrEditEvents(t *testing.T) {
	notifier := new(MockNotifier)
	svc, bunDB := newService(t, notifier)
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	customer := testutil.SeedUser(t, bunDB, models.RoleCustomer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 5, 5)

	_, err := svc.CreateEvent(context.Background(), customer.ID, models.EventCreate{Title: "x", StartTime: 1, EndTime: 2, TotalTickets: 1})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.EditEvent(context.Background(), customer.ID, event.ID, models.EventEdit{Title: "hijack", StartTime: 1, EndTime: 2})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	assert.Equal(t, event.Title, testutil.EventByID(t, bunDB, event.ID).Title)
	notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditEventMovesTimesAndQueuesOneUpdate(t *testing.T) {
	notifier := new(MockNotifier)
	svc, bunDB := newService(t, notifier)
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 10, 4)

	notifier.On("Enqueue", mock.Anything, models.NoticeEventUpdate, event.ID).Return(nil).Once()

	result, err := svc.EditEvent(context.Background(), organizer.ID, event.ID, models.EventEdit{
		Title: event.Title, Venue: event.Venue, StartTime: 200, EndTime: 250,
	})
	require.NoError(t, err)
	assert.True(t, result.NoticeQueued)
	assert.Empty(t, result.Warning)

	stored := testutil.EventByID(t, bunDB, event.ID)
	assert.Equal(t, int64(200), stored.StartTime)
	assert.Equal(t, int64(250), stored.EndTime)
	assert.Equal(t, 4, stored.AvailableTickets)
	notifier.AssertExpectations(t)
}

func TestEditEventRejectsInvertedTimesBeforeStorage(t *testing.T) {
	notifier := new(MockNotifier)
	svc, bunDB := newService(t, notifier)
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 10, 10)

	_, err := svc.EditEvent(context.Background(), organizer.ID, event.ID, models.EventEdit{
		Title: "Later", Venue: "Hall C", StartTime: 300, EndTime: 250,
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	stored := testutil.EventByID(t, bunDB, event.ID)
	assert.Equal(t, event.Title, stored.Title)
	assert.Equal(t, int64(100), stored.StartTime)
	assert.Equal(t, int64(150), stored.EndTime)
	notifier.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditEventNotFound(t *testing.T) {
	svc, bunDB := newService(t, new(MockNotifier))
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)

	_, err := svc.EditEvent(context.Background(), organizer.ID, "missing", models.EventEdit{Title: "x", StartTime: 1, EndTime: 2})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestEditEventSurvivesQueueFailure(t *testing.T) {
	notifier := new(MockNotifier)
	svc, bunDB := newService(t, notifier)
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 10, 10)

	notifier.On("Enqueue", mock.Anything, models.NoticeEventUpdate, event.ID).Return(errors.New("queue down"))

	result, err := svc.EditEvent(context.Background(), organizer.ID, event.ID, models.EventEdit{Title: "Renamed", StartTime: 1, EndTime: 2})
	require.NoError(t, err)
	assert.False(t, result.NoticeQueued)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, "Renamed", testutil.EventByID(t, bunDB, event.ID).Title)
}

func TestStrictOwnership(t *testing.T) {
	notifier := new(MockNotifier)
	svc, bunDB := newService(t, notifier)
	owner := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	other := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, owner.ID, 10, 10)
	edit := models.EventEdit{Title: "Taken over", StartTime: 1, EndTime: 2}

	notifier.On("Enqueue", mock.Anything, models.NoticeEventUpdate, event.ID).Return(nil)

	// role check only by default
	_, err := svc.EditEvent(context.Background(), other.ID, event.ID, edit)
	require.NoError(t, err)

	svc.StrictOwnership = true
	_, err = svc.EditEvent(context.Background(), other.ID, event.ID, edit)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.EditEvent(context.Background(), owner.ID, event.ID, edit)
	assert.NoError(t, err)
}

func TestStatsReportsConservation(t *testing.T) {
	svc, bunDB := newService(t, new(MockNotifier))
	organizer := testutil.SeedUser(t, bunDB, models.RoleOrganizer)
	event := testutil.SeedEvent(t, bunDB, organizer.ID, 8, 8)

	stats, err := svc.Stats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, stats.Consistent)
	assert.Equal(t, 0, stats.Booked)
}
