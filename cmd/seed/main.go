// Command seed applies migrations and inserts a demo organizer, two
// customers and one event, then prints a bearer token for each actor.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Parshant679/event-booking/internal/access"
	"github.com/Parshant679/event-booking/internal/auth"
	"github.com/Parshant679/event-booking/internal/config"
	"github.com/Parshant679/event-booking/internal/database"
	"github.com/Parshant679/event-booking/internal/database/migrations"
	"github.com/Parshant679/event-booking/internal/events"
	eventdb "github.com/Parshant679/event-booking/internal/events/db"
	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
	"github.com/Parshant679/event-booking/internal/users"
	userdb "github.com/Parshant679/event-booking/internal/users/db"
)

type noNotices struct{}

func (noNotices) Enqueue(ctx context.Context, kind models.NoticeKind, subjectID string) error {
	return nil
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	cfg := config.Load()
	lg := logger.New(os.Stdout, nil, logger.ParseLevel(cfg.Log.Level))

	bunDB, err := database.ConnectPostgres(ctx, cfg.Database, lg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer bunDB.Close()

	if err := migrations.NewRunner(bunDB, lg).Up(); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	userStore := &userdb.DB{Bun: bunDB}
	userService := users.NewUserService(userStore, lg)
	eventService := events.NewEventService(&eventdb.DB{Bun: bunDB}, access.NewGate(userStore, lg), noNotices{}, lg)

	log.Println("Seeding sample data...")
	seeds := []models.UserCreate{
		{Name: "Olivia Organizer", Email: "olivia@example.com", Role: models.RoleOrganizer},
		{Name: "Alice Wonderland", Email: "alice@example.com", Role: models.RoleCustomer},
		{Name: "Bob Builder", Email: "bob@example.com", Role: models.RoleCustomer},
	}

	var organizerID string
	for _, s := range seeds {
		u, err := userService.CreateUser(ctx, s)
		if err != nil {
			log.Fatalf("❌ Failed to create %s: %v", s.Email, err)
		}
		if u.Role == models.RoleOrganizer {
			organizerID = u.ID
		}
		token, err := issuer.IssueToken(u.ID)
		if err != nil {
			log.Fatalf("❌ Failed to issue token for %s: %v", u.ID, err)
		}
		fmt.Printf("%-9s %s %s\n  token: %s\n", u.Role, u.ID, u.Email, token)
	}

	event, err := eventService.CreateEvent(ctx, organizerID, models.EventCreate{
		Title:        "Summer Fest",
		Venue:        "Riverside Park",
		StartTime:    1767225600,
		EndTime:      1767484800,
		TotalTickets: 100,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create event: %v", err)
	}
	fmt.Printf("event     %s %q (%d tickets)\n", event.ID, event.Title, event.TotalTickets)

	log.Println("✅ Done.")
}
