package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Parshant679/event-booking/internal/database"
	"github.com/Parshant679/event-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateUser → insert a new actor
func (d *DB) CreateUser(ctx context.Context, user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return models.ErrEmailTaken
	}
	return err
}

// GetUserByID → fetch one actor; always hits the table so role changes are seen
func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}
