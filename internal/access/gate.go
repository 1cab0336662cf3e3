// Package access decides whether an actor may perform an operation.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

type ActorLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Gate re-reads the actor on every call; roles are never cached.
type Gate struct {
	Users  ActorLookup
	Logger *logger.Logger
}

func NewGate(users ActorLookup, log *logger.Logger) *Gate {
	return &Gate{Users: users, Logger: log}
}

// Authorize reports whether actorID exists and holds role. A missing actor
// is a plain false; only lookup failures return an error.
func (g *Gate) Authorize(ctx context.Context, actorID string, role models.Role) (bool, error) {
	_, err := g.lookup(ctx, actorID, role)
	if errors.Is(err, models.ErrUnauthorized) {
		return false, nil
	}
	return err == nil, err
}

// Require is Authorize for callers that also need the actor record. It
// returns models.ErrUnauthorized when the check fails.
func (g *Gate) Require(ctx context.Context, actorID string, role models.Role) (*models.User, error) {
	return g.lookup(ctx, actorID, role)
}

func (g *Gate) lookup(ctx context.Context, actorID string, role models.Role) (*models.User, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: no actor", models.ErrUnauthorized)
	}

	actor, err := g.Users.GetUserByID(ctx, actorID)
	if errors.Is(err, models.ErrActorNotFound) {
		g.Logger.LogSecurity("ACCESS_DENIED", fmt.Sprintf("unknown actor %s requested %s", actorID, role))
		return nil, fmt.Errorf("%w: unknown actor", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up actor %s: %w", actorID, err)
	}

	if actor.Role != role {
		g.Logger.LogSecurity("ACCESS_DENIED", fmt.Sprintf("actor %s has role %s, %s required", actorID, actor.Role, role))
		return nil, fmt.Errorf("%w: %s role required", models.ErrUnauthorized, role)
	}
	return actor, nil
}
