package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Parshant679/event-booking/internal/models"
)

type ReserveResult int

const (
	Reserved ReserveResult = iota
	Exhausted
	NotFound
)

func (r ReserveResult) String() string {
	switch r {
	case Reserved:
		return "reserved"
	case Exhausted:
		return "exhausted"
	default:
		return "not_found"
	}
}

// TryReserve takes one ticket from the event inside the caller's transaction.
// The guarded UPDATE is the only place available_tickets is written; the
// store serialises it per row, so of N callers racing for the last ticket
// exactly one sees a row affected. It never retries.
func (d *DB) TryReserve(ctx context.Context, tx bun.IDB, eventID string) (ReserveResult, *models.Event, error) {
	res, err := tx.NewUpdate().
		Model((*models.Event)(nil)).
		Set("available_tickets = available_tickets - 1").
		Where("id = ?", eventID).
		Where("available_tickets > 0").
		Exec(ctx)
	if err != nil {
		return NotFound, nil, fmt.Errorf("decrement tickets for event %s: %w", eventID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return NotFound, nil, fmt.Errorf("rows affected for event %s: %w", eventID, err)
	}

	if n == 0 {
		exists, err := tx.NewSelect().
			Model((*models.Event)(nil)).
			Where("id = ?", eventID).
			Exists(ctx)
		if err != nil {
			return NotFound, nil, fmt.Errorf("check event %s: %w", eventID, err)
		}
		if !exists {
			return NotFound, nil, nil
		}
		return Exhausted, nil, nil
	}

	event, err := getEvent(ctx, tx, eventID)
	if err != nil {
		return NotFound, nil, err
	}
	return Reserved, event, nil
}
