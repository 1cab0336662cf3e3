// Package notify queues confirmation and update notices after a business
// transaction commits and drains them with an independent worker pool.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// Producer appends a notice to a durable queue.
type Producer interface {
	Publish(ctx context.Context, notice models.Notice) error
}

type Dispatcher struct {
	Producer Producer
	Logger   *logger.Logger
	Timeout  time.Duration
	now      func() time.Time
}

func NewDispatcher(producer Producer, log *logger.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{Producer: producer, Logger: log, Timeout: timeout, now: time.Now}
}

// Enqueue must only be called once the triggering transaction has committed.
// The caller's cancellation is dropped so a finished request still gets its
// notice out; the publish itself is bounded by Timeout. Errors are logged
// here and returned for the caller to report as a warning.
func (d *Dispatcher) Enqueue(ctx context.Context, kind models.NoticeKind, subjectID string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown notice kind %q", models.ErrValidation, kind)
	}

	notice := models.Notice{
		ID:         uuid.NewString(),
		Kind:       kind,
		SubjectID:  subjectID,
		EnqueuedAt: d.now().UTC(),
	}

	ctx = context.WithoutCancel(ctx)
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	if err := d.Producer.Publish(ctx, notice); err != nil {
		d.Logger.Warn("NOTIFY", fmt.Sprintf("Failed to enqueue %s for %s: %v", kind, subjectID, err))
		return fmt.Errorf("enqueue %s for %s: %w", kind, subjectID, err)
	}

	d.Logger.Info("NOTIFY", fmt.Sprintf("Queued %s %s for %s", kind, notice.ID, subjectID))
	return nil
}
