package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// ErrUndeliverable marks a notice that retrying cannot fix. The worker parks
// it on the dead-letter queue straight away.
var ErrUndeliverable = errors.New("notice undeliverable")

// Deliverer renders and transmits a notice. Implementations must tolerate
// seeing the same notice more than once.
type Deliverer interface {
	Deliver(ctx context.Context, notice models.Notice) error
}

// LogDeliverer stands in for the message channel and records each send.
type LogDeliverer struct {
	Logger *logger.Logger
}

func (d *LogDeliverer) Deliver(ctx context.Context, notice models.Notice) error {
	switch notice.Kind {
	case models.NoticeBookingConfirmation:
		d.Logger.Info("NOTIFY", fmt.Sprintf("Sending confirmation for booking %s", notice.SubjectID))
	case models.NoticeEventUpdate:
		d.Logger.Info("NOTIFY", fmt.Sprintf("Sending updates for event %s", notice.SubjectID))
	default:
		return fmt.Errorf("%w: kind %q", ErrUndeliverable, notice.Kind)
	}
	return nil
}
