package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// Delivery is a fetched notice that stays owned by the queue until acked.
type Delivery struct {
	Notice models.Notice
	ack    func(ctx context.Context) error
}

func NewDelivery(notice models.Notice, ack func(ctx context.Context) error) Delivery {
	return Delivery{Notice: notice, ack: ack}
}

func (d Delivery) Ack(ctx context.Context) error {
	if d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

// Consumer hands out deliveries. Fetch blocks until a notice is available
// or ctx is done.
type Consumer interface {
	Fetch(ctx context.Context) (Delivery, error)
	Close() error
}

type WorkerPool struct {
	// NewConsumer is called once per worker.
	NewConsumer func() (Consumer, error)
	// Requeue receives notices whose retry budget ran out.
	Requeue Producer
	// DeadLetter receives notices that reached MaxRedelivery or are
	// undeliverable. MaxRedelivery 0 sends the first failure straight there.
	DeadLetter    Producer
	Deliverer     Deliverer
	Workers       int
	RetryBudget   time.Duration
	MaxRedelivery int
	Logger        *logger.Logger

	newBackOff func() backoff.BackOff
}

// Run blocks until ctx is cancelled and every worker has returned. A notice
// in flight at shutdown is left unacked so the queue hands it out again.
func (p *WorkerPool) Run(ctx context.Context) error {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	consumers := make([]Consumer, 0, workers)
	for i := 0; i < workers; i++ {
		c, err := p.NewConsumer()
		if err != nil {
			for _, opened := range consumers {
				opened.Close()
			}
			return fmt.Errorf("open consumer %d: %w", i, err)
		}
		consumers = append(consumers, c)
	}

	p.Logger.Info("WORKER", fmt.Sprintf("Starting %d notification workers", workers))

	var wg sync.WaitGroup
	for i, c := range consumers {
		wg.Add(1)
		go func(id int, c Consumer) {
			defer wg.Done()
			defer c.Close()
			p.work(ctx, id, c)
		}(i, c)
	}
	wg.Wait()

	p.Logger.Info("WORKER", "Notification workers stopped")
	return nil
}

func (p *WorkerPool) work(ctx context.Context, id int, c Consumer) {
	for {
		d, err := c.Fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.Logger.Error("WORKER", fmt.Sprintf("worker %d fetch failed: %v", id, err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		p.handle(ctx, d)
	}
}

func (p *WorkerPool) handle(ctx context.Context, d Delivery) {
	notice := d.Notice

	err := backoff.Retry(func() error {
		err := p.Deliverer.Deliver(ctx, notice)
		if errors.Is(err, ErrUndeliverable) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(p.backOff(), ctx))

	if err == nil {
		if ackErr := d.Ack(ctx); ackErr != nil {
			p.Logger.Warn("WORKER", fmt.Sprintf("Delivered %s but ack failed: %v", notice.ID, ackErr))
		}
		return
	}
	if ctx.Err() != nil {
		return
	}

	next := notice
	next.Attempt++
	target, where := p.Requeue, "requeued"
	if errors.Is(err, ErrUndeliverable) || next.Attempt >= p.MaxRedelivery {
		target, where = p.DeadLetter, "dead-lettered"
	}

	if pubErr := target.Publish(ctx, next); pubErr != nil {
		p.Logger.Error("WORKER", fmt.Sprintf("Could not move notice %s after failure (%v): %v", notice.ID, err, pubErr))
		return
	}
	if ackErr := d.Ack(ctx); ackErr != nil {
		p.Logger.Warn("WORKER", fmt.Sprintf("Notice %s %s but ack failed: %v", notice.ID, where, ackErr))
	}

	if where == "dead-lettered" {
		p.Logger.Error("WORKER", fmt.Sprintf("Notice %s (%s %s) dead-lettered after attempt %d: %v", notice.ID, notice.Kind, notice.SubjectID, next.Attempt, err))
	} else {
		p.Logger.Warn("WORKER", fmt.Sprintf("Notice %s requeued, attempt %d: %v", notice.ID, next.Attempt, err))
	}
}

func (p *WorkerPool) backOff() backoff.BackOff {
	if p.newBackOff != nil {
		return p.newBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	if p.RetryBudget > 0 {
		b.MaxElapsedTime = p.RetryBudget
	}
	return b
}
