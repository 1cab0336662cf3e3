package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

// RedisQueue is a reliable list queue: producers LPUSH onto Key, consumers
// BRPOPLPUSH into ProcessingKey and LREM on ack. Anything left in
// ProcessingKey after a crash is moved back by Recover.
type RedisQueue struct {
	Client        *redis.Client
	Key           string
	ProcessingKey string
	BlockTimeout  time.Duration
	Logger        *logger.Logger
}

func (q *RedisQueue) Publish(ctx context.Context, notice models.Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	if err := q.Client.LPush(ctx, q.Key, payload).Err(); err != nil {
		return fmt.Errorf("redis push to %s: %w", q.Key, err)
	}
	return nil
}

func (q *RedisQueue) Fetch(ctx context.Context) (Delivery, error) {
	timeout := q.BlockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	for {
		raw, err := q.Client.BRPopLPush(ctx, q.Key, q.ProcessingKey, timeout).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return Delivery{}, ctx.Err()
			}
			continue
		}
		if err != nil {
			return Delivery{}, fmt.Errorf("redis pop from %s: %w", q.Key, err)
		}

		ack := func(ctx context.Context) error {
			return q.Client.LRem(ctx, q.ProcessingKey, 1, raw).Err()
		}

		var notice models.Notice
		if err := json.Unmarshal([]byte(raw), &notice); err != nil {
			q.Logger.Error("REDIS", fmt.Sprintf("Dropping malformed notice: %v", err))
			if err := ack(ctx); err != nil {
				return Delivery{}, err
			}
			continue
		}
		return NewDelivery(notice, ack), nil
	}
}

// Recover moves every in-flight entry back onto the pending list and
// reports how many were moved.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.Client.RPopLPush(ctx, q.ProcessingKey, q.Key).Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("redis recover %s: %w", q.ProcessingKey, err)
		}
		moved++
	}
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.Client.LLen(ctx, q.Key).Result()
}

// Close leaves the shared client open; main owns it.
func (q *RedisQueue) Close() error {
	return nil
}
