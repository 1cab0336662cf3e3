package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

func newRedisQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &RedisQueue{
		Client:        client,
		Key:           "notices:pending",
		ProcessingKey: "notices:processing",
		BlockTimeout:  100 * time.Millisecond,
		Logger:        logger.Nop(),
	}, mr
}

func TestRedisQueueFetchAndAck(t *testing.T) {
	q, mr := newRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, models.Notice{ID: "n1", Kind: models.NoticeBookingConfirmation, SubjectID: "b1"}))
	require.NoError(t, q.Publish(ctx, models.Notice{ID: "n2", Kind: models.NoticeEventUpdate, SubjectID: "e1"}))

	d, err := q.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", d.Notice.ID, "queue is FIFO")

	inFlight, err := mr.List("notices:processing")
	require.NoError(t, err)
	assert.Len(t, inFlight, 1)

	require.NoError(t, d.Ack(ctx))
	assert.False(t, mr.Exists("notices:processing"))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisQueueRecoverReturnsUnacked(t *testing.T) {
	q, _ := newRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, models.Notice{ID: "n1", Kind: models.NoticeEventUpdate, SubjectID: "e1"}))
	_, err := q.Fetch(ctx)
	require.NoError(t, err)

	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	d, err := q.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", d.Notice.ID)
}

func TestRedisQueueDropsMalformedEntries(t *testing.T) {
	q, mr := newRedisQueue(t)
	ctx := context.Background()

	_, err := mr.Lpush("notices:pending", "{not json")
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, models.Notice{ID: "n1", Kind: models.NoticeEventUpdate, SubjectID: "e1"}))

	d, err := q.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", d.Notice.ID)

	inFlight, err := mr.List("notices:processing")
	require.NoError(t, err)
	assert.Len(t, inFlight, 1)
}

func TestRedisQueueFetchStopsOnCancel(t *testing.T) {
	q, _ := newRedisQueue(t)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := q.Fetch(ctx)
	assert.Error(t, err)
}
