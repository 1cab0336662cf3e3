package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Parshant679/event-booking/internal/logger"
	"github.com/Parshant679/event-booking/internal/models"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes notices keyed by subject id.
type KafkaProducer struct {
	Writer MessageWriter
	Topic  string
}

func (p *KafkaProducer) Publish(ctx context.Context, notice models.Notice) error {
	value, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	msg := kafka.Message{
		Topic: p.Topic,
		Key:   []byte(notice.SubjectID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "notice_kind", Value: []byte(notice.Kind)},
			{Key: "notice_id", Value: []byte(notice.ID)},
		},
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.Topic, err)
	}
	return nil
}

// KafkaConsumer commits a message's offset only when its delivery is acked.
// Each worker should own its own reader.
type KafkaConsumer struct {
	Reader MessageReader
	Logger *logger.Logger
}

func (c *KafkaConsumer) Fetch(ctx context.Context) (Delivery, error) {
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			return Delivery{}, err
		}

		var notice models.Notice
		if err := json.Unmarshal(msg.Value, &notice); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("Skipping malformed notice at %s/%d@%d: %v", msg.Topic, msg.Partition, msg.Offset, err))
			if err := c.Reader.CommitMessages(ctx, msg); err != nil {
				return Delivery{}, err
			}
			continue
		}

		return NewDelivery(notice, func(ctx context.Context) error {
			return c.Reader.CommitMessages(ctx, msg)
		}), nil
	}
}

func (c *KafkaConsumer) Close() error {
	return c.Reader.Close()
}
