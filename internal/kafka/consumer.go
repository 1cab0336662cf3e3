package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewReader joins groupID on topic. Offsets are committed explicitly through
// CommitMessages, never on read.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}
