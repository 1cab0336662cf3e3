package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewWriter builds a writer with no fixed topic; every message names its own.
// Keys hash to partitions so notices for one subject stay ordered.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}
