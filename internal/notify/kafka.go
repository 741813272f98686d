package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaBatchTimeout bounds how long a synchronous write waits for a batch to fill.
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaSender publishes messages to the front-end topic, keyed by subscriber
// so a subscriber's messages stay ordered within a partition.
type KafkaSender struct {
	writer *kafka.Writer
	Topic  string
}

// NewKafkaSender creates a sender writing to topic on brokers.
func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           kafkaBatchTimeout,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSender{writer: writer, Topic: topic}
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	km, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

func encodeMessage(msg Message) (kafka.Message, error) {
	value, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal message: %w", err)
	}
	return kafka.Message{
		Key:   []byte(msg.SubscriberID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
		},
	}, nil
}
