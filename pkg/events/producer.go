package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"skyfare/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher emits booking lifecycle events. Publishing is best-effort from
// the coordinators' perspective; a failed publish never rolls back a booking.
type Publisher interface {
	PublishBooking(ctx context.Context, eventType string, booking model.Booking) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	mu     sync.Mutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // key by booking id for per-booking ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
	}

	return &KafkaPublisher{writer: writer}, nil
}

func (p *KafkaPublisher) PublishBooking(ctx context.Context, eventType string, booking model.Booking) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.Unlock()

	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Booking:    booking,
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(envelope.ID)},
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
