package notify

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const TopicOrderCreated = "order.created"

// OrderCreated is published after a checkout commit. Consumers (notification
// fan-out, reporting) treat it as at-most-once: a failed publish is logged
// and never re-attempted.
type OrderCreated struct {
	EventID     string    `json:"event_id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	TotalCents  int64     `json:"total_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *log.Logger
}

// NewPublisher builds a kafka publisher for order-created events. Empty
// brokers disable publishing entirely.
func NewPublisher(brokers []string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if len(brokers) == 0 {
		return &Publisher{logger: logger}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        TopicOrderCreated,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

// PublishOrderCreated publishes the event, keyed by order ID so events for
// one order stay ordered. Failures are logged and swallowed.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreated) {
	if p.writer == nil {
		return
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Printf("notify: marshal order_id=%s error=%v", event.OrderID, err)
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  event.OccurredAt,
	}); err != nil {
		p.logger.Printf("notify: publish order_id=%s error=%v", event.OrderID, err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
