package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const HandoffTopic = "checkout-handoff"

type HandoffItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// HandoffEvent records that a cart was handed to the seller's chat. It is an
// audit trail, not an order: nothing consumes it to change stock.
type HandoffEvent struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"session_id"`
	Items         []HandoffItem `json:"items"`
	TotalItems    int           `json:"total_items"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type HandoffPublisher struct {
	writer  MessageWriter
	timeout time.Duration
}

func NewHandoffPublisher(brokers ...string) *HandoffPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  HandoffTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return NewHandoffPublisherWithWriter(w)
}

func NewHandoffPublisherWithWriter(w MessageWriter) *HandoffPublisher {
	return &HandoffPublisher{writer: w, timeout: 5 * time.Second}
}

// Publish writes the event keyed by session so one shopper's handoffs stay
// ordered. ID and CreatedAt are filled in when empty.
func (p *HandoffPublisher) Publish(ctx context.Context, event HandoffEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal handoff event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("checkout.handoff")},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write handoff event %s: %w", event.ID, err)
	}
	return nil
}

func (p *HandoffPublisher) Close() error {
	return p.writer.Close()
}
