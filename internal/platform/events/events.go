// Package events publishes storefront domain events (order placed, review
// created) to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Event types emitted by the storefront.
const (
	TypeOrderPlaced       = "order.placed"
	TypeOrderStatusChange = "order.status_changed"
	TypeReviewCreated     = "review.created"
	TypeQuizCompleted     = "quiz.completed"
)

// Event is one domain fact. Key is used for partitioning so events about the
// same entity stay ordered.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Encode serializes the event envelope.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher emits events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "domain event",
		"type", event.Type,
		"key", event.Key,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
