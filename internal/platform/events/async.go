package events

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"
)

// AsyncPublisher buffers events and hands them to an inner publisher from a
// single background goroutine, so request paths never wait on the broker.
// Delivery is best effort: when the buffer is full the event is dropped and
// logged.
type AsyncPublisher struct {
	inner  Publisher
	logger *slog.Logger
	inbox  chan queued
	done   chan struct{}
	once   sync.Once
}

// queued keeps the caller's span context so the worker can link the publish
// to the request that produced the event.
type queued struct {
	event Event
	span  trace.SpanContext
}

// NewAsyncPublisher starts the worker goroutine. Close must be called to stop it.
func NewAsyncPublisher(inner Publisher, buffer int, logger *slog.Logger) *AsyncPublisher {
	p := &AsyncPublisher{
		inner:  inner,
		logger: logger,
		inbox:  make(chan queued, buffer),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for q := range p.inbox {
		event := q.event
		ctx := trace.ContextWithRemoteSpanContext(context.Background(), q.span)
		if err := p.inner.Publish(ctx, event); err != nil {
			p.logger.Warn("async event publish failed",
				"type", event.Type,
				"key", event.Key,
				"error", err,
			)
		}
	}
}

// Publish enqueues the event without blocking.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) error {
	select {
	case p.inbox <- queued{event: event, span: trace.SpanContextFromContext(ctx)}:
	default:
		p.logger.WarnContext(ctx, "event buffer full, dropping event",
			"type", event.Type,
			"key", event.Key,
		)
	}
	return nil
}

// Close drains queued events, stops the worker and closes the inner publisher.
func (p *AsyncPublisher) Close() error {
	p.once.Do(func() { close(p.inbox) })
	<-p.done
	return p.inner.Close()
}
