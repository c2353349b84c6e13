package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/trace"
)

// KafkaPublisher produces events synchronously to a single topic.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to brokers and targets topic.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopic(ctx, partitions, 1, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Publish produces the event and waits for the broker acknowledgement.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := event.Encode()
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	record := &kgo.Record{
		Key:     []byte(event.Key),
		Value:   value,
		Headers: recordHeaders(ctx, event),
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"type", event.Type,
			"key", event.Key,
			"error", err,
		)
		return fmt.Errorf("produce %s: %w", event.Type, err)
	}
	return nil
}

// recordHeaders carries the event type and, when the publish is traced, a
// W3C traceparent so consumers can continue the trace.
func recordHeaders(ctx context.Context, event Event) []kgo.RecordHeader {
	headers := []kgo.RecordHeader{{Key: "event_type", Value: []byte(event.Type)}}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		traceparent := fmt.Sprintf("00-%s-%s-%s", sc.TraceID(), sc.SpanID(), sc.TraceFlags())
		headers = append(headers, kgo.RecordHeader{Key: "traceparent", Value: []byte(traceparent)})
	}
	return headers
}

// Close flushes and closes the client.
func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
