package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/goleak"

	"brewleaf/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestAsyncPublisher_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	inner := &recordingPublisher{}
	p := NewAsyncPublisher(inner, 16, logger.Discard())

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, p.Publish(context.Background(), Event{Type: TypeOrderPlaced, Key: key, OccurredAt: time.Now()}))
	}
	require.NoError(t, p.Close())

	inner.mu.Lock()
	defer inner.mu.Unlock()
	require.Len(t, inner.events, 3)
	assert.Equal(t, "a", inner.events[0].Key)
	assert.Equal(t, "c", inner.events[2].Key)
	assert.True(t, inner.closed)
}

func TestAsyncPublisher_CloseIsIdempotent(t *testing.T) {
	p := NewAsyncPublisher(Nop{}, 1, logger.Discard())
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestEventEncode(t *testing.T) {
	raw, err := Event{Type: TypeReviewCreated, Key: "p-1", OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Payload: map[string]int{"rating": 5}}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"review.created","key":"p-1","occurred_at":"2026-01-02T03:04:05Z","payload":{"rating":5}}`, string(raw))
}

type ctxRecorder struct {
	recordingPublisher
	spans []trace.SpanContext
}

func (c *ctxRecorder) Publish(ctx context.Context, e Event) error {
	c.mu.Lock()
	c.spans = append(c.spans, trace.SpanContextFromContext(ctx))
	c.mu.Unlock()
	return c.recordingPublisher.Publish(ctx, e)
}

func TestAsyncPublisher_CarriesSpanContext(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	inner := &ctxRecorder{}
	p := NewAsyncPublisher(inner, 4, logger.Discard())

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	require.NoError(t, p.Publish(ctx, Event{Type: TypeOrderPlaced, Key: "o-1"}))
	require.NoError(t, p.Close())

	require.Len(t, inner.spans, 1)
	assert.Equal(t, sc.TraceID(), inner.spans[0].TraceID())
	assert.True(t, inner.spans[0].IsRemote())
}

func TestRecordHeaders(t *testing.T) {
	headers := recordHeaders(context.Background(), Event{Type: TypeReviewCreated})
	require.Len(t, headers, 1)
	assert.Equal(t, "event_type", headers[0].Key)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0xab},
		SpanID:     trace.SpanID{0xcd},
		TraceFlags: trace.FlagsSampled,
	})
	headers = recordHeaders(trace.ContextWithSpanContext(context.Background(), sc), Event{Type: TypeReviewCreated})
	require.Len(t, headers, 2)
	assert.Equal(t, "traceparent", headers[1].Key)
	assert.Equal(t, "00-ab000000000000000000000000000000-cd00000000000000-01", string(headers[1].Value))
}
