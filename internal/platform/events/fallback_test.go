package events

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewleaf/internal/platform/logger"
	"brewleaf/pkg/platform/circuit"
)

type flakyPublisher struct {
	recordingPublisher
	down     bool
	attempts int
}

func (f *flakyPublisher) Publish(ctx context.Context, e Event) error {
	f.attempts++
	if f.down {
		return errors.New("broker unreachable")
	}
	return f.recordingPublisher.Publish(ctx, e)
}

func TestFallbackPublisher(t *testing.T) {
	ctx := context.Background()
	primary := &flakyPublisher{down: true}
	fallback := &recordingPublisher{}
	breaker := circuit.New("events", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	p := NewFallbackPublisher(primary, fallback, breaker, logger.Discard())
	p.probeEvery = 3

	publish := func(n int) {
		for i := range n {
			require.NoError(t, p.Publish(ctx, Event{Type: TypeOrderPlaced, Key: fmt.Sprint(i)}))
		}
	}

	publish(2)
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 2, primary.attempts)
	assert.Len(t, fallback.events, 2)

	publish(2)
	assert.Equal(t, 2, primary.attempts, "open breaker skips the primary")
	assert.Len(t, fallback.events, 4)

	primary.down = false
	publish(1)
	assert.Equal(t, 3, primary.attempts, "every third event probes the primary")
	assert.False(t, breaker.IsOpen())
	assert.Len(t, primary.events, 1)

	publish(1)
	assert.Len(t, primary.events, 2)
	assert.Len(t, fallback.events, 4)

	require.NoError(t, p.Close())
	assert.True(t, primary.closed)
	assert.True(t, fallback.closed)
}
