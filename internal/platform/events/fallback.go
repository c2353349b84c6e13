package events

import (
	"context"
	"log/slog"

	"brewleaf/pkg/platform/circuit"
)

// FallbackPublisher sends events to a primary publisher and diverts them to
// a fallback once the primary has failed repeatedly. While the breaker is
// open the primary is skipped entirely except for one probe every
// probeEvery events.
type FallbackPublisher struct {
	primary    Publisher
	fallback   Publisher
	breaker    *circuit.Breaker
	logger     *slog.Logger
	probeEvery int
	skipped    int
}

func NewFallbackPublisher(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger) *FallbackPublisher {
	return &FallbackPublisher{
		primary:    primary,
		fallback:   fallback,
		breaker:    breaker,
		logger:     logger,
		probeEvery: 10,
	}
}

// Publish is not safe for concurrent use; it runs behind AsyncPublisher's
// single worker.
func (p *FallbackPublisher) Publish(ctx context.Context, event Event) error {
	if p.breaker.IsOpen() {
		p.skipped++
		if p.skipped < p.probeEvery {
			return p.fallback.Publish(ctx, event)
		}
		p.skipped = 0
	}

	if err := p.primary.Publish(ctx, event); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.WarnContext(ctx, "event broker failing, diverting to fallback",
				"breaker", p.breaker.Name(),
				"error", err,
			)
		}
		return p.fallback.Publish(ctx, event)
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "event broker recovered", "breaker", p.breaker.Name())
	}
	return nil
}

func (p *FallbackPublisher) Close() error {
	err := p.primary.Close()
	if ferr := p.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
