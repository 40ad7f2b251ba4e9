package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

func NewPublisher(store Store, sink Sink, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, sink: sink, logger: logger}
}

// Emit persists an event and forwards it to the sink. Sink failures are
// logged, never returned: losing a downstream copy must not fail the request
// that produced the event.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, base); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, base); err != nil {
			p.logger.Warn("audit sink publish failed",
				"action", base.Action,
				"entity", base.Entity,
				"error", err)
		}
	}
	return nil
}

func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return p.store.ListRecent(ctx, limit)
}

func (p *Publisher) ListByEntity(ctx context.Context, entity, entityID string) ([]Event, error) {
	return p.store.ListByEntity(ctx, entity, entityID)
}
