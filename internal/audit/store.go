package audit

import "context"

// Store is the append-only persistence boundary for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
	ListByEntity(ctx context.Context, entity, entityID string) ([]Event, error)
}

// Sink receives a copy of every committed event for downstream consumers.
// Delivery is best effort; the store remains the system of record.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
