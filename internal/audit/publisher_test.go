package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/internal/audit"
	"civitas/internal/audit/store/memory"
)

type recordingSink struct {
	events []audit.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e audit.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) Close() {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps timestamp and persists", func(t *testing.T) {
		store := memory.New()
		pub := audit.NewPublisher(store, nil, testLogger())

		err := pub.Emit(ctx, audit.Event{
			Actor:    "civ-1",
			Action:   audit.ActionProfileSubmitted,
			Entity:   "civilian",
			EntityID: "civ-1",
		})
		require.NoError(t, err)

		events, err := pub.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Timestamp.IsZero())
		assert.Equal(t, audit.ActionProfileSubmitted, events[0].Action)
	})

	t.Run("forwards to sink", func(t *testing.T) {
		store := memory.New()
		sink := &recordingSink{}
		pub := audit.NewPublisher(store, sink, testLogger())

		require.NoError(t, pub.Emit(ctx, audit.Event{Action: audit.ActionPIIAccess}))
		require.Len(t, sink.events, 1)
		assert.Equal(t, audit.ActionPIIAccess, sink.events[0].Action)
	})

	t.Run("sink failure does not fail the emit", func(t *testing.T) {
		store := memory.New()
		sink := &recordingSink{err: errors.New("broker down")}
		pub := audit.NewPublisher(store, sink, testLogger())

		require.NoError(t, pub.Emit(ctx, audit.Event{Action: audit.ActionPIIAccess}))

		events, err := store.ListRecent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestMemoryStoreListing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	for _, e := range []audit.Event{
		{Action: "a", Entity: "civilian", EntityID: "1"},
		{Action: "b", Entity: "civilian", EntityID: "2"},
		{Action: "c", Entity: "civilian", EntityID: "1"},
	} {
		require.NoError(t, store.Append(ctx, e))
	}

	t.Run("recent is newest first and limited", func(t *testing.T) {
		events, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "c", events[0].Action)
		assert.Equal(t, "b", events[1].Action)
	})

	t.Run("by entity filters and orders", func(t *testing.T) {
		events, err := store.ListByEntity(ctx, "civilian", "1")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "c", events[0].Action)
	})
}
