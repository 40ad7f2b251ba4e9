// Package kafka publishes audit events to a Kafka topic for downstream
// consumers (SIEM, retention pipelines). The local store stays the system of
// record; this sink is best effort.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"civitas/internal/audit"
)

type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// payload is the wire form of an audit event. Timestamps travel as RFC 3339
// so non-Go consumers parse them without custom codecs.
type payload struct {
	Timestamp string         `json:"timestamp"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Decision  string         `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// New connects to the given brokers. Returns (nil, nil) when no brokers are
// configured; callers treat a nil sink as "no Kafka".
func New(brokers []string, topic string, logger *slog.Logger) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the event asynchronously. Delivery failures are logged in
// the produce callback rather than returned; the caller has already committed
// the event to the store.
func (s *Sink) Publish(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(payload{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Actor:     event.Actor,
		Action:    event.Action,
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		Details:   event.Details,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Key:   []byte(event.EntityID),
		Value: body,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Warn("kafka produce failed",
				"topic", s.topic,
				"action", event.Action,
				"error", err)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (s *Sink) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Flush(ctx); err != nil {
		s.logger.Warn("kafka flush on close failed", "error", err)
	}
	s.client.Close()
}
