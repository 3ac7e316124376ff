package messaging

import (
	"context"
	"log/slog"
	"sync"

	"patchbay/contexts/comparison/comparison-engine/ports"
)

// Kafka is the bus adapter behind the worker's outbox relay. It currently
// publishes in-process; broker wiring swaps in behind the same port once a
// downstream consumer for vote events exists.
type Kafka struct {
	mu        sync.RWMutex
	published map[string][]ports.EventEnvelope
	logger    *slog.Logger
}

func NewKafka(_ []string, logger *slog.Logger) (*Kafka, error) {
	return &Kafka{
		published: make(map[string][]ports.EventEnvelope),
		logger:    logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k.mu.Lock()
	k.published[topic] = append(k.published[topic], event)
	k.mu.Unlock()

	if k.logger != nil {
		k.logger.Info("event published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"partition_key", event.PartitionKey,
		)
	}
	return nil
}

// Published returns the events recorded for a topic, oldest first.
func (k *Kafka) Published(topic string) []ports.EventEnvelope {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]ports.EventEnvelope(nil), k.published[topic]...)
}
