package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "patchbay/contexts/comparison/comparison-engine/application"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// OutboxRelay publishes persisted vote events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each row
// published only after bus publish succeeds. It stops on the first failure so
// the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("comparison outbox list failed",
			"event", "comparison_outbox_list_failed",
			"module", "comparison/comparison-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("comparison outbox relay found no pending rows",
			"event", "comparison_outbox_relay_noop",
			"module", "comparison/comparison-engine",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("comparison outbox decode failed",
				"event", "comparison_outbox_decode_failed",
				"module", "comparison/comparison-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("comparison outbox publish failed",
				"event", "comparison_outbox_publish_failed",
				"module", "comparison/comparison-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("comparison outbox mark published failed",
				"event", "comparison_outbox_mark_published_failed",
				"module", "comparison/comparison-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("comparison outbox relay cycle completed",
		"event", "comparison_outbox_relay_completed",
		"module", "comparison/comparison-engine",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
