package unit

import (
	"context"
	"testing"

	comparisonengine "patchbay/contexts/comparison/comparison-engine"
	workerapp "patchbay/contexts/comparison/comparison-engine/application/workers"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	"patchbay/internal/platform/messaging"
)

func TestOutboxRelayPublishesVoteEvents(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	vote(t, module, "similar", "e1", "e2", "a")
	vote(t, module, "similar", "e1", "e2", "b")

	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	relay := workerapp.OutboxRelay{
		Outbox:    module.Store,
		Publisher: bus,
		BatchSize: 10,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	published := bus.Published("comparison.vote.recorded")
	if len(published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(published))
	}
	for _, event := range published {
		if event.EventType != "comparison.vote.recorded" {
			t.Fatalf("unexpected event type %s", event.EventType)
		}
		if event.PartitionKey != "q-similar" {
			t.Fatalf("expected partition by question id, got %s", event.PartitionKey)
		}
	}

	// A second cycle must find nothing pending.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if published := bus.Published("comparison.vote.recorded"); len(published) != 2 {
		t.Fatalf("published rows were relayed again, total %d", len(published))
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d rows", len(pending))
	}
}
