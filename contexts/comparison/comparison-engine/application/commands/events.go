package commands

import (
	"encoding/json"

	"patchbay/contexts/comparison/comparison-engine/ports"
)

const voteRecordedEventType = "comparison.vote.recorded"

// newVoteOutboxMessage serializes the vote event so the repository can append
// it inside the same transaction as the ledger update. Events partition by
// question so question-scoped consumers see votes in commit order.
func newVoteOutboxMessage(eventID string, vote ports.VoteApplication) (ports.OutboxMessage, error) {
	data, err := json.Marshal(map[string]any{
		"question_id": vote.QuestionID,
		"entry_a":     vote.EntryA,
		"entry_b":     vote.EntryB,
		"selected_a":  vote.SelectedA,
		"origin_hash": vote.OriginHash,
		"occurred_at": vote.Now.UTC(),
	})
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	envelope := ports.EventEnvelope{
		EventID:          eventID,
		EventType:        voteRecordedEventType,
		OccurredAt:       vote.Now.UTC(),
		SourceService:    "comparison-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "question_id",
		PartitionKey:     vote.QuestionID,
		Data:             data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{
		OutboxID:     eventID,
		EventType:    voteRecordedEventType,
		PartitionKey: vote.QuestionID,
		Payload:      payload,
		CreatedAt:    vote.Now.UTC(),
	}, nil
}
