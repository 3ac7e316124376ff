package ports

import (
	"context"
	"time"

	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	"patchbay/internal/shared/events"
)

// VoteApplication carries one validated vote through the transactional write
// path. AnswerID and ResponseID are pre-generated; AnswerID is used only when
// no record exists yet for the exact ordered triple.
type VoteApplication struct {
	QuestionID string
	EntryA     string
	EntryB     string
	SelectedA  bool
	OriginHash string
	AnswerID   string
	ResponseID string
	Now        time.Time
}

// AnswerRepository owns the answer ledger and response log.
//
// ApplyVote must serialize concurrent votes for the same ordered triple: it
// performs find-or-create on the answer record, increments exactly one
// counter, appends the response detail and the outbox row, all in a single
// transaction. A failure leaves no partial state.
type AnswerRepository interface {
	ApplyVote(ctx context.Context, vote VoteApplication, outbox OutboxMessage) (entities.AnswerRecord, error)
	FindAnswer(ctx context.Context, questionID string, entryA string, entryB string) (entities.AnswerRecord, bool, error)
	ListAnswersByEntry(ctx context.Context, questionID string, entry string) ([]entities.AnswerRecord, error)
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.AnswerRecord, error)
	ListResponsesByAnswer(ctx context.Context, answerID string) ([]entities.ResponseDetail, error)
}

// QuestionRepository is the registry of binary questions.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	GetQuestionBySlug(ctx context.Context, slug string) (entities.Question, error)
	ListQuestions(ctx context.Context) ([]entities.Question, error)
}

// EntryDirectory is the read-only view of the catalog the engine needs:
// entry identity and existence.
type EntryDirectory interface {
	EntryExists(ctx context.Context, entryID string) (bool, error)
	ListEntryIDs(ctx context.Context) ([]string, error)
}

// RandSource seeds pair selection so tests can assert deterministic pairs.
// *math/rand.Rand satisfies it.
type RandSource interface {
	Perm(n int) []int
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical envelope shape.
type EventEnvelope = events.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts answer/response/event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
