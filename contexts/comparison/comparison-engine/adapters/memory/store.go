package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	"patchbay/contexts/comparison/comparison-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store implements every comparison-engine port in memory. It backs the
// in-memory module used by tests and local development.
type Store struct {
	mu sync.RWMutex

	questions map[string]entities.Question
	answers   map[string]entities.AnswerRecord
	responses map[string][]entities.ResponseDetail
	entries   []string
	outbox    map[string]outboxRecord
}

func NewStore(seed []entities.Question) *Store {
	questions := make(map[string]entities.Question, len(seed))
	for _, question := range seed {
		questions[question.QuestionID] = question
	}
	return &Store{
		questions: questions,
		answers:   make(map[string]entities.AnswerRecord),
		responses: make(map[string][]entities.ResponseDetail),
		outbox:    make(map[string]outboxRecord),
	}
}

// AddEntry registers a catalog entry ID in the directory view.
func (s *Store) AddEntry(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, strings.TrimSpace(entryID))
}

// CorruptAnswerCounts overwrites stored counters without touching the
// response log. Test hook for the ledger audit.
func (s *Store) CorruptAnswerCounts(answerID string, countA int, countB int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.answers[strings.TrimSpace(answerID)]
	if !ok {
		return
	}
	record.CountA = countA
	record.CountB = countB
	s.answers[record.AnswerID] = record
}

func (s *Store) ApplyVote(
	_ context.Context,
	vote ports.VoteApplication,
	outbox ports.OutboxMessage,
) (entities.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.findAnswerLocked(vote.QuestionID, vote.EntryA, vote.EntryB)
	if !ok {
		record = entities.AnswerRecord{
			AnswerID:   vote.AnswerID,
			QuestionID: vote.QuestionID,
			EntryA:     vote.EntryA,
			EntryB:     vote.EntryB,
			CreatedAt:  vote.Now,
		}
	}
	if vote.SelectedA {
		record.CountA++
	} else {
		record.CountB++
	}
	record.UpdatedAt = vote.Now

	s.answers[record.AnswerID] = record
	s.responses[record.AnswerID] = append(s.responses[record.AnswerID], entities.ResponseDetail{
		ResponseID: vote.ResponseID,
		AnswerID:   record.AnswerID,
		SelectedA:  vote.SelectedA,
		OriginHash: vote.OriginHash,
		CreatedAt:  vote.Now,
	})
	s.outbox[outbox.OutboxID] = outboxRecord{message: outbox}
	return record, nil
}

func (s *Store) FindAnswer(
	_ context.Context,
	questionID string,
	entryA string,
	entryB string,
) (entities.AnswerRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.findAnswerLocked(questionID, entryA, entryB)
	return record, ok, nil
}

func (s *Store) ListAnswersByEntry(
	_ context.Context,
	questionID string,
	entry string,
) ([]entities.AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.AnswerRecord, 0)
	for _, record := range s.answers {
		if record.QuestionID != strings.TrimSpace(questionID) {
			continue
		}
		if record.EntryA == strings.TrimSpace(entry) || record.EntryB == strings.TrimSpace(entry) {
			items = append(items, record)
		}
	}
	sortAnswersByCreation(items)
	return items, nil
}

func (s *Store) ListAnswersByQuestion(_ context.Context, questionID string) ([]entities.AnswerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.AnswerRecord, 0)
	for _, record := range s.answers {
		if record.QuestionID == strings.TrimSpace(questionID) {
			items = append(items, record)
		}
	}
	sortAnswersByCreation(items)
	return items, nil
}

func (s *Store) ListResponsesByAnswer(_ context.Context, answerID string) ([]entities.ResponseDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ResponseDetail(nil), s.responses[strings.TrimSpace(answerID)]...), nil
}

func (s *Store) CreateQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.questions {
		if existing.Slug == question.Slug {
			return domainerrors.ErrQuestionExists
		}
	}
	s.questions[question.QuestionID] = question
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[strings.TrimSpace(questionID)]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (s *Store) GetQuestionBySlug(_ context.Context, slug string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, question := range s.questions {
		if question.Slug == strings.ToLower(strings.TrimSpace(slug)) {
			return question, nil
		}
	}
	return entities.Question{}, domainerrors.ErrQuestionNotFound
}

func (s *Store) ListQuestions(_ context.Context) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		items = append(items, question)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

func (s *Store) EntryExists(_ context.Context, entryID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.entries {
		if id == strings.TrimSpace(entryID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListEntryIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.entries...), nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return nil
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) findAnswerLocked(questionID string, entryA string, entryB string) (entities.AnswerRecord, bool) {
	for _, record := range s.answers {
		if record.QuestionID == strings.TrimSpace(questionID) &&
			record.EntryA == strings.TrimSpace(entryA) &&
			record.EntryB == strings.TrimSpace(entryB) {
			return record, true
		}
	}
	return entities.AnswerRecord{}, false
}

func sortAnswersByCreation(items []entities.AnswerRecord) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AnswerID < items[j].AnswerID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
