package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "patchbay/contexts/comparison/comparison-engine/application"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// RecordVoteCommand is the write-model input for one comparison vote.
// Answer carries the raw form token ("a" or "b") so malformed submissions
// are rejected before any ledger mutation.
type RecordVoteCommand struct {
	QuestionID string
	EntryA     string
	EntryB     string
	Answer     string
	OriginHash string
}

// CreateQuestionCommand registers a new binary question.
type CreateQuestionCommand struct {
	Prompt          string
	AnswerA         string
	AnswerB         string
	Slug            string
	SelectionMethod int
}

// VoteUseCase orchestrates vote recording. Each vote touches exactly one
// ordered answer record; reconciling with the complementary record is a
// read-time concern handled by the similarity queries.
type VoteUseCase struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionRepository
	Entries   ports.EntryDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// RecordVote validates the submission, then hands the find-or-create +
// increment + response-log sequence to the repository, which applies it
// atomically together with the outbox row.
func (uc VoteUseCase) RecordVote(ctx context.Context, cmd RecordVoteCommand) (entities.AnswerRecord, error) {
	logger := application.ResolveLogger(uc.Logger)

	selectedA, err := parseAnswer(cmd.Answer)
	if err != nil {
		logger.Warn("vote rejected before ledger mutation",
			"event", "comparison_vote_invalid_answer",
			"module", "comparison/comparison-engine",
			"layer", "application",
			"question_id", strings.TrimSpace(cmd.QuestionID),
			"answer", cmd.Answer,
		)
		return entities.AnswerRecord{}, err
	}

	entryA := strings.TrimSpace(cmd.EntryA)
	entryB := strings.TrimSpace(cmd.EntryB)
	questionID := strings.TrimSpace(cmd.QuestionID)
	if entryA == "" || entryB == "" || questionID == "" {
		return entities.AnswerRecord{}, domainerrors.ErrInvalidVoteInput
	}
	if entryA == entryB {
		return entities.AnswerRecord{}, domainerrors.ErrSameEntry
	}

	if _, err := uc.Questions.GetQuestion(ctx, questionID); err != nil {
		return entities.AnswerRecord{}, err
	}
	for _, entry := range []string{entryA, entryB} {
		exists, err := uc.Entries.EntryExists(ctx, entry)
		if err != nil {
			return entities.AnswerRecord{}, err
		}
		if !exists {
			return entities.AnswerRecord{}, domainerrors.ErrEntryNotFound
		}
	}

	now := uc.now()
	answerID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AnswerRecord{}, err
	}
	responseID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AnswerRecord{}, err
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.AnswerRecord{}, err
	}

	vote := ports.VoteApplication{
		QuestionID: questionID,
		EntryA:     entryA,
		EntryB:     entryB,
		SelectedA:  selectedA,
		OriginHash: strings.TrimSpace(cmd.OriginHash),
		AnswerID:   answerID,
		ResponseID: responseID,
		Now:        now,
	}
	outbox, err := newVoteOutboxMessage(eventID, vote)
	if err != nil {
		return entities.AnswerRecord{}, err
	}

	record, err := uc.Answers.ApplyVote(ctx, vote, outbox)
	if err != nil {
		logger.Error("vote apply failed",
			"event", "comparison_vote_apply_failed",
			"module", "comparison/comparison-engine",
			"layer", "application",
			"question_id", questionID,
			"entry_a", entryA,
			"entry_b", entryB,
			"error", err.Error(),
		)
		return entities.AnswerRecord{}, err
	}

	logger.Info("vote recorded",
		"event", "comparison_vote_recorded",
		"module", "comparison/comparison-engine",
		"layer", "application",
		"answer_id", record.AnswerID,
		"question_id", questionID,
		"entry_a", entryA,
		"entry_b", entryB,
		"selected_a", selectedA,
	)
	return record, nil
}

// CreateQuestion registers a question. Slugs are unique; the merge policy is
// resolved from the slug at read time, never stored.
func (uc VoteUseCase) CreateQuestion(ctx context.Context, cmd CreateQuestionCommand) (entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)

	slug := strings.ToLower(strings.TrimSpace(cmd.Slug))
	if slug == "" || strings.TrimSpace(cmd.Prompt) == "" {
		return entities.Question{}, domainerrors.ErrInvalidVoteInput
	}

	questionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Question{}, err
	}
	question := entities.Question{
		QuestionID:      questionID,
		Prompt:          strings.TrimSpace(cmd.Prompt),
		AnswerA:         strings.TrimSpace(cmd.AnswerA),
		AnswerB:         strings.TrimSpace(cmd.AnswerB),
		Slug:            slug,
		SelectionMethod: entities.SelectionMethod(cmd.SelectionMethod),
	}
	if err := uc.Questions.CreateQuestion(ctx, question); err != nil {
		return entities.Question{}, err
	}

	logger.Info("question created",
		"event", "comparison_question_created",
		"module", "comparison/comparison-engine",
		"layer", "application",
		"question_id", question.QuestionID,
		"slug", question.Slug,
	)
	return question, nil
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func parseAnswer(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "a":
		return true, nil
	case "b":
		return false, nil
	default:
		return false, domainerrors.ErrInvalidAnswer
	}
}
