package queries

import (
	"context"
	"log/slog"
	"strings"

	application "patchbay/contexts/comparison/comparison-engine/application"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// LedgerMismatch is one answer record whose counters disagree with the
// response log.
type LedgerMismatch struct {
	AnswerID       string
	EntryA         string
	EntryB         string
	CountA         int
	CountB         int
	ResponseCountA int
	ResponseCountB int
}

// LedgerAuditResult summarizes one reconciliation pass over a question.
type LedgerAuditResult struct {
	QuestionID string
	Checked    int
	Mismatches []LedgerMismatch
}

// AuditUseCase recomputes answer counters from the append-only response log.
// The counter/log equality is a standing invariant maintained transactionally
// on every write; this query detects drift after manual intervention or
// storage faults.
type AuditUseCase struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionRepository
	Logger    *slog.Logger
}

func (uc AuditUseCase) AuditLedger(ctx context.Context, questionID string) (LedgerAuditResult, error) {
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return LedgerAuditResult{}, err
	}

	records, err := uc.Answers.ListAnswersByQuestion(ctx, question.QuestionID)
	if err != nil {
		return LedgerAuditResult{}, err
	}

	result := LedgerAuditResult{
		QuestionID: question.QuestionID,
		Mismatches: make([]LedgerMismatch, 0),
	}
	for _, record := range records {
		responses, err := uc.Answers.ListResponsesByAnswer(ctx, record.AnswerID)
		if err != nil {
			return LedgerAuditResult{}, err
		}
		var tallyA, tallyB int
		for _, response := range responses {
			if response.SelectedA {
				tallyA++
			} else {
				tallyB++
			}
		}
		result.Checked++
		if tallyA != record.CountA || tallyB != record.CountB {
			result.Mismatches = append(result.Mismatches, LedgerMismatch{
				AnswerID:       record.AnswerID,
				EntryA:         record.EntryA,
				EntryB:         record.EntryB,
				CountA:         record.CountA,
				CountB:         record.CountB,
				ResponseCountA: tallyA,
				ResponseCountB: tallyB,
			})
		}
	}

	if len(result.Mismatches) > 0 {
		application.ResolveLogger(uc.Logger).Warn("ledger audit found mismatches",
			"event", "comparison_ledger_audit_mismatch",
			"module", "comparison/comparison-engine",
			"layer", "application",
			"question_id", question.QuestionID,
			"checked", result.Checked,
			"mismatch_count", len(result.Mismatches),
		)
	}
	return result, nil
}
