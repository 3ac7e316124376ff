package queries

import (
	"context"
	"sort"
	"strings"

	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// DefaultSimilarLimit bounds the similar-entries list on detail pages.
const DefaultSimilarLimit = 3

// neutralScore ranks zero-vote records; see entities.Score.
const neutralScore = 0.5

// RankedAnswer pairs a merged, aligned answer record with its display score.
type RankedAnswer struct {
	Record entities.AnswerRecord
	Score  float64
}

// SimilarityUseCase serves the read path: complement merging and ranking.
// All operations are pure functions over already-committed ledger state.
type SimilarityUseCase struct {
	Answers   ports.AnswerRepository
	Questions ports.QuestionRepository
}

// MergedAnswer returns the fully-reconciled tally for the unordered pair
// (entryA, entryB), aligned so entryA occupies the A slot. Votes recorded
// under either ordering are accounted for.
func (uc SimilarityUseCase) MergedAnswer(
	ctx context.Context,
	questionID string,
	entryA string,
	entryB string,
) (entities.AnswerRecord, error) {
	question, err := uc.Questions.GetQuestion(ctx, strings.TrimSpace(questionID))
	if err != nil {
		return entities.AnswerRecord{}, err
	}

	entryA = strings.TrimSpace(entryA)
	entryB = strings.TrimSpace(entryB)
	record, found, err := uc.Answers.FindAnswer(ctx, question.QuestionID, entryA, entryB)
	if err != nil {
		return entities.AnswerRecord{}, err
	}
	if !found {
		// Only the reverse orientation may exist; align it instead.
		reverse, foundReverse, err := uc.Answers.FindAnswer(ctx, question.QuestionID, entryB, entryA)
		if err != nil {
			return entities.AnswerRecord{}, err
		}
		if !foundReverse {
			return entities.AnswerRecord{}, domainerrors.ErrAnswerNotFound
		}
		record = reverse
	}
	return uc.merged(ctx, question, record, entryA)
}

// TopSimilar ranks the entries most related to entry under the question:
// every pair touching the entry, merged across orientations, aligned to the
// entry, sorted descending by score. Ties keep insertion order; the result
// is truncated to limit.
func (uc SimilarityUseCase) TopSimilar(
	ctx context.Context,
	entry string,
	questionSlug string,
	limit int,
) ([]RankedAnswer, error) {
	question, err := uc.Questions.GetQuestionBySlug(ctx, strings.TrimSpace(questionSlug))
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	entry = strings.TrimSpace(entry)
	records, err := uc.Answers.ListAnswersByEntry(ctx, question.QuestionID, entry)
	if err != nil {
		return nil, err
	}

	var asA, asB []entities.AnswerRecord
	for _, record := range records {
		if record.EntryA == entry {
			asA = append(asA, record)
		} else {
			asB = append(asB, record)
		}
	}

	// A reverse-oriented record joins the working set only when no forward
	// counterpart exists; pairs recorded under both orientations are already
	// reconciled by the merge below and must not be counted twice.
	working := append([]entities.AnswerRecord(nil), asA...)
	for _, reverse := range asB {
		counterpart := false
		for _, forward := range asA {
			if forward.EntryB == reverse.EntryA {
				counterpart = true
				break
			}
		}
		if !counterpart {
			working = append(working, reverse)
		}
	}

	ranked := make([]RankedAnswer, 0, len(working))
	for _, record := range working {
		merged, err := uc.merged(ctx, question, record, entry)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedAnswer{Record: merged, Score: scoreOrNeutral(merged)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// merged implements the complement combination: the unique reverse-ordered
// record (if any) is aligned and summed into the base. Questions without a
// defined merge policy never merge automatically.
func (uc SimilarityUseCase) merged(
	ctx context.Context,
	question entities.Question,
	record entities.AnswerRecord,
	alignTo string,
) (entities.AnswerRecord, error) {
	policy := question.MergePolicy()

	base := record
	if alignTo != "" {
		aligned, err := entities.Align(record, policy, alignTo)
		if err != nil {
			return entities.AnswerRecord{}, err
		}
		base = aligned
	}
	if policy == entities.MergeNone {
		return base, nil
	}

	complement, found, err := uc.Answers.FindAnswer(ctx, question.QuestionID, record.EntryB, record.EntryA)
	if err != nil {
		return entities.AnswerRecord{}, err
	}
	if !found {
		return base, nil
	}
	return entities.Merge(base, &complement, policy)
}

func scoreOrNeutral(record entities.AnswerRecord) float64 {
	score, err := entities.Score(record)
	if err != nil {
		return neutralScore
	}
	return score
}
