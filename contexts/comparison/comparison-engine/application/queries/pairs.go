package queries

import (
	"context"
	"log/slog"
	"math/rand"

	application "patchbay/contexts/comparison/comparison-engine/application"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// ComparisonPair is one candidate comparison. Orientation is not stable
// between calls; either entry may land in the A slot.
type ComparisonPair struct {
	EntryA string
	EntryB string
}

type selectorFunc func(ctx context.Context, uc PairUseCase) (ComparisonPair, bool, error)

// pairSelectors maps selection-method IDs to their selection functions.
// Unknown IDs are rejected, never silently mapped to random selection.
var pairSelectors = map[entities.SelectionMethod]selectorFunc{
	entities.SelectionRandom: selectRandomPair,
}

// PairUseCase chooses which two entries to present for a question.
type PairUseCase struct {
	Entries ports.EntryDirectory
	Rand    ports.RandSource
	Logger  *slog.Logger
}

// SelectPair resolves the question's selection method and draws a pair.
// Fewer than two entries in the catalog means no comparison is available
// (ok=false, no error).
func (uc PairUseCase) SelectPair(ctx context.Context, question entities.Question) (ComparisonPair, bool, error) {
	selector, ok := pairSelectors[question.SelectionMethod]
	if !ok {
		application.ResolveLogger(uc.Logger).Warn("unknown selection method",
			"event", "comparison_pair_unknown_method",
			"module", "comparison/comparison-engine",
			"layer", "application",
			"question_id", question.QuestionID,
			"selection_method", int(question.SelectionMethod),
		)
		return ComparisonPair{}, false, domainerrors.ErrUnknownSelectionMethod
	}
	return selector(ctx, uc)
}

func selectRandomPair(ctx context.Context, uc PairUseCase) (ComparisonPair, bool, error) {
	ids, err := uc.Entries.ListEntryIDs(ctx)
	if err != nil {
		return ComparisonPair{}, false, err
	}
	if len(ids) < 2 {
		return ComparisonPair{}, false, nil
	}
	perm := uc.perm(len(ids))
	return ComparisonPair{EntryA: ids[perm[0]], EntryB: ids[perm[1]]}, true, nil
}

func (uc PairUseCase) perm(n int) []int {
	if uc.Rand != nil {
		return uc.Rand.Perm(n)
	}
	return rand.Perm(n)
}
