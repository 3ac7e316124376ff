package entities

import (
	"errors"
	"math"
	"testing"

	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
)

func TestAlignAlreadyOriented(t *testing.T) {
	record := AnswerRecord{AnswerID: "ans-1", EntryA: "e1", EntryB: "e2", CountA: 3, CountB: 1}
	aligned, err := Align(record, MergeSymmetric, "e1")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}
	if aligned != record {
		t.Fatalf("aligning to the existing A slot must be a no-op, got %+v", aligned)
	}
}

func TestAlignSymmetricSwapsEndpointsOnly(t *testing.T) {
	record := AnswerRecord{AnswerID: "ans-1", EntryA: "e1", EntryB: "e2", CountA: 3, CountB: 1}
	aligned, err := Align(record, MergeSymmetric, "e2")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}
	if aligned.EntryA != "e2" || aligned.EntryB != "e1" {
		t.Fatalf("endpoints not swapped: %+v", aligned)
	}
	if aligned.CountA != 3 || aligned.CountB != 1 {
		t.Fatalf("symmetric policy must keep counts in their answer slots, got %+v", aligned)
	}
}

func TestAlignReversedSwapsCounts(t *testing.T) {
	record := AnswerRecord{AnswerID: "ans-1", EntryA: "e1", EntryB: "e2", CountA: 3, CountB: 1}
	aligned, err := Align(record, MergeReversed, "e2")
	if err != nil {
		t.Fatalf("align failed: %v", err)
	}
	if aligned.CountA != 1 || aligned.CountB != 3 {
		t.Fatalf("reversed policy must swap counts with endpoints, got %+v", aligned)
	}
}

func TestAlignRejectsForeignEntry(t *testing.T) {
	record := AnswerRecord{AnswerID: "ans-1", EntryA: "e1", EntryB: "e2"}
	if _, err := Align(record, MergeSymmetric, "e3"); !errors.Is(err, domainerrors.ErrInvalidAlignment) {
		t.Fatalf("expected ErrInvalidAlignment, got %v", err)
	}
}

func TestMergeSymmetricSumsAlignedComplement(t *testing.T) {
	base := AnswerRecord{EntryA: "e1", EntryB: "e2", CountA: 2, CountB: 0}
	complement := AnswerRecord{EntryA: "e2", EntryB: "e1", CountA: 0, CountB: 1}
	merged, err := Merge(base, &complement, MergeSymmetric)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged.EntryA != "e1" || merged.EntryB != "e2" {
		t.Fatalf("merge must keep base orientation, got %+v", merged)
	}
	// "e1 is similar" votes live in slot A of base and slot B of the
	// complement only after the endpoint swap; symmetric keeps counts put.
	if merged.CountA != 2 || merged.CountB != 1 {
		t.Fatalf("unexpected symmetric merge counts: %+v", merged)
	}
}

func TestMergeReversedRealignsCounts(t *testing.T) {
	// Under "which is better", a vote for the complement's A slot is a vote
	// against base.EntryA, so counts must swap while aligning.
	base := AnswerRecord{EntryA: "e1", EntryB: "e2", CountA: 4, CountB: 1}
	complement := AnswerRecord{EntryA: "e2", EntryB: "e1", CountA: 5, CountB: 2}
	merged, err := Merge(base, &complement, MergeReversed)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged.CountA != 6 || merged.CountB != 6 {
		t.Fatalf("unexpected reversed merge counts: %+v", merged)
	}
}

func TestMergeWithoutComplementCopies(t *testing.T) {
	base := AnswerRecord{AnswerID: "ans-1", EntryA: "e1", EntryB: "e2", CountA: 2, CountB: 1}
	merged, err := Merge(base, nil, MergeSymmetric)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if merged != base {
		t.Fatalf("merge without complement must be a plain copy, got %+v", merged)
	}
	merged.CountA = 99
	if base.CountA != 2 {
		t.Fatal("merge result must not alias the base record")
	}
}

func TestScore(t *testing.T) {
	score, err := Score(AnswerRecord{CountA: 3, CountB: 1})
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if math.Abs(score-0.75) > 1e-9 {
		t.Fatalf("score = %f, want 0.75", score)
	}

	if score, err = Score(AnswerRecord{CountA: 2}); err != nil || score != 1 {
		t.Fatalf("unanimous score = %f, %v; want 1, nil", score, err)
	}

	if _, err := Score(AnswerRecord{}); !errors.Is(err, domainerrors.ErrUndefinedScore) {
		t.Fatalf("expected ErrUndefinedScore for zero total, got %v", err)
	}
}

func TestMergePolicyResolution(t *testing.T) {
	cases := []struct {
		slug string
		want MergePolicy
	}{
		{"similar", MergeSymmetric},
		{"better", MergeReversed},
		{"warmer", MergeNone},
	}
	for _, tc := range cases {
		q := Question{Slug: tc.slug}
		if got := q.MergePolicy(); got != tc.want {
			t.Fatalf("MergePolicy(%q) = %v, want %v", tc.slug, got, tc.want)
		}
	}
}
