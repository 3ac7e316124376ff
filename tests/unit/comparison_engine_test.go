package unit

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	comparisonengine "patchbay/contexts/comparison/comparison-engine"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	httptransport "patchbay/contexts/comparison/comparison-engine/transport/http"
)

func similarQuestion() entities.Question {
	return entities.Question{
		QuestionID:      "q-similar",
		Prompt:          "Which pair sounds more alike?",
		AnswerA:         "these two",
		AnswerB:         "neither",
		Slug:            "similar",
		SelectionMethod: entities.SelectionRandom,
	}
}

func betterQuestion() entities.Question {
	return entities.Question{
		QuestionID:      "q-better",
		Prompt:          "Which recording is better?",
		AnswerA:         "the first",
		AnswerB:         "the second",
		Slug:            "better",
		SelectionMethod: entities.SelectionRandom,
	}
}

func vote(t *testing.T, module comparisonengine.Module, slug, entryA, entryB, answer string) httptransport.AnswerResponse {
	t.Helper()
	resp, err := module.Handler.RecordVoteHandler(context.Background(), slug, httptransport.VoteRequest{
		EntryA: entryA,
		EntryB: entryB,
		Answer: answer,
	}, "origin-test")
	if err != nil {
		t.Fatalf("vote %s/%s answer=%s failed: %v", entryA, entryB, answer, err)
	}
	return resp
}

func TestVotesOnSwappedPairsStayInDistinctRecords(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	first := vote(t, module, "similar", "e1", "e2", "a")
	second := vote(t, module, "similar", "e2", "e1", "b")

	if first.AnswerID == second.AnswerID {
		t.Fatalf("swapped pairs must hit distinct answer records, both got %s", first.AnswerID)
	}
	if first.CountA != 1 || first.CountB != 0 {
		t.Fatalf("record (e1,e2) = (%d,%d), want (1,0)", first.CountA, first.CountB)
	}
	if second.CountA != 0 || second.CountB != 1 {
		t.Fatalf("record (e2,e1) = (%d,%d), want (0,1)", second.CountA, second.CountB)
	}
}

func TestConcurrentFirstVotesAllRecorded(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	const voters = 8
	answerIDs := make([]string, voters)
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			answer := "a"
			if i%2 == 1 {
				answer = "b"
			}
			resp, err := module.Handler.RecordVoteHandler(context.Background(), "similar", httptransport.VoteRequest{
				EntryA: "e1",
				EntryB: "e2",
				Answer: answer,
			}, "origin-test")
			if err != nil {
				t.Errorf("concurrent vote %d failed: %v", i, err)
				return
			}
			answerIDs[i] = resp.AnswerID
		}(i)
	}
	wg.Wait()

	// Every voter, including the losers of the first-vote race, lands in the
	// same answer record.
	for i := 1; i < voters; i++ {
		if answerIDs[i] != answerIDs[0] {
			t.Fatalf("vote %d hit record %s, vote 0 hit %s", i, answerIDs[i], answerIDs[0])
		}
	}

	merged, err := module.Handler.MergedAnswerHandler(context.Background(), "similar", "e1", "e2")
	if err != nil {
		t.Fatalf("merged answer failed: %v", err)
	}
	if merged.CountA+merged.CountB != voters {
		t.Fatalf("recorded %d votes, want %d", merged.CountA+merged.CountB, voters)
	}
	if merged.CountA != voters/2 || merged.CountB != voters/2 {
		t.Fatalf("merged counts = (%d,%d), want (%d,%d)", merged.CountA, merged.CountB, voters/2, voters/2)
	}
}

func TestMergedAnswerAlignsComplement(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	vote(t, module, "similar", "e1", "e2", "a")
	vote(t, module, "similar", "e2", "e1", "b")

	merged, err := module.Handler.MergedAnswerHandler(context.Background(), "similar", "e1", "e2")
	if err != nil {
		t.Fatalf("merged answer failed: %v", err)
	}
	if merged.EntryA != "e1" || merged.EntryB != "e2" {
		t.Fatalf("merged orientation = (%s,%s), want (e1,e2)", merged.EntryA, merged.EntryB)
	}
	if merged.CountA != 1 || merged.CountB != 1 {
		t.Fatalf("merged counts = (%d,%d), want (1,1)", merged.CountA, merged.CountB)
	}
	if math.Abs(merged.Score-0.5) > 1e-9 {
		t.Fatalf("merged score = %f, want 0.5", merged.Score)
	}
}

func TestMergedAnswerReversedPolicySwapsComplementCounts(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{betterQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	// Two votes say e1 beats e2; one vote on the swapped pair says e1 (in
	// the B slot there) beats e2 as well.
	vote(t, module, "better", "e1", "e2", "a")
	vote(t, module, "better", "e1", "e2", "a")
	vote(t, module, "better", "e2", "e1", "b")

	merged, err := module.Handler.MergedAnswerHandler(context.Background(), "better", "e1", "e2")
	if err != nil {
		t.Fatalf("merged answer failed: %v", err)
	}
	if merged.CountA != 3 || merged.CountB != 0 {
		t.Fatalf("merged counts = (%d,%d), want (3,0)", merged.CountA, merged.CountB)
	}
}

func TestRecordVoteValidation(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	_, err := module.Handler.RecordVoteHandler(context.Background(), "similar", httptransport.VoteRequest{
		EntryA: "e1", EntryB: "e2", Answer: "c",
	}, "origin-test")
	if !errors.Is(err, domainerrors.ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}

	_, err = module.Handler.RecordVoteHandler(context.Background(), "similar", httptransport.VoteRequest{
		EntryA: "e1", EntryB: "e1", Answer: "a",
	}, "origin-test")
	if !errors.Is(err, domainerrors.ErrSameEntry) {
		t.Fatalf("expected ErrSameEntry, got %v", err)
	}

	_, err = module.Handler.RecordVoteHandler(context.Background(), "similar", httptransport.VoteRequest{
		EntryA: "e1", EntryB: "ghost", Answer: "a",
	}, "origin-test")
	if !errors.Is(err, domainerrors.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	_, err = module.Handler.RecordVoteHandler(context.Background(), "missing-question", httptransport.VoteRequest{
		EntryA: "e1", EntryB: "e2", Answer: "a",
	}, "origin-test")
	if !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	// Rejected votes must leave no trace in the ledger.
	if _, err := module.Handler.MergedAnswerHandler(context.Background(), "similar", "e1", "e2"); !errors.Is(err, domainerrors.ErrAnswerNotFound) {
		t.Fatalf("expected empty ledger after rejected votes, got %v", err)
	}
}

func TestComparePairAvailability(t *testing.T) {
	module := comparisonengine.NewInMemoryModule(
		[]entities.Question{similarQuestion()},
		rand.New(rand.NewSource(7)),
		nil,
	)

	resp, err := module.Handler.ComparePairHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("compare with empty catalog failed: %v", err)
	}
	if resp.Available {
		t.Fatal("expected no pair with an empty catalog")
	}

	module.Store.AddEntry("e1")
	resp, err = module.Handler.ComparePairHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("compare with one entry failed: %v", err)
	}
	if resp.Available {
		t.Fatal("expected no pair with a single entry")
	}

	module.Store.AddEntry("e2")
	resp, err = module.Handler.ComparePairHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("compare with two entries failed: %v", err)
	}
	if !resp.Available {
		t.Fatal("expected a pair with two entries")
	}
	if !(resp.EntryA == "e1" && resp.EntryB == "e2") && !(resp.EntryA == "e2" && resp.EntryB == "e1") {
		t.Fatalf("two entries must both be selected, got (%s,%s)", resp.EntryA, resp.EntryB)
	}

	module.Store.AddEntry("e3")
	resp, err = module.Handler.ComparePairHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !resp.Available {
		t.Fatal("expected a pair with three entries")
	}
	if resp.EntryA == resp.EntryB {
		t.Fatalf("selected pair must be distinct, got %s twice", resp.EntryA)
	}
	known := map[string]bool{"e1": true, "e2": true, "e3": true}
	if !known[resp.EntryA] || !known[resp.EntryB] {
		t.Fatalf("pair (%s,%s) not drawn from the catalog", resp.EntryA, resp.EntryB)
	}
}

func TestComparePairDeterministicUnderSeededSource(t *testing.T) {
	draw := func(seed int64) (string, string) {
		module := comparisonengine.NewInMemoryModule(
			[]entities.Question{similarQuestion()},
			rand.New(rand.NewSource(seed)),
			nil,
		)
		for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
			module.Store.AddEntry(id)
		}
		resp, err := module.Handler.ComparePairHandler(context.Background(), "similar")
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		if !resp.Available {
			t.Fatal("expected a pair from a five-entry catalog")
		}
		return resp.EntryA, resp.EntryB
	}

	firstA, firstB := draw(7)
	secondA, secondB := draw(7)
	if firstA != secondA || firstB != secondB {
		t.Fatalf("identically seeded sources drew (%s,%s) and (%s,%s)", firstA, firstB, secondA, secondB)
	}

	otherA, otherB := draw(11)
	thirdA, thirdB := draw(11)
	if otherA != thirdA || otherB != thirdB {
		t.Fatalf("identically seeded sources drew (%s,%s) and (%s,%s)", otherA, otherB, thirdA, thirdB)
	}
}

func TestComparePairUnknownSelectionMethod(t *testing.T) {
	question := similarQuestion()
	question.SelectionMethod = 9
	module := comparisonengine.NewInMemoryModule([]entities.Question{question}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	if _, err := module.Handler.ComparePairHandler(context.Background(), "similar"); !errors.Is(err, domainerrors.ErrUnknownSelectionMethod) {
		t.Fatalf("expected ErrUnknownSelectionMethod, got %v", err)
	}
}

func TestTopSimilarRanksAcrossOrientations(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		module.Store.AddEntry(id)
	}

	// e2: 3 of 3 votes similar to e1, split across orientations.
	vote(t, module, "similar", "e1", "e2", "a")
	vote(t, module, "similar", "e1", "e2", "a")
	vote(t, module, "similar", "e2", "e1", "b")
	// e3: 1 of 2 votes similar.
	vote(t, module, "similar", "e1", "e3", "a")
	vote(t, module, "similar", "e1", "e3", "b")
	// e4: reverse orientation only, 0 of 1 similar.
	vote(t, module, "similar", "e4", "e1", "b")

	resp, err := module.Handler.SimilarHandler(context.Background(), "e1", "similar", 10)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("expected 3 ranked peers, got %d", len(resp.Items))
	}
	if resp.Items[0].EntryID != "e2" {
		t.Fatalf("top peer = %s, want e2", resp.Items[0].EntryID)
	}
	if resp.Items[0].CountA != 3 || resp.Items[0].CountB != 0 {
		t.Fatalf("e2 merged counts = (%d,%d), want (3,0)", resp.Items[0].CountA, resp.Items[0].CountB)
	}
	if resp.Items[1].EntryID != "e3" {
		t.Fatalf("second peer = %s, want e3", resp.Items[1].EntryID)
	}
	if resp.Items[2].EntryID != "e4" {
		t.Fatalf("third peer = %s, want e4", resp.Items[2].EntryID)
	}
	// The reverse-only record is re-oriented to the subject; the symmetric
	// policy keeps the not-similar vote in count_b.
	if resp.Items[2].CountA != 0 || resp.Items[2].CountB != 1 {
		t.Fatalf("e4 merged counts = (%d,%d), want (0,1)", resp.Items[2].CountA, resp.Items[2].CountB)
	}
}

func TestTopSimilarDefaultLimit(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	peers := []string{"e2", "e3", "e4", "e5"}
	module.Store.AddEntry("e1")
	for _, id := range peers {
		module.Store.AddEntry(id)
	}
	for _, id := range peers {
		vote(t, module, "similar", "e1", id, "a")
	}

	resp, err := module.Handler.SimilarHandler(context.Background(), "e1", "similar", 0)
	if err != nil {
		t.Fatalf("similar failed: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("default limit should cap at 3, got %d", len(resp.Items))
	}
}

func TestAuditDetectsCorruptedCounters(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)
	module.Store.AddEntry("e1")
	module.Store.AddEntry("e2")

	record := vote(t, module, "similar", "e1", "e2", "a")

	audit, err := module.Handler.AuditHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if !audit.Consistent || audit.Checked != 1 {
		t.Fatalf("expected clean audit over 1 record, got %+v", audit)
	}

	module.Store.CorruptAnswerCounts(record.AnswerID, 5, 2)
	audit, err = module.Handler.AuditHandler(context.Background(), "similar")
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if audit.Consistent || len(audit.Mismatches) != 1 {
		t.Fatalf("expected one mismatch, got %+v", audit)
	}
	mismatch := audit.Mismatches[0]
	if mismatch.CountA != 5 || mismatch.ResponseCountA != 1 {
		t.Fatalf("mismatch detail wrong: %+v", mismatch)
	}
}

func TestCreateQuestionRejectsDuplicateSlug(t *testing.T) {
	module := comparisonengine.NewInMemoryModule([]entities.Question{similarQuestion()}, nil, nil)

	_, err := module.Handler.CreateQuestionHandler(context.Background(), httptransport.CreateQuestionRequest{
		Prompt:  "Which pair is closer?",
		AnswerA: "these",
		AnswerB: "neither",
		Slug:    "similar",
	})
	if !errors.Is(err, domainerrors.ErrQuestionExists) {
		t.Fatalf("expected ErrQuestionExists, got %v", err)
	}

	created, err := module.Handler.CreateQuestionHandler(context.Background(), httptransport.CreateQuestionRequest{
		Prompt:  "Which is warmer?",
		AnswerA: "the first",
		AnswerB: "the second",
		Slug:    "warmer",
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	if created.MergePolicy != string(entities.MergeNone) {
		t.Fatalf("unlisted slug must get merge policy none, got %s", created.MergePolicy)
	}
}
