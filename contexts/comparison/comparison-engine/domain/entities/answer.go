package entities

import (
	"fmt"
	"time"

	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
)

// AnswerRecord accumulates votes for the ordered pair (EntryA, EntryB) under
// one question. At most one record exists per ordered triple; the record for
// the swapped pair is a distinct, complementary record.
type AnswerRecord struct {
	AnswerID   string
	QuestionID string
	EntryA     string
	EntryB     string
	CountA     int
	CountB     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ResponseDetail is one vote in the append-only response log. CountA/CountB
// of the referenced answer record must always equal the tallies of
// SelectedA=true/false responses.
type ResponseDetail struct {
	ResponseID string
	AnswerID   string
	SelectedA  bool
	OriginHash string
	CreatedAt  time.Time
}

// Total is the number of votes recorded against the ordered pair.
func (r AnswerRecord) Total() int {
	return r.CountA + r.CountB
}

// Align returns a copy of the record re-expressed so toEntry occupies the
// EntryA slot. Under a reversed merge policy the counts swap with the
// endpoints; under symmetric (or undefined) policies the counts stay in
// their answer slots. An entry matching neither endpoint is a caller error.
func Align(record AnswerRecord, policy MergePolicy, toEntry string) (AnswerRecord, error) {
	switch toEntry {
	case record.EntryA:
		return record, nil
	case record.EntryB:
		aligned := record
		aligned.EntryA, aligned.EntryB = record.EntryB, record.EntryA
		if policy == MergeReversed {
			aligned.CountA, aligned.CountB = record.CountB, record.CountA
		}
		return aligned, nil
	default:
		return AnswerRecord{}, fmt.Errorf("%w: entry %s is not an endpoint of answer %s (%s vs %s)",
			domainerrors.ErrInvalidAlignment, toEntry, record.AnswerID, record.EntryA, record.EntryB)
	}
}

// Merge combines a record with its complementary record (the reverse-ordered
// pair under the same question) into a single oriented tally. The complement
// is aligned to base.EntryA before summing; a nil complement yields a copy of
// base. The result is a new value and never references persisted state.
func Merge(base AnswerRecord, complement *AnswerRecord, policy MergePolicy) (AnswerRecord, error) {
	merged := base
	if complement == nil {
		return merged, nil
	}
	aligned, err := Align(*complement, policy, base.EntryA)
	if err != nil {
		return AnswerRecord{}, err
	}
	merged.CountA += aligned.CountA
	merged.CountB += aligned.CountB
	return merged, nil
}

// Score is the fraction of votes favoring EntryA, in [0,1]. A record with no
// votes has no defined score and returns ErrUndefinedScore; read paths that
// need a ranking value substitute the neutral 0.5.
func Score(record AnswerRecord) (float64, error) {
	total := record.Total()
	if total == 0 {
		return 0, domainerrors.ErrUndefinedScore
	}
	return float64(record.CountA) / float64(total), nil
}
