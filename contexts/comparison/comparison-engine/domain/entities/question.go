package entities

import "strings"

// MergePolicy governs how counts of a complementary answer record are
// combined when the record is re-oriented.
type MergePolicy string

const (
	// MergeSymmetric: both orderings describe the same relationship, counts
	// are summed slot-aligned.
	MergeSymmetric MergePolicy = "symmetric"
	// MergeReversed: the orderings are logical opposites, counts swap when
	// the record is re-oriented.
	MergeReversed MergePolicy = "reversed"
	// MergeNone: no automatic merge is defined for the question.
	MergeNone MergePolicy = "none"
)

// SelectionMethod identifies the pair-selection policy of a question.
type SelectionMethod int

// SelectionRandom draws two distinct entries uniformly from the catalog.
const SelectionRandom SelectionMethod = 0

var mergePolicyBySlug = map[string]MergePolicy{
	"similar": MergeSymmetric,
	"better":  MergeReversed,
}

// Question is a binary prompt presented with a pair of entries.
type Question struct {
	QuestionID      string
	Prompt          string
	AnswerA         string
	AnswerB         string
	Slug            string
	SelectionMethod SelectionMethod
}

// MergePolicy resolves the question slug through the policy table. Unknown
// slugs get MergeNone: complementary records are left unmerged until a
// policy is assigned.
func (q Question) MergePolicy() MergePolicy {
	policy, ok := mergePolicyBySlug[strings.ToLower(strings.TrimSpace(q.Slug))]
	if !ok {
		return MergeNone
	}
	return policy
}
