package errors

import "errors"

var (
	ErrInvalidVoteInput       = errors.New("invalid vote input")
	ErrInvalidAnswer          = errors.New("answer must be \"a\" or \"b\"")
	ErrInvalidAlignment       = errors.New("entry is not an endpoint of the answer record")
	ErrUndefinedScore         = errors.New("score is undefined for a record with no votes")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionExists         = errors.New("question slug already exists")
	ErrEntryNotFound          = errors.New("entry not found")
	ErrAnswerNotFound         = errors.New("answer record not found")
	ErrSameEntry              = errors.New("a comparison pair needs two distinct entries")
	ErrUnknownSelectionMethod = errors.New("unknown pair selection method")
)
