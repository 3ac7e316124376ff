package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type QuestionResponse struct {
	QuestionID      string `json:"question_id"`
	Prompt          string `json:"prompt"`
	AnswerA         string `json:"answer_a"`
	AnswerB         string `json:"answer_b"`
	Slug            string `json:"slug"`
	SelectionMethod int    `json:"selection_method"`
	MergePolicy     string `json:"merge_policy"`
}

type QuestionListResponse struct {
	Items []QuestionResponse `json:"items"`
}

type CreateQuestionRequest struct {
	Prompt          string `json:"prompt"`
	AnswerA         string `json:"answer_a"`
	AnswerB         string `json:"answer_b"`
	Slug            string `json:"slug"`
	SelectionMethod int    `json:"selection_method"`
}

type ComparisonResponse struct {
	Question  QuestionResponse `json:"question"`
	Available bool             `json:"available"`
	EntryA    string           `json:"entry_a,omitempty"`
	EntryB    string           `json:"entry_b,omitempty"`
}

type VoteRequest struct {
	EntryA string `json:"entry_a"`
	EntryB string `json:"entry_b"`
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	AnswerID   string `json:"answer_id"`
	QuestionID string `json:"question_id"`
	EntryA     string `json:"entry_a"`
	EntryB     string `json:"entry_b"`
	CountA     int    `json:"count_a"`
	CountB     int    `json:"count_b"`
}

type MergedAnswerResponse struct {
	QuestionID string  `json:"question_id"`
	EntryA     string  `json:"entry_a"`
	EntryB     string  `json:"entry_b"`
	CountA     int     `json:"count_a"`
	CountB     int     `json:"count_b"`
	Score      float64 `json:"score"`
}

type SimilarItem struct {
	EntryID string  `json:"entry_id"`
	CountA  int     `json:"count_a"`
	CountB  int     `json:"count_b"`
	Score   float64 `json:"score"`
}

type SimilarResponse struct {
	EntryID  string        `json:"entry_id"`
	Question string        `json:"question"`
	Items    []SimilarItem `json:"items"`
}

type AuditMismatch struct {
	AnswerID       string `json:"answer_id"`
	EntryA         string `json:"entry_a"`
	EntryB         string `json:"entry_b"`
	CountA         int    `json:"count_a"`
	CountB         int    `json:"count_b"`
	ResponseCountA int    `json:"response_count_a"`
	ResponseCountB int    `json:"response_count_b"`
}

type AuditResponse struct {
	QuestionID string          `json:"question_id"`
	Checked    int             `json:"checked"`
	Consistent bool            `json:"consistent"`
	Mismatches []AuditMismatch `json:"mismatches"`
}
