package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	comparisonerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	comparisonhttp "patchbay/contexts/comparison/comparison-engine/transport/http"
)

func writeComparisonError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, comparisonhttp.ErrorResponse{Code: code, Message: message})
}

func writeComparisonDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comparisonerrors.ErrQuestionNotFound),
		errors.Is(err, comparisonerrors.ErrAnswerNotFound):
		writeComparisonError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, comparisonerrors.ErrEntryNotFound):
		writeComparisonError(w, http.StatusUnprocessableEntity, "unknown_entry", err.Error())
	case errors.Is(err, comparisonerrors.ErrQuestionExists):
		writeComparisonError(w, http.StatusConflict, "question_exists", err.Error())
	case errors.Is(err, comparisonerrors.ErrInvalidVoteInput),
		errors.Is(err, comparisonerrors.ErrInvalidAnswer),
		errors.Is(err, comparisonerrors.ErrSameEntry):
		writeComparisonError(w, http.StatusBadRequest, "invalid_vote", err.Error())
	case errors.Is(err, comparisonerrors.ErrUnknownSelectionMethod):
		writeComparisonError(w, http.StatusBadRequest, "unknown_selection_method", err.Error())
	default:
		writeComparisonError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.comparison.Handler.ListQuestionsHandler(r.Context())
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req comparisonhttp.CreateQuestionRequest
	if !s.decodeJSON(w, r, &req, writeComparisonError) {
		return
	}
	resp, err := s.comparison.Handler.CreateQuestionHandler(r.Context(), req)
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleComparePair serves GET /api/compare/{question_slug}. When fewer than
// two entries exist the response still carries the question, with
// available=false instead of an error.
func (s *Server) handleComparePair(w http.ResponseWriter, r *http.Request) {
	resp, err := s.comparison.Handler.ComparePairHandler(r.Context(), r.PathValue("question_slug"))
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordVote(w http.ResponseWriter, r *http.Request) {
	var req comparisonhttp.VoteRequest
	if !s.decodeJSON(w, r, &req, writeComparisonError) {
		return
	}
	originHash := comparisonhttp.OriginHash(resolveClientIP(r))
	resp, err := s.comparison.Handler.RecordVoteHandler(
		r.Context(),
		r.PathValue("question_slug"),
		req,
		originHash,
	)
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMergedAnswer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entryA := query.Get("entry_a")
	entryB := query.Get("entry_b")
	if entryA == "" || entryB == "" {
		writeComparisonError(w, http.StatusBadRequest, "missing_entries", "entry_a and entry_b query parameters are required")
		return
	}
	resp, err := s.comparison.Handler.MergedAnswerHandler(
		r.Context(),
		r.PathValue("question_slug"),
		entryA,
		entryB,
	)
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	slug := query.Get("question")
	if slug == "" {
		writeComparisonError(w, http.StatusBadRequest, "missing_question", "question query parameter is required")
		return
	}
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeComparisonError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.comparison.Handler.SimilarHandler(
		r.Context(),
		r.PathValue("entry_id"),
		slug,
		limit,
	)
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleComparisonAudit(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("question")
	if slug == "" {
		writeComparisonError(w, http.StatusBadRequest, "missing_question", "question query parameter is required")
		return
	}
	resp, err := s.comparison.Handler.AuditHandler(r.Context(), slug)
	if err != nil {
		writeComparisonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
