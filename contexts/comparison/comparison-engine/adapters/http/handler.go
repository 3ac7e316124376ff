package httpadapter

import (
	"context"
	"log/slog"

	"patchbay/contexts/comparison/comparison-engine/application/commands"
	"patchbay/contexts/comparison/comparison-engine/application/queries"
	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	httptransport "patchbay/contexts/comparison/comparison-engine/transport/http"
)

// Handler adapts transport DTOs to comparison use cases.
type Handler struct {
	Votes      commands.VoteUseCase
	Pairs      queries.PairUseCase
	Similarity queries.SimilarityUseCase
	Questions  queries.QuestionUseCase
	Audit      queries.AuditUseCase
	Logger     *slog.Logger
}

func (h Handler) ListQuestionsHandler(ctx context.Context) (httptransport.QuestionListResponse, error) {
	items, err := h.Questions.ListQuestions(ctx)
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	resp := httptransport.QuestionListResponse{
		Items: make([]httptransport.QuestionResponse, 0, len(items)),
	}
	for _, question := range items {
		resp.Items = append(resp.Items, mapQuestion(question))
	}
	return resp, nil
}

func (h Handler) CreateQuestionHandler(
	ctx context.Context,
	req httptransport.CreateQuestionRequest,
) (httptransport.QuestionResponse, error) {
	question, err := h.Votes.CreateQuestion(ctx, commands.CreateQuestionCommand{
		Prompt:          req.Prompt,
		AnswerA:         req.AnswerA,
		AnswerB:         req.AnswerB,
		Slug:            req.Slug,
		SelectionMethod: req.SelectionMethod,
	})
	if err != nil {
		return httptransport.QuestionResponse{}, err
	}
	return mapQuestion(question), nil
}

// ComparePairHandler returns the question plus a selected entry pair, or an
// unavailable result when the catalog has fewer than two entries.
func (h Handler) ComparePairHandler(ctx context.Context, slug string) (httptransport.ComparisonResponse, error) {
	question, err := h.Questions.QuestionBySlug(ctx, slug)
	if err != nil {
		return httptransport.ComparisonResponse{}, err
	}
	pair, ok, err := h.Pairs.SelectPair(ctx, question)
	if err != nil {
		return httptransport.ComparisonResponse{}, err
	}
	resp := httptransport.ComparisonResponse{
		Question:  mapQuestion(question),
		Available: ok,
	}
	if ok {
		resp.EntryA = pair.EntryA
		resp.EntryB = pair.EntryB
	}
	return resp, nil
}

func (h Handler) RecordVoteHandler(
	ctx context.Context,
	slug string,
	req httptransport.VoteRequest,
	originHash string,
) (httptransport.AnswerResponse, error) {
	question, err := h.Questions.QuestionBySlug(ctx, slug)
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	record, err := h.Votes.RecordVote(ctx, commands.RecordVoteCommand{
		QuestionID: question.QuestionID,
		EntryA:     req.EntryA,
		EntryB:     req.EntryB,
		Answer:     req.Answer,
		OriginHash: originHash,
	})
	if err != nil {
		return httptransport.AnswerResponse{}, err
	}
	return httptransport.AnswerResponse{
		AnswerID:   record.AnswerID,
		QuestionID: record.QuestionID,
		EntryA:     record.EntryA,
		EntryB:     record.EntryB,
		CountA:     record.CountA,
		CountB:     record.CountB,
	}, nil
}

func (h Handler) MergedAnswerHandler(
	ctx context.Context,
	slug string,
	entryA string,
	entryB string,
) (httptransport.MergedAnswerResponse, error) {
	question, err := h.Questions.QuestionBySlug(ctx, slug)
	if err != nil {
		return httptransport.MergedAnswerResponse{}, err
	}
	merged, err := h.Similarity.MergedAnswer(ctx, question.QuestionID, entryA, entryB)
	if err != nil {
		return httptransport.MergedAnswerResponse{}, err
	}
	return httptransport.MergedAnswerResponse{
		QuestionID: merged.QuestionID,
		EntryA:     merged.EntryA,
		EntryB:     merged.EntryB,
		CountA:     merged.CountA,
		CountB:     merged.CountB,
		Score:      scoreOrNeutral(merged),
	}, nil
}

func (h Handler) SimilarHandler(
	ctx context.Context,
	entryID string,
	slug string,
	limit int,
) (httptransport.SimilarResponse, error) {
	ranked, err := h.Similarity.TopSimilar(ctx, entryID, slug, limit)
	if err != nil {
		return httptransport.SimilarResponse{}, err
	}
	resp := httptransport.SimilarResponse{
		EntryID:  entryID,
		Question: slug,
		Items:    make([]httptransport.SimilarItem, 0, len(ranked)),
	}
	for _, item := range ranked {
		resp.Items = append(resp.Items, httptransport.SimilarItem{
			EntryID: item.Record.EntryB,
			CountA:  item.Record.CountA,
			CountB:  item.Record.CountB,
			Score:   item.Score,
		})
	}
	return resp, nil
}

func (h Handler) AuditHandler(ctx context.Context, slug string) (httptransport.AuditResponse, error) {
	question, err := h.Questions.QuestionBySlug(ctx, slug)
	if err != nil {
		return httptransport.AuditResponse{}, err
	}
	result, err := h.Audit.AuditLedger(ctx, question.QuestionID)
	if err != nil {
		return httptransport.AuditResponse{}, err
	}
	resp := httptransport.AuditResponse{
		QuestionID: result.QuestionID,
		Checked:    result.Checked,
		Consistent: len(result.Mismatches) == 0,
		Mismatches: make([]httptransport.AuditMismatch, 0, len(result.Mismatches)),
	}
	for _, mismatch := range result.Mismatches {
		resp.Mismatches = append(resp.Mismatches, httptransport.AuditMismatch{
			AnswerID:       mismatch.AnswerID,
			EntryA:         mismatch.EntryA,
			EntryB:         mismatch.EntryB,
			CountA:         mismatch.CountA,
			CountB:         mismatch.CountB,
			ResponseCountA: mismatch.ResponseCountA,
			ResponseCountB: mismatch.ResponseCountB,
		})
	}
	return resp, nil
}

func mapQuestion(question entities.Question) httptransport.QuestionResponse {
	return httptransport.QuestionResponse{
		QuestionID:      question.QuestionID,
		Prompt:          question.Prompt,
		AnswerA:         question.AnswerA,
		AnswerB:         question.AnswerB,
		Slug:            question.Slug,
		SelectionMethod: int(question.SelectionMethod),
		MergePolicy:     string(question.MergePolicy()),
	}
}

func scoreOrNeutral(record entities.AnswerRecord) float64 {
	score, err := entities.Score(record)
	if err != nil {
		return 0.5
	}
	return score
}
