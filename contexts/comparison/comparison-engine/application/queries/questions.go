package queries

import (
	"context"
	"strings"

	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	"patchbay/contexts/comparison/comparison-engine/ports"
)

// QuestionUseCase serves question-registry reads.
type QuestionUseCase struct {
	Questions ports.QuestionRepository
}

func (uc QuestionUseCase) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	return uc.Questions.ListQuestions(ctx)
}

func (uc QuestionUseCase) QuestionBySlug(ctx context.Context, slug string) (entities.Question, error) {
	return uc.Questions.GetQuestionBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}
