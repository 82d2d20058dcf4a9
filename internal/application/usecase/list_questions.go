package usecase

import (
	"context"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
)

// ListQuestions serves the applicant questionnaire.
type ListQuestions struct {
	catalog port.QuestionCatalog
}

func NewListQuestions(catalog port.QuestionCatalog) *ListQuestions {
	return &ListQuestions{catalog: catalog}
}

func (uc *ListQuestions) Execute(_ context.Context) []dto.QuestionResponse {
	return dto.FromQuestions(uc.catalog.Questions())
}
