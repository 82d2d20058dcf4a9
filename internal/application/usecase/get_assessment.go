package usecase

import (
	"context"
	"fmt"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetAssessment is the use case for retrieving an existing assessment.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves an assessment by ID. Unknown IDs yield port.ErrAssessmentNotFound.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	assessment, err := uc.repo.FindByID(ctx, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment %s: %w", req.AssessmentID, err)
	}
	return dto.FromModel(assessment), nil
}

// ListAssessments pages through an applicant's assessment history.
type ListAssessments struct {
	repo port.AssessmentRepository
}

func NewListAssessments(repo port.AssessmentRepository) *ListAssessments {
	return &ListAssessments{repo: repo}
}

// Execute clamps the page to [1, 100] entries, defaulting to 20.
func (uc *ListAssessments) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	offset := max(req.Offset, 0)

	found, err := uc.repo.FindByApplicantID(ctx, req.ApplicantID, limit, offset)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(found)),
		Limit:       limit,
		Offset:      offset,
	}
	for _, a := range found {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}
