package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
)

// SubmitAssessmentRequest is the input DTO for the SubmitAssessment use case.
// Answers are keyed by feature name; values may be numbers or numeric strings.
type SubmitAssessmentRequest struct {
	Answers     map[string]any `json:"answers"`
	ApplicantID uuid.UUID      `json:"applicant_id"`
}

// AssessmentResponse is the output DTO returned after an assessment.
type AssessmentResponse struct {
	AssessedAt     time.Time            `json:"assessed_at"`
	CreatedAt      time.Time            `json:"created_at"`
	Features       []model.FeatureValue `json:"features"`
	ID             uuid.UUID            `json:"id"`
	ApplicantID    uuid.UUID            `json:"applicant_id"`
	Risk           string               `json:"risk"`
	Recommendation string               `json:"recommendation"`
	ModelVersion   string               `json:"model_version"`
	Probability    float64              `json:"probability"`
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListAssessmentsRequest pages through one applicant's assessments.
type ListAssessmentsRequest struct {
	ApplicantID uuid.UUID `json:"applicant_id"`
	Limit       int       `json:"limit"`
	Offset      int       `json:"offset"`
}

// ListAssessmentsResponse is a page of assessments, newest first.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.LoanAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID(),
		ApplicantID:    a.ApplicantID(),
		Risk:           a.Tier().String(),
		Recommendation: a.Recommendation(),
		Probability:    a.Probability(),
		ModelVersion:   a.ModelVersion(),
		Features:       a.Features(),
		AssessedAt:     a.AssessedAt(),
		CreatedAt:      a.CreatedAt(),
	}
}
