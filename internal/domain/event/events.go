package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted for every stored assessment.
	EventTypeAssessmentCompleted = "loanrisk.assessment.completed"

	// EventTypeHighRiskDetected is emitted when an applicant lands in the HIGH tier.
	EventTypeHighRiskDetected = "loanrisk.high_risk.detected"

	aggregateType = "LoanAssessment"
)

// AssessmentCompleted is published once a verdict has been recorded.
type AssessmentCompleted struct {
	events.BaseEvent
	AssessedAt     time.Time `json:"assessed_at"`
	ApplicantID    uuid.UUID `json:"applicant_id"`
	Tier           string    `json:"tier"`
	Recommendation string    `json:"recommendation"`
	ModelVersion   string    `json:"model_version"`
	Probability    float64   `json:"probability"`
}

// NewAssessmentCompleted builds the event for assessment assessmentID.
func NewAssessmentCompleted(
	assessmentID, applicantID uuid.UUID,
	tier, recommendation string,
	probability float64,
	modelVersion string,
	assessedAt time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:      events.NewBaseEvent(EventTypeAssessmentCompleted, assessmentID, aggregateType),
		ApplicantID:    applicantID,
		Tier:           tier,
		Recommendation: recommendation,
		Probability:    probability,
		ModelVersion:   modelVersion,
		AssessedAt:     assessedAt,
	}
}

// HighRiskDetected is published alongside AssessmentCompleted for HIGH verdicts
// so downstream reviewers can act on it without filtering every assessment.
type HighRiskDetected struct {
	events.BaseEvent
	DetectedAt  time.Time `json:"detected_at"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Probability float64   `json:"probability"`
}

// NewHighRiskDetected builds the event for assessment assessmentID.
func NewHighRiskDetected(assessmentID, applicantID uuid.UUID, probability float64, detectedAt time.Time) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:   events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID, aggregateType),
		ApplicantID: applicantID,
		Probability: probability,
		DetectedAt:  detectedAt,
	}
}
