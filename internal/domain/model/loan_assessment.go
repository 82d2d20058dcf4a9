package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/internal/domain/event"
	"github.com/kushwaha-yash/loan-risk/internal/domain/valueobject"
	"github.com/kushwaha-yash/loan-risk/pkg/events"
)

// LoanAssessment is the stored record of one completed risk assessment.
type LoanAssessment struct {
	events.EventCollector

	assessedAt     time.Time
	createdAt      time.Time
	tier           valueobject.RiskTier
	recommendation string
	modelVersion   string
	features       []FeatureValue
	probability    float64
	id             uuid.UUID
	applicantID    uuid.UUID
}

// NewLoanAssessment records a verdict for an applicant and emits
// AssessmentCompleted, plus HighRiskDetected for HIGH verdicts.
func NewLoanAssessment(
	applicantID uuid.UUID,
	vector FeatureVector,
	verdict valueobject.RiskVerdict,
	modelVersion string,
) (*LoanAssessment, error) {
	if applicantID == uuid.Nil {
		return nil, fmt.Errorf("applicant ID is required")
	}
	if vector.Len() == 0 {
		return nil, fmt.Errorf("feature vector is required")
	}
	if verdict.Tier.IsZero() {
		return nil, fmt.Errorf("verdict tier is required")
	}
	if verdict.Probability < 0 || verdict.Probability > 100 {
		return nil, fmt.Errorf("probability must be between 0 and 100, got %v", verdict.Probability)
	}

	now := time.Now().UTC()
	a := &LoanAssessment{
		id:             uuid.New(),
		applicantID:    applicantID,
		features:       vector.Named(),
		tier:           verdict.Tier,
		recommendation: verdict.Recommendation,
		probability:    verdict.Probability,
		modelVersion:   modelVersion,
		assessedAt:     now,
		createdAt:      now,
	}

	a.Record(event.NewAssessmentCompleted(
		a.id, a.applicantID,
		a.tier.String(), a.recommendation, a.probability,
		a.modelVersion, a.assessedAt,
	))
	if a.tier.Equal(valueobject.RiskTierHigh) {
		a.Record(event.NewHighRiskDetected(a.id, a.applicantID, a.probability, a.assessedAt))
	}

	return a, nil
}

// ReconstructLoanAssessment rebuilds an assessment from storage without emitting events.
func ReconstructLoanAssessment(
	id, applicantID uuid.UUID,
	features []FeatureValue,
	tier valueobject.RiskTier,
	recommendation string,
	probability float64,
	modelVersion string,
	assessedAt, createdAt time.Time,
) *LoanAssessment {
	return &LoanAssessment{
		id:             id,
		applicantID:    applicantID,
		features:       features,
		tier:           tier,
		recommendation: recommendation,
		probability:    probability,
		modelVersion:   modelVersion,
		assessedAt:     assessedAt,
		createdAt:      createdAt,
	}
}

func (a *LoanAssessment) ID() uuid.UUID              { return a.id }
func (a *LoanAssessment) ApplicantID() uuid.UUID     { return a.applicantID }
func (a *LoanAssessment) Tier() valueobject.RiskTier { return a.tier }
func (a *LoanAssessment) Recommendation() string     { return a.recommendation }
func (a *LoanAssessment) Probability() float64       { return a.probability }
func (a *LoanAssessment) ModelVersion() string       { return a.modelVersion }
func (a *LoanAssessment) AssessedAt() time.Time      { return a.assessedAt }
func (a *LoanAssessment) CreatedAt() time.Time       { return a.createdAt }

// Features returns the answers that were scored, in schema order.
func (a *LoanAssessment) Features() []FeatureValue {
	out := make([]FeatureValue, len(a.features))
	copy(out, a.features)
	return out
}
