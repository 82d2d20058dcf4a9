package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/pkg/events"
)

// ErrAssessmentNotFound is returned by repositories when no record matches.
var ErrAssessmentNotFound = errors.New("assessment not found")

// ErrAssessmentExists is returned by Save when the ID is already stored.
var ErrAssessmentExists = errors.New("assessment already exists")

// Scaler is the fitted transform applied to a raw feature vector before inference.
type Scaler interface {
	// Transform returns a new slice of the same length as x.
	Transform(x []float64) ([]float64, error)
}

// Classifier is a pre-trained binary classifier.
type Classifier interface {
	// PredictProba returns a probability per class, ordered as the model's classes.
	PredictProba(ctx context.Context, x []float64) ([]float64, error)

	// PositiveClassIndex is the position of the "loan repaid" class in
	// PredictProba's output. It is fixed when the model is loaded.
	PositiveClassIndex() int
}

// AssessmentRepository persists completed assessments.
type AssessmentRepository interface {
	// Save stores a new assessment. Assessments are immutable; a second save
	// of the same ID returns ErrAssessmentExists.
	Save(ctx context.Context, assessment *model.LoanAssessment) error

	// FindByID returns ErrAssessmentNotFound when id is unknown.
	FindByID(ctx context.Context, id uuid.UUID) (*model.LoanAssessment, error)

	// FindByApplicantID lists an applicant's assessments, newest first.
	FindByApplicantID(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.LoanAssessment, error)
}

// EventPublisher publishes domain events to the messaging infrastructure.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// QuestionCatalog serves the applicant questionnaire.
type QuestionCatalog interface {
	Questions() []model.Question
}
