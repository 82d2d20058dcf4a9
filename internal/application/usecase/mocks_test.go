package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/pkg/events"
	"github.com/kushwaha-yash/loan-risk/pkg/observability"
	"github.com/kushwaha-yash/loan-risk/pkg/testutil"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saved        []*model.LoanAssessment
	saveFunc     func(ctx context.Context, a *model.LoanAssessment) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.LoanAssessment, error)
	listFunc     func(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.LoanAssessment, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.LoanAssessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LoanAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, port.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) FindByApplicantID(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.LoanAssessment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, applicantID, limit, offset)
	}
	return nil, nil
}

type mockEventPublisher struct {
	published   []events.DomainEvent
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockMetrics struct {
	verdicts []string
	failures []string
}

func (m *mockMetrics) RecordVerdict(_ context.Context, tier string, _ float64) {
	m.verdicts = append(m.verdicts, tier)
}

func (m *mockMetrics) RecordFailure(_ context.Context, kind string) {
	m.failures = append(m.failures, kind)
}

type passThroughScaler struct{}

func (passThroughScaler) Transform(x []float64) ([]float64, error) { return x, nil }

type fixedClassifier struct {
	repaid float64
	err    error
}

func (c fixedClassifier) PredictProba(context.Context, []float64) ([]float64, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []float64{1 - c.repaid, c.repaid}, nil
}

func (fixedClassifier) PositiveClassIndex() int { return 1 }

type staticCatalog []model.Question

func (c staticCatalog) Questions() []model.Question { return c }

func newPipeline(t *testing.T, clf fixedClassifier) *service.Pipeline {
	t.Helper()
	schema, err := model.NewFeatureSchema(testutil.CreditFeatures)
	require.NoError(t, err)
	bundle, err := service.NewModelBundle(schema, passThroughScaler{}, clf, "test-model")
	require.NoError(t, err)
	p, err := service.NewPipeline(bundle, observability.NopLogger())
	require.NoError(t, err)
	return p
}

func answers() map[string]any {
	return map[string]any{
		"income_stability": 2,
		"delinquency":      0,
		"debt_burden":      1,
		"credit_behavior":  3,
	}
}
