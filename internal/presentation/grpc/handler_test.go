package grpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kushwaha-yash/loan-risk/internal/application/usecase"
	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/memory"
	"github.com/kushwaha-yash/loan-risk/pkg/observability"
	"github.com/kushwaha-yash/loan-risk/pkg/testutil"
)

// --- Test doubles ---

type passThroughScaler struct{}

func (passThroughScaler) Transform(x []float64) ([]float64, error) { return x, nil }

// debtClassifier repays unless debt_burden (index 2) is high.
type debtClassifier struct{}

func (debtClassifier) PredictProba(_ context.Context, x []float64) ([]float64, error) {
	if x[2] >= 3 {
		return []float64{0.45, 0.55}, nil
	}
	return []float64{0.08, 0.92}, nil
}

func (debtClassifier) PositiveClassIndex() int { return 1 }

type staticCatalog []model.Question

func (c staticCatalog) Questions() []model.Question { return c }

// --- Helpers ---

func buildTestHandler(t *testing.T) *RiskServiceHandler {
	t.Helper()
	logger := observability.NopLogger()

	schema, err := model.NewFeatureSchema(testutil.CreditFeatures)
	require.NoError(t, err)
	bundle, err := service.NewModelBundle(schema, passThroughScaler{}, debtClassifier{}, "test-model")
	require.NoError(t, err)
	pipeline, err := service.NewPipeline(bundle, logger)
	require.NoError(t, err)

	repo := memory.NewAssessmentRepository(0)
	catalog := staticCatalog{
		{Key: "income_stability", Text: "How stable is your income?", Type: model.QuestionTypeSelect,
			Options: []model.QuestionOption{{Label: "Stable", Value: 2}}},
		{Key: "delinquency", Text: "Missed payments?", Type: model.QuestionTypeNumber},
	}

	return NewRiskServiceHandler(
		usecase.NewSubmitAssessment(pipeline, repo, memory.NewEventPublisher(10, logger), nil, logger),
		usecase.NewGetAssessment(repo),
		usecase.NewListAssessments(repo),
		usecase.NewListQuestions(catalog),
		logger,
	)
}

func validRequest() *AssessApplicantRequest {
	return &AssessApplicantRequest{
		ApplicantID: testutil.TestApplicantID.String(),
		Answers: map[string]any{
			"income_stability": json.Number("2"),
			"delinquency":      json.Number("0"),
			"debt_burden":      json.Number("1"),
			"credit_behavior":  json.Number("3"),
		},
	}
}

// --- Tests ---

func TestAssessApplicant(t *testing.T) {
	ctx := context.Background()

	t.Run("returns verdict", func(t *testing.T) {
		h := buildTestHandler(t)
		resp, err := h.AssessApplicant(ctx, validRequest())

		require.NoError(t, err)
		require.NotNil(t, resp.Assessment)
		assert.Equal(t, "LOW", resp.Assessment.Risk)
		assert.Equal(t, "Approve", resp.Assessment.Recommendation)
		assert.Equal(t, 8.0, resp.Assessment.Probability)
		assert.Len(t, resp.Assessment.Features, 4)
		assert.False(t, resp.Assessment.AssessedAt.AsTime().IsZero())
	})

	t.Run("high risk", func(t *testing.T) {
		h := buildTestHandler(t)
		req := validRequest()
		req.Answers["debt_burden"] = 3

		resp, err := h.AssessApplicant(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "HIGH", resp.Assessment.Risk)
		assert.Equal(t, 45.0, resp.Assessment.Probability)
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := buildTestHandler(t).AssessApplicant(ctx, nil)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("bad applicant id", func(t *testing.T) {
		req := validRequest()
		req.ApplicantID = "nope"
		_, err := buildTestHandler(t).AssessApplicant(ctx, req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("nil applicant id", func(t *testing.T) {
		req := validRequest()
		req.ApplicantID = uuid.Nil.String()
		_, err := buildTestHandler(t).AssessApplicant(ctx, req)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("missing answer names the feature", func(t *testing.T) {
		req := validRequest()
		delete(req.Answers, "credit_behavior")

		_, err := buildTestHandler(t).AssessApplicant(ctx, req)
		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.Contains(t, st.Message(), "credit_behavior")
	})
}

func TestGetAssessment(t *testing.T) {
	ctx := context.Background()
	h := buildTestHandler(t)

	created, err := h.AssessApplicant(ctx, validRequest())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		resp, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: created.Assessment.ID})
		require.NoError(t, err)
		assert.Equal(t, created.Assessment, resp.Assessment)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: uuid.NewString()})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: "x"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestListAssessments(t *testing.T) {
	ctx := context.Background()
	h := buildTestHandler(t)

	for i := 0; i < 3; i++ {
		_, err := h.AssessApplicant(ctx, validRequest())
		require.NoError(t, err)
	}

	resp, err := h.ListAssessments(ctx, &ListAssessmentsRequest{ApplicantID: testutil.TestApplicantID.String(), Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Assessments, 2)

	_, err = h.ListAssessments(ctx, &ListAssessmentsRequest{ApplicantID: "bad"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListQuestions(t *testing.T) {
	resp, err := buildTestHandler(t).ListQuestions(context.Background(), &ListQuestionsRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "income_stability", resp.Questions[0].Key)
	assert.Equal(t, []QuestionOptionMsg{{Label: "Stable", Value: 2}}, resp.Questions[0].Options)
	assert.Equal(t, "number", resp.Questions[1].Type)
}
