package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/kushwaha-yash/loan-risk/internal/application/dto"
	"github.com/kushwaha-yash/loan-risk/internal/application/usecase"
	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/internal/infrastructure/memory"
	"github.com/kushwaha-yash/loan-risk/internal/presentation/rest"
	"github.com/kushwaha-yash/loan-risk/pkg/observability"
	"github.com/kushwaha-yash/loan-risk/pkg/testutil"
)

// --- Test doubles ---

type passThroughScaler struct{}

func (passThroughScaler) Transform(x []float64) ([]float64, error) { return x, nil }

type stubClassifier struct {
	repaid float64
	err    error
}

func (c stubClassifier) PredictProba(context.Context, []float64) ([]float64, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []float64{1 - c.repaid, c.repaid}, nil
}

func (stubClassifier) PositiveClassIndex() int { return 1 }

type staticCatalog []model.Question

func (c staticCatalog) Questions() []model.Question { return c }

// --- Helpers ---

func newTestRouter(t *testing.T, clf stubClassifier, checks map[string]rest.ReadinessCheck) http.Handler {
	t.Helper()
	return newLimitedRouter(t, clf, checks, nil)
}

func newLimitedRouter(t *testing.T, clf stubClassifier, checks map[string]rest.ReadinessCheck, limiter *rate.Limiter) http.Handler {
	t.Helper()
	logger := observability.NopLogger()

	schema, err := model.NewFeatureSchema(testutil.CreditFeatures)
	require.NoError(t, err)
	bundle, err := service.NewModelBundle(schema, passThroughScaler{}, clf, "test-model")
	require.NoError(t, err)
	pipeline, err := service.NewPipeline(bundle, logger)
	require.NoError(t, err)

	repo := memory.NewAssessmentRepository(0)
	catalog := staticCatalog{{Key: "income_stability", Text: "How stable?", Type: model.QuestionTypeNumber}}

	assessments := rest.NewAssessmentHandler(
		usecase.NewSubmitAssessment(pipeline, repo, memory.NewEventPublisher(10, logger), nil, logger),
		usecase.NewGetAssessment(repo),
		usecase.NewListAssessments(repo),
		usecase.NewListQuestions(catalog),
		logger,
	).LimitSubmissions(limiter)
	health := rest.NewHealthHandler("loan-risk-service", checks, logger)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	return rest.NewRouter(assessments, health, metrics, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"applicant_id": "00000000-0000-0000-0000-000000000001",
	"answers": {"income_stability": 2, "delinquency": "0", "debt_burden": 1, "credit_behavior": 3}
}`

// --- Tests ---

func TestSubmitAssessment(t *testing.T) {
	t.Run("created with verdict", func(t *testing.T) {
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.92}, nil), http.MethodPost, "/v1/assessments", validBody)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp dto.AssessmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "LOW", resp.Risk)
		assert.Equal(t, "Approve", resp.Recommendation)
		assert.Equal(t, 8.0, resp.Probability)
		assert.Equal(t, testutil.TestApplicantID, resp.ApplicantID)
	})

	t.Run("missing answer is 422 naming the feature", func(t *testing.T) {
		body := `{"applicant_id":"00000000-0000-0000-0000-000000000001","answers":{"income_stability":2}}`
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.92}, nil), http.MethodPost, "/v1/assessments", body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "delinquency")
		assert.Contains(t, rec.Body.String(), "invalid_input")
	})

	t.Run("model fault is 500 without detail", func(t *testing.T) {
		clf := stubClassifier{err: errors.New("secret internal detail")}
		rec := do(t, newTestRouter(t, clf, nil), http.MethodPost, "/v1/assessments", validBody)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
		assert.Contains(t, rec.Body.String(), "system_fault")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.9}, nil), http.MethodPost, "/v1/assessments", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing applicant", func(t *testing.T) {
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.9}, nil), http.MethodPost, "/v1/assessments", `{"answers":{}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAndListAssessments(t *testing.T) {
	router := newTestRouter(t, stubClassifier{repaid: 0.55}, nil)

	created := do(t, router, http.MethodPost, "/v1/assessments", validBody)
	require.Equal(t, http.StatusCreated, created.Code)
	var resp dto.AssessmentResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	t.Run("get", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/assessments/"+resp.ID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"risk":"HIGH"`)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/assessments/6f1c0b5e-7a5d-4a55-9f53-0d3a7f0f8a11", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get bad id", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/assessments/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list by applicant", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/applicants/"+testutil.TestApplicantID.String()+"/assessments?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var page dto.ListAssessmentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.Len(t, page.Assessments, 1)
		assert.Equal(t, resp.ID, page.Assessments[0].ID)
		assert.Equal(t, 5, page.Limit)
	})

	t.Run("list bad limit", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/v1/applicants/"+testutil.TestApplicantID.String()+"/assessments?limit=x", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuestionsAndMetrics(t *testing.T) {
	router := newTestRouter(t, stubClassifier{repaid: 0.9}, nil)

	rec := do(t, router, http.MethodGet, "/v1/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"key":"income_stability"`)
	assert.Contains(t, rec.Body.String(), `"question":"How stable?"`)

	rec = do(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.9}, nil), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("readyz ok", func(t *testing.T) {
		checks := map[string]rest.ReadinessCheck{"database": func(context.Context) error { return nil }}
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.9}, checks), http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp rest.ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("readyz failing dependency", func(t *testing.T) {
		checks := map[string]rest.ReadinessCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
			"model":    func(context.Context) error { return nil },
		}
		rec := do(t, newTestRouter(t, stubClassifier{repaid: 0.9}, checks), http.MethodGet, "/readyz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp rest.ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not ready", resp.Status)
		assert.Equal(t, "ok", resp.Checks["model"])
		assert.Contains(t, resp.Checks["database"], "connection refused")
	})
}

func TestSubmitRateLimit(t *testing.T) {
	assert.Nil(t, rest.NewSubmitLimiter(0, 5))

	router := newLimitedRouter(t, stubClassifier{repaid: 0.92}, nil, rest.NewSubmitLimiter(1, 2))

	for i := 0; i < 2; i++ {
		rec := do(t, router, http.MethodPost, "/v1/assessments", validBody)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(t, router, http.MethodPost, "/v1/assessments", validBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())

	// Reads are not throttled.
	rec = do(t, router, http.MethodGet, "/v1/questions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
