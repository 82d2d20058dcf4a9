package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
	"github.com/kushwaha-yash/loan-risk/pkg/testutil"
)

// --- Test doubles ---

type identityScaler struct{}

func (identityScaler) Transform(x []float64) ([]float64, error) {
	return append([]float64(nil), x...), nil
}

type stubScaler struct {
	transformFunc func(x []float64) ([]float64, error)
}

func (s stubScaler) Transform(x []float64) ([]float64, error) { return s.transformFunc(x) }

type stubClassifier struct {
	dist     []float64
	err      error
	positive int
	seen     [][]float64
	panicMsg string
}

func (c *stubClassifier) PredictProba(_ context.Context, x []float64) ([]float64, error) {
	if c.panicMsg != "" {
		panic(c.panicMsg)
	}
	c.seen = append(c.seen, append([]float64(nil), x...))
	if c.err != nil {
		return nil, c.err
	}
	return append([]float64(nil), c.dist...), nil
}

func (c *stubClassifier) PositiveClassIndex() int { return c.positive }

// repaying returns a classifier that reports the given repayment probability.
func repaying(p float64) *stubClassifier {
	return &stubClassifier{dist: []float64{1 - p, p}, positive: 1}
}

func creditSchema(t *testing.T) *model.FeatureSchema {
	t.Helper()
	s, err := model.NewFeatureSchema(testutil.CreditFeatures)
	require.NoError(t, err)
	return s
}

func newBundle(t *testing.T, clf *stubClassifier) *service.ModelBundle {
	t.Helper()
	b, err := service.NewModelBundle(creditSchema(t), identityScaler{}, clf, "test-1")
	require.NoError(t, err)
	return b
}

func validAnswers() map[string]any {
	return map[string]any{
		"income_stability": 2,
		"delinquency":      0,
		"debt_burden":      1,
		"credit_behavior":  3,
	}
}
