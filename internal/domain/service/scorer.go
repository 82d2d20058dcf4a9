package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/valueobject"
)

// Scorer runs a FeatureVector through the bundle's scaler and classifier.
type Scorer struct {
	logger *slog.Logger
}

// NewScorer creates a Scorer.
func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score returns the repayment/default distribution for vector. Every failure
// is a *ScoringError.
func (s *Scorer) Score(ctx context.Context, vector model.FeatureVector, bundle *ModelBundle) (valueobject.ProbabilityPair, error) {
	if !vector.Schema().Equal(bundle.Schema()) {
		return valueobject.ProbabilityPair{}, &ScoringError{
			Stage: "schema",
			Err:   fmt.Errorf("vector built for features %v, model expects %v", schemaNames(vector.Schema()), bundle.Schema().Names()),
		}
	}

	scaled, err := bundle.Scaler().Transform(vector.Values())
	if err != nil {
		return valueobject.ProbabilityPair{}, &ScoringError{Stage: "scale", Err: err}
	}
	if len(scaled) != vector.Len() {
		return valueobject.ProbabilityPair{}, &ScoringError{
			Stage: "scale",
			Err:   fmt.Errorf("scaler returned %d values for %d features", len(scaled), vector.Len()),
		}
	}

	dist, err := bundle.Classifier().PredictProba(ctx, scaled)
	if err != nil {
		return valueobject.ProbabilityPair{}, &ScoringError{Stage: "predict", Err: err}
	}
	if len(dist) != 2 {
		return valueobject.ProbabilityPair{}, &ScoringError{
			Stage: "predict",
			Err:   fmt.Errorf("classifier returned %d class probabilities, want 2", len(dist)),
		}
	}

	pos := bundle.Classifier().PositiveClassIndex()
	pair, err := valueobject.NewProbabilityPair(dist[pos], dist[1-pos])
	if err != nil {
		return valueobject.ProbabilityPair{}, &ScoringError{Stage: "predict", Err: err}
	}

	s.logger.Debug("classifier scored vector",
		slog.Float64("repaid_probability", pair.Positive),
		slog.Float64("default_probability", pair.DefaultProbability()),
	)

	return pair, nil
}

func schemaNames(s *model.FeatureSchema) []string {
	if s == nil {
		return nil
	}
	return s.Names()
}
