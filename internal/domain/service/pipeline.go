package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/valueobject"
)

// Outcome is everything a successful assessment produced.
type Outcome struct {
	Vector        model.FeatureVector
	Probabilities valueobject.ProbabilityPair
	Verdict       valueobject.RiskVerdict
}

// Pipeline turns raw answers into a RiskVerdict: prepare, score, classify.
// It only reads its bundle, so one Pipeline serves concurrent callers.
type Pipeline struct {
	bundle *ModelBundle
	mapper *InputMapper
	scorer *Scorer
	policy *DecisionPolicy
	logger *slog.Logger
}

// NewPipeline creates a Pipeline over a loaded bundle.
func NewPipeline(bundle *ModelBundle, logger *slog.Logger) (*Pipeline, error) {
	if bundle == nil {
		return nil, fmt.Errorf("pipeline requires a model bundle")
	}
	return &Pipeline{
		bundle: bundle,
		mapper: NewInputMapper(logger),
		scorer: NewScorer(logger),
		policy: NewDecisionPolicy(),
		logger: logger,
	}, nil
}

// Bundle returns the model bundle the pipeline scores with.
func (p *Pipeline) Bundle() *ModelBundle { return p.bundle }

// Assess returns the verdict for raw, or an *AssessmentError.
func (p *Pipeline) Assess(ctx context.Context, raw map[string]any) (valueobject.RiskVerdict, error) {
	out, err := p.Evaluate(ctx, raw)
	if err != nil {
		return valueobject.RiskVerdict{}, err
	}
	return out.Verdict, nil
}

// Evaluate is Assess that also returns the intermediate vector and
// probabilities. Any failure, including a panic inside a stage, is returned
// as an *AssessmentError and no partial outcome.
func (p *Pipeline) Evaluate(ctx context.Context, raw map[string]any) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("assessment stage panicked", slog.Any("panic", r))
			out = Outcome{}
			err = &AssessmentError{Kind: KindSystemFault, Err: fmt.Errorf("panic during assessment: %v", r)}
		}
	}()

	vector, err := p.mapper.Prepare(raw, p.bundle.Schema())
	if err != nil {
		return Outcome{}, newAssessmentError(err)
	}

	pair, err := p.scorer.Score(ctx, vector, p.bundle)
	if err != nil {
		if errors.Is(err, ErrScoring) {
			p.logger.Error("model rejected feature vector",
				slog.String("model_version", p.bundle.Version()),
				slog.String("error", err.Error()),
			)
		}
		return Outcome{}, newAssessmentError(err)
	}

	verdict := p.policy.Classify(pair.DefaultProbability())

	p.logger.Debug("assessment classified",
		slog.String("tier", verdict.Tier.String()),
		slog.Float64("probability", verdict.Probability),
	)

	return Outcome{Vector: vector, Probabilities: pair, Verdict: verdict}, nil
}
