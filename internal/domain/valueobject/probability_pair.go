package valueobject

import (
	"fmt"
	"math"
)

// ProbabilityTolerance bounds how far Positive+Negative may drift from 1.
const ProbabilityTolerance = 1e-6

// ProbabilityPair is a binary class distribution: Positive is the probability
// the loan is repaid, Negative that it defaults.
type ProbabilityPair struct {
	Positive float64
	Negative float64
}

// NewProbabilityPair validates both probabilities and their sum.
func NewProbabilityPair(positive, negative float64) (ProbabilityPair, error) {
	for _, p := range []float64{positive, negative} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return ProbabilityPair{}, fmt.Errorf("probability %v outside [0,1]", p)
		}
	}
	if sum := positive + negative; math.Abs(sum-1) > ProbabilityTolerance {
		return ProbabilityPair{}, fmt.Errorf("probabilities sum to %v, want 1", sum)
	}
	return ProbabilityPair{Positive: positive, Negative: negative}, nil
}

// DefaultProbability is one minus the repayment probability.
func (p ProbabilityPair) DefaultProbability() float64 {
	return 1 - p.Positive
}
