package service

import (
	"github.com/shopspring/decimal"

	"github.com/kushwaha-yash/loan-risk/internal/domain/valueobject"
)

// Default probability thresholds. Each is the inclusive lower bound of its tier.
const (
	HighRiskThreshold   = 0.30
	MediumRiskThreshold = 0.15
)

// DecisionPolicy maps a default probability to a risk tier.
type DecisionPolicy struct{}

// NewDecisionPolicy returns the fixed-threshold policy.
func NewDecisionPolicy() *DecisionPolicy {
	return &DecisionPolicy{}
}

// Classify picks the tier for defaultProbability (in [0,1]).
//
//	p >= 0.30        -> HIGH,   "Do Not Approve"
//	0.15 <= p < 0.30 -> MEDIUM, "Manual Review"
//	p < 0.15         -> LOW,    "Approve"
//
// Comparisons use the unrounded value; only the reported percentage is rounded.
func (DecisionPolicy) Classify(defaultProbability float64) valueobject.RiskVerdict {
	var tier valueobject.RiskTier
	switch {
	case defaultProbability >= HighRiskThreshold:
		tier = valueobject.RiskTierHigh
	case defaultProbability >= MediumRiskThreshold:
		tier = valueobject.RiskTierMedium
	default:
		tier = valueobject.RiskTierLow
	}

	return valueobject.RiskVerdict{
		Tier:               tier,
		Recommendation:     tier.Recommendation(),
		Probability:        ReportedPercentage(defaultProbability),
		DefaultProbability: defaultProbability,
	}
}

var hundred = decimal.NewFromInt(100)

// ReportedPercentage converts a probability to a percentage with two decimals.
// It rounds the shortest decimal form of p half away from zero, so 0.12345
// reports as 12.35.
func ReportedPercentage(p float64) float64 {
	return decimal.NewFromFloat(p).Mul(hundred).Round(2).InexactFloat64()
}
