package valueobject

// RiskVerdict is the outcome of one assessment.
//
// Probability is the default probability as a percentage rounded to two
// decimals; DefaultProbability is the unrounded value in [0,1] that the tier
// was decided on.
type RiskVerdict struct {
	Tier               RiskTier
	Recommendation     string
	Probability        float64
	DefaultProbability float64
}
