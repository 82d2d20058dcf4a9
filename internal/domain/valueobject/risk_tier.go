package valueobject

import "fmt"

// RiskTier is the discrete risk classification of an applicant.
type RiskTier struct {
	value string
}

var (
	RiskTierLow    = RiskTier{value: "LOW"}
	RiskTierMedium = RiskTier{value: "MEDIUM"}
	RiskTierHigh   = RiskTier{value: "HIGH"}
)

// RiskTierFromString reconstructs a RiskTier from its persisted form.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %q", s)
	}
}

// Recommendation is the lending action attached to the tier.
func (r RiskTier) Recommendation() string {
	switch r.value {
	case "LOW":
		return "Approve"
	case "MEDIUM":
		return "Manual Review"
	case "HIGH":
		return "Do Not Approve"
	default:
		return ""
	}
}

func (r RiskTier) String() string { return r.value }

// IsZero reports whether the tier was never set.
func (r RiskTier) IsZero() bool { return r.value == "" }

func (r RiskTier) Equal(other RiskTier) bool { return r.value == other.value }
