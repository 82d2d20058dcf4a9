package testutil

import (
	"github.com/google/uuid"
)

// Fixed identifiers for deterministic tests.
var (
	TestApplicantID  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestApplicantID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// CreditFeatures is the four-question feature schema used across tests.
var CreditFeatures = []string{"income_stability", "delinquency", "debt_burden", "credit_behavior"}
