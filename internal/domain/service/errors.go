package service

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is on the typed stage errors.
var (
	ErrMissingFeature      = errors.New("missing feature")
	ErrInvalidFeatureValue = errors.New("invalid feature value")
	ErrScoring             = errors.New("scoring failed")
)

// MissingFeatureError reports the first schema feature absent from the answers.
type MissingFeatureError struct {
	Feature string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing input for feature: %s", e.Feature)
}

func (e *MissingFeatureError) Is(target error) bool { return target == ErrMissingFeature }

// InvalidFeatureValueError reports an answer that cannot be used as a finite number.
type InvalidFeatureValueError struct {
	Value   any
	Feature string
}

func (e *InvalidFeatureValueError) Error() string {
	return fmt.Sprintf("invalid value for feature %s: %#v is not a finite number", e.Feature, e.Value)
}

func (e *InvalidFeatureValueError) Is(target error) bool { return target == ErrInvalidFeatureValue }

// ScoringError means the scaler or classifier rejected a vector. It points at a
// schema/model mismatch in the deployment, never at the applicant's input.
type ScoringError struct {
	Err   error
	Stage string // "schema", "scale" or "predict"
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed at %s: %v", e.Stage, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

func (e *ScoringError) Is(target error) bool { return target == ErrScoring }

// ErrorKind tells callers whether a failed assessment is the applicant's to fix.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindSystemFault  ErrorKind = "system_fault"
)

// AssessmentError is the only error Pipeline returns. It wraps the stage error,
// so errors.As still reaches *MissingFeatureError and friends.
type AssessmentError struct {
	Err  error
	Kind ErrorKind
}

func (e *AssessmentError) Error() string {
	return "assessment failed: " + e.Err.Error()
}

func (e *AssessmentError) Unwrap() error { return e.Err }

func newAssessmentError(err error) *AssessmentError {
	kind := KindSystemFault
	if errors.Is(err, ErrMissingFeature) || errors.Is(err, ErrInvalidFeatureValue) {
		kind = KindInvalidInput
	}
	return &AssessmentError{Err: err, Kind: kind}
}

// KindOf classifies any error returned from an assessment. Errors that are not
// AssessmentErrors count as system faults.
func KindOf(err error) ErrorKind {
	var ae *AssessmentError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindSystemFault
}
