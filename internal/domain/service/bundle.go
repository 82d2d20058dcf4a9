package service

import (
	"fmt"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
)

// ModelBundle is the trained artifact: feature schema, fitted scaler and
// classifier. It is built once at startup and shared read-only by every
// assessment.
type ModelBundle struct {
	schema     *model.FeatureSchema
	scaler     port.Scaler
	classifier port.Classifier
	version    string
}

// NewModelBundle validates that all three parts are present and that the
// classifier's positive class index addresses a binary distribution.
func NewModelBundle(schema *model.FeatureSchema, scaler port.Scaler, classifier port.Classifier, version string) (*ModelBundle, error) {
	switch {
	case schema == nil:
		return nil, fmt.Errorf("model bundle: feature schema is missing")
	case scaler == nil:
		return nil, fmt.Errorf("model bundle: scaler is missing")
	case classifier == nil:
		return nil, fmt.Errorf("model bundle: classifier is missing")
	}
	if idx := classifier.PositiveClassIndex(); idx != 0 && idx != 1 {
		return nil, fmt.Errorf("model bundle: positive class index %d is not valid for a binary classifier", idx)
	}

	return &ModelBundle{
		schema:     schema,
		scaler:     scaler,
		classifier: classifier,
		version:    version,
	}, nil
}

func (b *ModelBundle) Schema() *model.FeatureSchema { return b.schema }
func (b *ModelBundle) Scaler() port.Scaler          { return b.scaler }
func (b *ModelBundle) Classifier() port.Classifier  { return b.classifier }
func (b *ModelBundle) Version() string              { return b.version }
