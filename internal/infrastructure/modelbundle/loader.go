// Package modelbundle loads the trained feature schema, scaler and classifier
// from a versioned JSON artifact.
package modelbundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
	"github.com/kushwaha-yash/loan-risk/internal/domain/port"
	"github.com/kushwaha-yash/loan-risk/internal/domain/service"
)

// ErrInvalidBundle marks artifacts that fail schema or consistency checks.
var ErrInvalidBundle = errors.New("invalid model bundle")

const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
	ScalerIdentity = "identity"

	ModelLogisticRegression = "logistic_regression"
)

type bundleFile struct {
	Version  string     `json:"version"`
	Features []string   `json:"features"`
	Scaler   scalerFile `json:"scaler"`
	Model    modelFile  `json:"model"`
}

type scalerFile struct {
	Kind  string    `json:"kind"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
}

type modelFile struct {
	Kind          string    `json:"kind"`
	Classes       []int     `json:"classes"`
	PositiveClass int       `json:"positive_class"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
}

// Load reads and parses the bundle at path.
func Load(path string) (*service.ModelBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model bundle %s: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load model bundle %s: %w", path, err)
	}
	return b, nil
}

// Parse validates data against the bundle schema, then checks that the
// scaler and classifier were fitted on the declared features.
func Parse(data []byte) (*service.ModelBundle, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var f bundleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	schema, err := model.NewFeatureSchema(f.Features)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	scaler, err := buildScaler(f.Scaler, schema.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	if n := len(f.Model.Coefficients); n != schema.Len() {
		return nil, fmt.Errorf("%w: model has %d coefficients for %d features", ErrInvalidBundle, n, schema.Len())
	}
	clf, err := NewLogisticClassifier(f.Model.Classes, f.Model.PositiveClass, f.Model.Coefficients, f.Model.Intercept)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	b, err := service.NewModelBundle(schema, scaler, clf, f.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return b, nil
}

func buildScaler(f scalerFile, width int) (port.Scaler, error) {
	switch f.Kind {
	case ScalerStandard:
		if len(f.Mean) != width {
			return nil, fmt.Errorf("standard scaler has %d means for %d features", len(f.Mean), width)
		}
		return NewStandardScaler(f.Mean, f.Scale)
	case ScalerMinMax:
		if len(f.Min) != width {
			return nil, fmt.Errorf("minmax scaler has %d offsets for %d features", len(f.Min), width)
		}
		return NewMinMaxScaler(f.Min, f.Scale)
	case ScalerIdentity:
		return NewIdentityScaler(width), nil
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", f.Kind)
	}
}
