package modelbundle

import "fmt"

// StandardScaler computes (x - mean) / scale per feature.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("standard scaler: %d means for %d scales", len(mean), len(scale))
	}
	for i, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("standard scaler: scale[%d] is zero", i)
		}
	}
	return &StandardScaler{mean: clone(mean), scale: clone(scale)}, nil
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, widthError("standard scaler", len(s.mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// MinMaxScaler computes x*scale + min per feature, the fitted form of a
// min-max range transform.
type MinMaxScaler struct {
	min   []float64
	scale []float64
}

func NewMinMaxScaler(min, scale []float64) (*MinMaxScaler, error) {
	if len(min) != len(scale) {
		return nil, fmt.Errorf("minmax scaler: %d offsets for %d scales", len(min), len(scale))
	}
	return &MinMaxScaler{min: clone(min), scale: clone(scale)}, nil
}

func (s *MinMaxScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.min) {
		return nil, widthError("minmax scaler", len(s.min), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v*s.scale[i] + s.min[i]
	}
	return out, nil
}

// IdentityScaler passes values through unchanged.
type IdentityScaler struct {
	width int
}

func NewIdentityScaler(width int) *IdentityScaler {
	return &IdentityScaler{width: width}
}

func (s *IdentityScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != s.width {
		return nil, widthError("identity scaler", s.width, len(x))
	}
	return clone(x), nil
}

func widthError(component string, want, got int) error {
	return fmt.Errorf("%s fitted on %d features, got %d", component, want, got)
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
